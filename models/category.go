package models

import (
	"time"

	"github.com/google/uuid"
)

// Category forms a tree via ParentID. The tree is acyclic by convention; no
// database constraint prevents a parent cycle, so traversal code must carry a
// defensive cycle break.
type Category struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `json:"name" gorm:"size:100;not null"`
	ParentID  *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}
