package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product carries a non-negative stock count. The invariant is enforced at
// order-creation time inside the order transaction, not by a database
// constraint.
type Product struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `json:"name" gorm:"size:200;not null"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	SKU           string          `json:"sku" gorm:"size:50;uniqueIndex;not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	IsActive      bool            `json:"is_active" gorm:"default:true"`
	Categories    []Category      `json:"categories,omitempty" gorm:"many2many:product_categories"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}
