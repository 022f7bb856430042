package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OAuthClient is a registered OAuth2 application. RedirectURIs holds the
// registered URIs as a single whitespace-separated string, matching how they
// are submitted at registration time.
type OAuthClient struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID     string    `json:"client_id" gorm:"uniqueIndex;not null"`
	ClientSecret string    `json:"-" gorm:"not null"`
	Name         string    `json:"name" gorm:"size:100"`
	RedirectURIs string    `json:"redirect_uris"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// DefaultRedirectURI returns the last registered redirect URI, which serves
// as the client's default. ok is false when none is registered.
func (c *OAuthClient) DefaultRedirectURI() (string, bool) {
	uris := strings.Fields(c.RedirectURIs)
	if len(uris) == 0 {
		return "", false
	}
	return uris[len(uris)-1], true
}
