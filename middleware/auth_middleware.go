package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kamaudevs/sokoapi/oauth"
)

const (
	CustomerContextKey = "customer_id"
	ScopesContextKey   = "scopes"
)

// Authenticate validates the bearer token and stores the subject and granted
// scopes on the request context
func Authenticate(tokens *oauth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := tokens.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		customerID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
			return
		}

		c.Set(CustomerContextKey, customerID)
		c.Set(ScopesContextKey, oauth.ParseScope(claims.Scope))
		c.Next()
	}
}

// RequireScope rejects requests whose token was not granted the scope
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !oauth.HasScope(Scopes(c), scope) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient scope"})
			return
		}
		c.Next()
	}
}

// CustomerID extracts the authenticated customer id from the request context
func CustomerID(c *gin.Context) (uuid.UUID, error) {
	if val, ok := c.Get(CustomerContextKey); ok {
		if id, ok := val.(uuid.UUID); ok {
			return id, nil
		}
	}
	return uuid.Nil, errors.New("customer ID not found in context")
}

// Scopes extracts the granted scopes from the request context
func Scopes(c *gin.Context) []string {
	if val, ok := c.Get(ScopesContextKey); ok {
		if scopes, ok := val.([]string); ok {
			return scopes
		}
	}
	return nil
}
