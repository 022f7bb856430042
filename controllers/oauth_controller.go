package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "github.com/kamaudevs/sokoapi/common/errors"
	"github.com/kamaudevs/sokoapi/middleware"
	"github.com/kamaudevs/sokoapi/oauth"
	"github.com/kamaudevs/sokoapi/repository"
	"github.com/kamaudevs/sokoapi/services"
)

// TokenRequest is the resource-owner-password grant form
type TokenRequest struct {
	GrantType    string `form:"grant_type" binding:"required"`
	Username     string `form:"username"`
	Password     string `form:"password"`
	Scope        string `form:"scope"`
	ClientID     string `form:"client_id"`
	ClientSecret string `form:"client_secret"`
}

type OAuthController struct {
	customers *services.CustomerService
	clients   repository.OAuthClientRepository
	tokens    *oauth.TokenService
	baseURL   string
}

func NewOAuthController(customers *services.CustomerService, clients repository.OAuthClientRepository, tokens *oauth.TokenService, baseURL string) *OAuthController {
	return &OAuthController{
		customers: customers,
		clients:   clients,
		tokens:    tokens,
		baseURL:   baseURL,
	}
}

// Token issues an access token for the password grant
func (ctl *OAuthController) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if req.GrantType != "password" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_grant_type"})
		return
	}

	if !ctl.authenticateClient(c, req.ClientID, req.ClientSecret) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_client"})
		return
	}

	scopes := oauth.ParseScope(req.Scope)
	if len(scopes) == 0 {
		scopes = oauth.DefaultScopes()
	}
	if !oauth.ValidateScopes(scopes) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_scope"})
		return
	}

	customer, err := ctl.customers.Authenticate(c, req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_grant"})
		return
	}

	token, err := ctl.tokens.IssueAccessToken(customer, scopes)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(oauth.AccessTokenTTL.Seconds()),
		"scope":        oauth.JoinScope(scopes),
	})
}

// UserInfo returns the OIDC claims for the bearer token's subject. Requires
// the openid scope, enforced by route middleware.
func (ctl *OAuthController) UserInfo(c *gin.Context) {
	customerID, err := middleware.CustomerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	customer, err := ctl.customers.GetProfile(c, customerID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, oauth.BuildClaims(customer, middleware.Scopes(c)))
}

// OpenIDConfiguration serves the discovery document
func (ctl *OAuthController) OpenIDConfiguration(c *gin.Context) {
	c.JSON(http.StatusOK, oauth.Discovery(ctl.baseURL))
}

// JWKS serves the token verification keys
func (ctl *OAuthController) JWKS(c *gin.Context) {
	c.JSON(http.StatusOK, oauth.JWKS(ctl.tokens.PublicKey(), ctl.tokens.KeyID()))
}

func (ctl *OAuthController) authenticateClient(ctx context.Context, clientID, clientSecret string) bool {
	if clientID == "" {
		return false
	}
	client, err := ctl.clients.FindByClientID(ctx, clientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		return false
	}
	return client.ClientSecret == clientSecret
}
