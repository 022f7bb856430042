package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kamaudevs/sokoapi/models"
	"github.com/kamaudevs/sokoapi/oauth"
	"github.com/kamaudevs/sokoapi/repository"
	"github.com/kamaudevs/sokoapi/services"
)

// stubStore implements only the repositories the token endpoint touches;
// anything else panics via the embedded nil interface.
type stubStore struct {
	repository.Store
	customers stubCustomers
}

func (s *stubStore) Customers() repository.CustomerRepository { return s.customers }

type stubCustomers map[string]*models.Customer

func (r stubCustomers) Create(_ context.Context, c *models.Customer) error {
	r[c.Username] = c
	return nil
}

func (r stubCustomers) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	for _, c := range r {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r stubCustomers) FindByUsername(_ context.Context, username string) (*models.Customer, error) {
	c, ok := r[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r stubCustomers) Save(_ context.Context, c *models.Customer) error {
	r[c.Username] = c
	return nil
}

type stubClients map[string]*models.OAuthClient

func (r stubClients) Create(_ context.Context, c *models.OAuthClient) error {
	r[c.ClientID] = c
	return nil
}

func (r stubClients) FindByClientID(_ context.Context, clientID string) (*models.OAuthClient, error) {
	c, ok := r[clientID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func newTokenRouter(t *testing.T) (*gin.Engine, *oauth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &stubStore{customers: stubCustomers{
		"wanjiku": {ID: uuid.New(), Username: "wanjiku", Email: "wanjiku@example.com", Password: string(hashed)},
	}}
	clients := stubClients{
		"web": {ClientID: "web", ClientSecret: "s3cret", RedirectURIs: "https://shop.example/cb"},
	}

	tokens, err := oauth.NewTokenService("", "http://localhost:8000")
	require.NoError(t, err)

	ctl := NewOAuthController(services.NewCustomerService(store), clients, tokens, "http://localhost:8000")

	r := gin.New()
	r.POST("/o/token", ctl.Token)
	r.GET("/.well-known/openid-configuration", ctl.OpenIDConfiguration)
	return r, tokens
}

func postToken(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/o/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func passwordGrant() url.Values {
	return url.Values{
		"grant_type":    {"password"},
		"username":      {"wanjiku"},
		"password":      {"hunter2hunter2"},
		"client_id":     {"web"},
		"client_secret": {"s3cret"},
	}
}

func TestToken_PasswordGrant(t *testing.T) {
	r, tokens := newTokenRouter(t)

	w := postToken(r, passwordGrant())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		Scope       string `json:"scope"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Equal(t, 3600, body.ExpiresIn)
	assert.Equal(t, "read", body.Scope, "defaults to read when no scope requested")

	claims, err := tokens.ParseAccessToken(body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "read", claims.Scope)
}

func TestToken_Failures(t *testing.T) {
	r, _ := newTokenRouter(t)

	form := passwordGrant()
	form.Set("grant_type", "authorization_code")
	w := postToken(r, form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"unsupported_grant_type"}`, w.Body.String())

	form = passwordGrant()
	form.Set("client_secret", "wrong")
	w = postToken(r, form)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid_client"}`, w.Body.String())

	form = passwordGrant()
	form.Set("scope", "read admin")
	w = postToken(r, form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid_scope"}`, w.Body.String())

	form = passwordGrant()
	form.Set("password", "wrong")
	w = postToken(r, form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid_grant"}`, w.Body.String())
}

func TestOpenIDConfiguration(t *testing.T) {
	r, _ := newTokenRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/.well-known/openid-configuration", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "http://localhost:8000", doc["issuer"])
	assert.Equal(t, "http://localhost:8000/o/token/", doc["token_endpoint"])
}
