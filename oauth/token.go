package oauth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/kamaudevs/sokoapi/models"
)

const AccessTokenTTL = time.Hour

// AccessClaims is the payload of an issued access token
type AccessClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenService signs and validates RS256 bearer tokens
type TokenService struct {
	privateKey *rsa.PrivateKey
	issuer     string
	keyID      string
}

// NewTokenService builds a token service from a PEM-encoded RSA private key.
// An empty key generates an ephemeral one, for development and tests only.
func NewTokenService(privateKeyPEM, issuer string) (*TokenService, error) {
	var key *rsa.PrivateKey
	var err error

	if privateKeyPEM == "" {
		key, err = rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, fmt.Errorf("failed to generate RSA key: %w", err)
		}
	} else {
		key, err = parseRSAPrivateKey(privateKeyPEM)
		if err != nil {
			return nil, err
		}
	}

	return &TokenService{
		privateKey: key,
		issuer:     issuer,
		keyID:      keyIDFor(&key.PublicKey),
	}, nil
}

// IssueAccessToken signs an access token for the customer with the granted
// scopes attached as a space-separated claim
func (s *TokenService) IssueAccessToken(customer *models.Customer, scopes []string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Scope: JoinScope(scopes),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   customer.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keyID
	return token.SignedString(s.privateKey)
}

// ParseAccessToken validates a bearer token and returns its claims
func (s *TokenService) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &s.privateKey.PublicKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// PublicKey exposes the verification key for the JWKS document
func (s *TokenService) PublicKey() *rsa.PublicKey {
	return &s.privateKey.PublicKey
}

// KeyID returns the identifier published alongside the key
func (s *TokenService) KeyID() string {
	return s.keyID
}

func parseRSAPrivateKey(pemStr string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("OIDC_RSA_PRIVATE_KEY is not valid PEM")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("OIDC_RSA_PRIVATE_KEY is not an RSA key")
	}
	return key, nil
}

// keyIDFor derives a stable key id from the public modulus
func keyIDFor(pub *rsa.PublicKey) string {
	sum := sha256.Sum256(pub.N.Bytes())
	return hex.EncodeToString(sum[:8])
}
