package oauth

import (
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"strings"
)

// Discovery builds the OpenID Connect discovery document for the given base
// URL. The structure is static; only the base URL is substituted.
func Discovery(baseURL string) map[string]interface{} {
	base := strings.TrimRight(baseURL, "/")

	return map[string]interface{}{
		"issuer":                 base,
		"authorization_endpoint": base + "/o/authorize/",
		"token_endpoint":         base + "/o/token/",
		"userinfo_endpoint":      base + "/api/auth/userinfo/",
		"jwks_uri":               base + "/.well-known/jwks.json",
		"response_types_supported": []string{
			"code", "id_token", "token",
			"code id_token", "code token", "code id_token token",
		},
		"subject_types_supported":              []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
		"scopes_supported":                     SupportedScopes(),
		"token_endpoint_auth_methods_supported": []string{
			"client_secret_post", "client_secret_basic",
		},
		"grant_types_supported": []string{
			"authorization_code", "implicit", "refresh_token", "password",
		},
	}
}

// JWKS renders the verification key as a JSON Web Key Set
func JWKS(pub *rsa.PublicKey, keyID string) map[string]interface{} {
	return map[string]interface{}{
		"keys": []map[string]interface{}{
			{
				"kty": "RSA",
				"use": "sig",
				"alg": "RS256",
				"kid": keyID,
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
}
