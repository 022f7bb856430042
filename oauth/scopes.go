package oauth

import "strings"

// Scopes understood by the gateway
const (
	ScopeRead    = "read"
	ScopeWrite   = "write"
	ScopeOpenID  = "openid"
	ScopeProfile = "profile"
	ScopeEmail   = "email"
)

var allowedScopes = map[string]bool{
	ScopeRead:    true,
	ScopeWrite:   true,
	ScopeOpenID:  true,
	ScopeProfile: true,
	ScopeEmail:   true,
}

// SupportedScopes returns the fixed scope allow-list
func SupportedScopes() []string {
	return []string{ScopeOpenID, ScopeProfile, ScopeEmail, ScopeRead, ScopeWrite}
}

// DefaultScopes returns the scopes granted when a client requests none
func DefaultScopes() []string {
	return []string{ScopeRead}
}

// ValidateScopes accepts a scope set only if every member is on the
// allow-list. One unknown scope rejects the whole request.
func ValidateScopes(scopes []string) bool {
	for _, s := range scopes {
		if !allowedScopes[s] {
			return false
		}
	}
	return true
}

// HasScope reports whether the grant includes the wanted scope
func HasScope(scopes []string, want string) bool {
	for _, s := range scopes {
		if s == want {
			return true
		}
	}
	return false
}

// ParseScope splits a space-separated scope string
func ParseScope(raw string) []string {
	return strings.Fields(raw)
}

// JoinScope renders a scope set back to its wire form
func JoinScope(scopes []string) string {
	return strings.Join(scopes, " ")
}
