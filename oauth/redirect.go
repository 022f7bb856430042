package oauth

import (
	"context"

	"github.com/kamaudevs/sokoapi/repository"
)

// DefaultRedirectURI resolves the default redirect URI for a client: the last
// whitespace-separated URI in its registration. ok is false when the client is
// unknown or registered no URIs; the caller must then supply an explicit URI.
func DefaultRedirectURI(ctx context.Context, clients repository.OAuthClientRepository, clientID string) (string, bool) {
	client, err := clients.FindByClientID(ctx, clientID)
	if err != nil {
		return "", false
	}
	return client.DefaultRedirectURI()
}
