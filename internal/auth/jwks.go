package auth

import (
	"context"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultJWKSURI is the key set used when JWKS_URI is unset.
const DefaultJWKSURI = "https://keeplater.kinde.com/.well-known/jwks.json"

// NewKeyfunc fetches the JWKS at uri and keeps it refreshed in the background
// until ctx is cancelled. Unknown key IDs trigger a rate-limited refetch.
func NewKeyfunc(ctx context.Context, uri string) (jwt.Keyfunc, error) {
	if uri == "" {
		uri = DefaultJWKSURI
	}
	k, err := keyfunc.NewDefaultCtx(ctx, []string{uri})
	if err != nil {
		return nil, fmt.Errorf("failed to load jwks from %s: %w", uri, err)
	}
	return k.Keyfunc, nil
}
