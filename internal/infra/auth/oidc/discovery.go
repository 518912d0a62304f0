package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
)

// DiscoverKeySetURL resolves jwks_uri from the issuer's OpenID
// configuration. The discovered issuer must equal issuer exactly.
func DiscoverKeySetURL(ctx context.Context, client *http.Client, issuer string) (string, error) {
	if client != nil {
		ctx = gooidc.ClientContext(ctx, client)
	}
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return "", fmt.Errorf("oidc discovery: %w", err)
	}
	var meta struct {
		JWKSURI string `json:"jwks_uri"`
	}
	if err := provider.Claims(&meta); err != nil {
		return "", fmt.Errorf("oidc discovery claims: %w", err)
	}
	if meta.JWKSURI == "" {
		return "", errors.New("oidc discovery missing jwks_uri")
	}
	return meta.JWKSURI, nil
}
