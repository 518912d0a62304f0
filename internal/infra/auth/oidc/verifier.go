package oidc

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/logging"
)

const permissionsClaim = "permissions"

var defaultAlgorithms = []string{"RS256"}

// refresher is implemented by key set providers that can force a reload
// when a kid is not found.
type refresher interface {
	Refresh(ctx context.Context) (domain.KeySet, error)
}

// Verifier checks RS256 bearer tokens against the issuer's key set and
// returns the verified claims.
type Verifier struct {
	keys       domain.KeySetProvider
	issuer     string
	audience   string
	algorithms []string
	leeway     time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

type Option func(*Verifier)

func WithAlgorithms(algs ...string) Option {
	return func(v *Verifier) {
		if len(algs) > 0 {
			v.algorithms = algs
		}
	}
}

func WithLeeway(leeway time.Duration) Option {
	return func(v *Verifier) {
		if leeway > 0 {
			v.leeway = leeway
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

var _ domain.Verifier = (*Verifier)(nil)

func NewVerifier(keys domain.KeySetProvider, issuer, audience string, opts ...Option) (*Verifier, error) {
	if keys == nil {
		return nil, errors.New("key set provider is required")
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}
	audience = strings.TrimSpace(audience)
	if audience == "" {
		return nil, errors.New("audience is required")
	}
	v := &Verifier{
		keys:       keys,
		issuer:     issuer,
		audience:   audience,
		algorithms: defaultAlgorithms,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.parser = jwt.NewParser(
		jwt.WithValidMethods(v.algorithms),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)
	return v, nil
}

func (v *Verifier) Verify(ctx context.Context, bearerToken string) (domain.Token, error) {
	tokenString := strings.TrimSpace(bearerToken)

	unverified, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return domain.Token{}, domain.ErrTokenUnparsable(err)
	}
	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return domain.Token{}, domain.ErrTokenMalformed()
	}

	key, err := v.lookupKey(ctx, kid)
	if err != nil {
		return domain.Token{}, err
	}
	pub, err := rsaPublicKey(key)
	if err != nil {
		return domain.Token{}, domain.ErrTokenUnparsable(err)
	}

	claims := jwt.MapClaims{}
	_, err = v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return pub, nil
	})
	if err != nil {
		return domain.Token{}, classifyParseError(err, claims)
	}
	return tokenFromClaims(claims), nil
}

func (v *Verifier) lookupKey(ctx context.Context, kid string) (domain.SigningKey, error) {
	set, err := v.keys.KeySet(ctx)
	if err != nil {
		return domain.SigningKey{}, domain.ErrKeySetUnavailable(err)
	}
	key, ok := set.Lookup(kid)
	if !ok {
		if r, canRefresh := v.keys.(refresher); canRefresh {
			if set, err = r.Refresh(ctx); err == nil {
				key, ok = set.Lookup(kid)
			}
		}
	}
	if !ok {
		return domain.SigningKey{}, domain.ErrKeyNotFound()
	}
	if dups := set.Duplicates(); len(dups) > 0 {
		logging.Ctx(ctx).Warn().Strs("kids", dups).Msg("jwks contains duplicate key ids, using first match")
	}
	return key, nil
}

// classifyParseError maps parser failures onto auth errors. claims holds
// whatever the parser decoded before validation failed.
func classifyParseError(err error, claims jwt.MapClaims) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired(err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		// A missing exp is a malformed token; a missing iss or aud fails
		// the issuer/audience check like a mismatch does.
		if _, ok := claims["exp"]; !ok {
			return domain.ErrTokenUnparsable(err)
		}
		return domain.ErrClaimsMismatch(err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return domain.ErrClaimsMismatch(err)
	default:
		return domain.ErrTokenUnparsable(err)
	}
}

// rsaPublicKey builds the verification key from kty, kid, use, n and e.
func rsaPublicKey(key domain.SigningKey) (*rsa.PublicKey, error) {
	raw, err := json.Marshal(domain.SigningKey{
		KeyID:    key.KeyID,
		KeyType:  key.KeyType,
		Use:      key.Use,
		Modulus:  key.Modulus,
		Exponent: key.Exponent,
	})
	if err != nil {
		return nil, err
	}
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("decode jwk %q: %w", key.KeyID, err)
	}
	pub, ok := jwk.Key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("jwk %q is not an rsa public key", key.KeyID)
	}
	return pub, nil
}

func tokenFromClaims(claims jwt.MapClaims) domain.Token {
	token := domain.Token{Claims: map[string]any(claims)}
	token.Subject, _ = claims.GetSubject()
	token.Issuer, _ = claims.GetIssuer()
	if aud, err := claims.GetAudience(); err == nil {
		token.Audience = []string(aud)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		token.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		token.IssuedAt = iat.Time
	}
	if raw, ok := claims[permissionsClaim]; ok && raw != nil {
		token.HasPermissions = true
		token.Permissions = stringList(raw)
	}
	return token
}

func stringList(raw any) []string {
	switch val := raw.(type) {
	case string:
		return strings.Fields(val)
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
