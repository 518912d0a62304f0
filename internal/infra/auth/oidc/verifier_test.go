package oidc

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestVerifier(t *testing.T, keys domain.KeySetProvider, opts ...Option) *Verifier {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	v, err := NewVerifier(keys, testIssuer, testAudience, opts...)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

func TestVerifyValidToken(t *testing.T) {
	priv := generateKey(t)
	v := newTestVerifier(t, staticKeys(signingKey(&priv.PublicKey, "kid-1")))

	token, err := v.Verify(context.Background(), signToken(t, priv, "kid-1", baseClaims(fixedNow)))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if token.Subject != "auth0|producer" {
		t.Fatalf("unexpected subject: %s", token.Subject)
	}
	if token.Issuer != testIssuer {
		t.Fatalf("unexpected issuer: %s", token.Issuer)
	}
	if !token.HasPermissions {
		t.Fatal("expected permissions claim")
	}
	if !reflect.DeepEqual(token.Permissions, []string{"get:movies", "delete:movies"}) {
		t.Fatalf("unexpected permissions: %v", token.Permissions)
	}
	if !token.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("unexpected exp: %s", token.ExpiresAt)
	}
}

func TestVerifyPermissionsClaimPresence(t *testing.T) {
	priv := generateKey(t)
	v := newTestVerifier(t, staticKeys(signingKey(&priv.PublicKey, "kid-1")))

	claims := baseClaims(fixedNow)
	delete(claims, "permissions")
	token, err := v.Verify(context.Background(), signToken(t, priv, "kid-1", claims))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if token.HasPermissions {
		t.Fatal("absent claim must not report permissions")
	}

	claims["permissions"] = []string{}
	token, err = v.Verify(context.Background(), signToken(t, priv, "kid-1", claims))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !token.HasPermissions || len(token.Permissions) != 0 {
		t.Fatalf("empty claim should be present and empty: %+v", token)
	}
}

func TestVerifyRejections(t *testing.T) {
	priv := generateKey(t)
	other := generateKey(t)
	keys := staticKeys(signingKey(&priv.PublicKey, "kid-1"))

	expired := baseClaims(fixedNow)
	expired["exp"] = fixedNow.Add(-time.Minute).Unix()
	wrongAud := baseClaims(fixedNow)
	wrongAud["aud"] = "another-api"
	wrongIss := baseClaims(fixedNow)
	wrongIss["iss"] = "https://casting.test"
	notYet := baseClaims(fixedNow)
	notYet["nbf"] = fixedNow.Add(time.Hour).Unix()
	noExp := baseClaims(fixedNow)
	delete(noExp, "exp")
	noIss := baseClaims(fixedNow)
	delete(noIss, "iss")
	noAud := baseClaims(fixedNow)
	delete(noAud, "aud")

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, baseClaims(fixedNow))
	hs.Header["kid"] = "kid-1"
	hsToken, err := hs.SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatalf("sign hs256: %v", err)
	}

	cases := []struct {
		name  string
		token string
		want  *domain.AuthError
	}{
		{name: "garbage", token: "not-a-token", want: domain.ErrTokenUnparsable(nil)},
		{name: "garbage segments", token: "abc.def.ghi", want: domain.ErrTokenUnparsable(nil)},
		{name: "missing kid", token: signToken(t, priv, "", baseClaims(fixedNow)), want: domain.ErrTokenMalformed()},
		{name: "unknown kid", token: signToken(t, priv, "kid-9", baseClaims(fixedNow)), want: domain.ErrKeyNotFound()},
		{name: "expired", token: signToken(t, priv, "kid-1", expired), want: domain.ErrTokenExpired(nil)},
		{name: "wrong audience", token: signToken(t, priv, "kid-1", wrongAud), want: domain.ErrClaimsMismatch(nil)},
		{name: "wrong issuer", token: signToken(t, priv, "kid-1", wrongIss), want: domain.ErrClaimsMismatch(nil)},
		{name: "not yet valid", token: signToken(t, priv, "kid-1", notYet), want: domain.ErrClaimsMismatch(nil)},
		{name: "missing exp", token: signToken(t, priv, "kid-1", noExp), want: domain.ErrTokenUnparsable(nil)},
		{name: "missing iss", token: signToken(t, priv, "kid-1", noIss), want: domain.ErrClaimsMismatch(nil)},
		{name: "missing aud", token: signToken(t, priv, "kid-1", noAud), want: domain.ErrClaimsMismatch(nil)},
		{name: "bad signature", token: signToken(t, other, "kid-1", baseClaims(fixedNow)), want: domain.ErrTokenUnparsable(nil)},
		{name: "hs256", token: hsToken, want: domain.ErrTokenUnparsable(nil)},
	}
	v := newTestVerifier(t, keys)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tc.token)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestVerifyStatusCodes(t *testing.T) {
	priv := generateKey(t)
	v := newTestVerifier(t, staticKeys(signingKey(&priv.PublicKey, "kid-1")))

	_, err := v.Verify(context.Background(), "garbage")
	if authErr, ok := domain.AsAuthError(err); !ok || authErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	_, err = v.Verify(context.Background(), signToken(t, priv, "", baseClaims(fixedNow)))
	if authErr, ok := domain.AsAuthError(err); !ok || authErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestVerifyLeeway(t *testing.T) {
	priv := generateKey(t)
	claims := baseClaims(fixedNow)
	claims["exp"] = fixedNow.Add(-30 * time.Second).Unix()
	token := signToken(t, priv, "kid-1", claims)

	strict := newTestVerifier(t, staticKeys(signingKey(&priv.PublicKey, "kid-1")))
	if _, err := strict.Verify(context.Background(), token); !errors.Is(err, domain.ErrTokenExpired(nil)) {
		t.Fatalf("expected expiry without leeway, got %v", err)
	}
	lenient := newTestVerifier(t, staticKeys(signingKey(&priv.PublicKey, "kid-1")), WithLeeway(time.Minute))
	if _, err := lenient.Verify(context.Background(), token); err != nil {
		t.Fatalf("expected leeway to accept token: %v", err)
	}
}

func TestVerifyDuplicateKidFirstMatchWins(t *testing.T) {
	priv := generateKey(t)
	other := generateKey(t)
	token := signToken(t, priv, "kid-1", baseClaims(fixedNow))

	good := newTestVerifier(t, staticKeys(
		signingKey(&priv.PublicKey, "kid-1"),
		signingKey(&other.PublicKey, "kid-1"),
	))
	if _, err := good.Verify(context.Background(), token); err != nil {
		t.Fatalf("expected first key to verify: %v", err)
	}

	bad := newTestVerifier(t, staticKeys(
		signingKey(&other.PublicKey, "kid-1"),
		signingKey(&priv.PublicKey, "kid-1"),
	))
	if _, err := bad.Verify(context.Background(), token); !errors.Is(err, domain.ErrTokenUnparsable(nil)) {
		t.Fatalf("expected first (wrong) key to be used, got %v", err)
	}
}

func TestVerifyKeySetUnavailable(t *testing.T) {
	failing := keySetFunc(func(context.Context) (domain.KeySet, error) {
		return domain.KeySet{}, errors.New("connection refused")
	})
	priv := generateKey(t)
	v := newTestVerifier(t, failing)

	_, err := v.Verify(context.Background(), signToken(t, priv, "kid-1", baseClaims(fixedNow)))
	authErr, ok := domain.AsAuthError(err)
	if !ok {
		t.Fatalf("expected auth error, got %v", err)
	}
	if authErr.Kind != domain.KindInvalidHeader || authErr.Status != http.StatusUnauthorized {
		t.Fatalf("unexpected error: %v (%d)", authErr, authErr.Status)
	}
}

func TestVerifyRefreshesCacheOnKidMiss(t *testing.T) {
	priv := generateKey(t)
	var calls int32
	source := keySetFunc(func(context.Context) (domain.KeySet, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return domain.KeySet{Keys: []domain.SigningKey{signingKey(&priv.PublicKey, "kid-old")}}, nil
		}
		return domain.KeySet{Keys: []domain.SigningKey{signingKey(&priv.PublicKey, "kid-new")}}, nil
	})
	now := fixedNow
	cache := NewCachedKeySet(source, time.Hour, time.Minute)
	cache.now = func() time.Time { return now }
	v := newTestVerifier(t, cache)

	if _, err := v.Verify(context.Background(), signToken(t, priv, "kid-old", baseClaims(fixedNow))); err != nil {
		t.Fatalf("verify old kid: %v", err)
	}
	now = now.Add(time.Minute)
	if _, err := v.Verify(context.Background(), signToken(t, priv, "kid-new", baseClaims(fixedNow))); err != nil {
		t.Fatalf("verify rotated kid: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected refresh on kid miss, got %d fetches", got)
	}
}

func TestVerifyThroughHTTPProvider(t *testing.T) {
	priv := generateKey(t)
	jwks := buildJWKS(t, signingKey(&priv.PublicKey, "kid-1"))
	client := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, jwks), nil
	})}
	v := newTestVerifier(t, NewKeySetProvider("https://casting.test/.well-known/jwks.json", WithHTTPClient(client)))

	if _, err := v.Verify(context.Background(), signToken(t, priv, "kid-1", baseClaims(fixedNow))); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestNewVerifierRequiresConfiguration(t *testing.T) {
	if _, err := NewVerifier(nil, testIssuer, testAudience); err == nil {
		t.Fatal("expected error without provider")
	}
	if _, err := NewVerifier(staticKeys(), "", testAudience); err == nil {
		t.Fatal("expected error without issuer")
	}
	if _, err := NewVerifier(staticKeys(), testIssuer, " "); err == nil {
		t.Fatal("expected error without audience")
	}
}
