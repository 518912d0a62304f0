package oidc

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

const (
	testIssuer   = "https://casting.test/"
	testAudience = "casting-agency"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

// keySetFunc adapts a function to domain.KeySetProvider.
type keySetFunc func(ctx context.Context) (domain.KeySet, error)

func (f keySetFunc) KeySet(ctx context.Context) (domain.KeySet, error) {
	return f(ctx)
}

func staticKeys(keys ...domain.SigningKey) keySetFunc {
	return func(context.Context) (domain.KeySet, error) {
		return domain.KeySet{Keys: keys}, nil
	}
}

func generateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func signingKey(pub *rsa.PublicKey, kid string) domain.SigningKey {
	return domain.SigningKey{
		KeyID:     kid,
		KeyType:   "RSA",
		Use:       "sig",
		Algorithm: "RS256",
		Modulus:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		Exponent:  base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

func buildJWKS(t *testing.T, keys ...domain.SigningKey) string {
	t.Helper()
	out, err := json.Marshal(domain.KeySet{Keys: keys})
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}
	return string(out)
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func baseClaims(now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":         testIssuer,
		"sub":         "auth0|producer",
		"aud":         []string{testAudience, "https://casting.test/userinfo"},
		"iat":         now.Unix(),
		"exp":         now.Add(time.Hour).Unix(),
		"permissions": []string{"get:movies", "delete:movies"},
	}
}
