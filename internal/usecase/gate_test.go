package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/auth/bearer"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/auth/rbac"
)

type fakeVerifier struct {
	tokens map[string]domain.Token
	calls  int
}

func (f *fakeVerifier) Verify(_ context.Context, raw string) (domain.Token, error) {
	f.calls++
	token, ok := f.tokens[raw]
	if !ok {
		return domain.Token{}, domain.ErrTokenUnparsable(nil)
	}
	return token, nil
}

type recordingObserver struct {
	outcomes []string
	statuses []int
}

func (r *recordingObserver) ObserveAuthDecision(outcome string, status int) {
	r.outcomes = append(r.outcomes, outcome)
	r.statuses = append(r.statuses, status)
}

func newGate(verifier *fakeVerifier) (*AuthorizationGate, *recordingObserver) {
	gate := NewAuthorizationGate(bearer.Extract, verifier, rbac.NewEnforcer())
	observer := &recordingObserver{}
	gate.Observer = observer
	return gate, observer
}

func producerVerifier() *fakeVerifier {
	return &fakeVerifier{tokens: map[string]domain.Token{
		"producer":  {Subject: "producer", HasPermissions: true, Permissions: []string{domain.PermGetMovies, domain.PermDeleteMovies}},
		"assistant": {Subject: "assistant", HasPermissions: true, Permissions: []string{domain.PermGetMovies}},
		"legacy":    {Subject: "legacy"},
	}}
}

func TestAuthorizationGate(t *testing.T) {
	required := domain.Permissions(domain.PermDeleteMovies)
	tests := []struct {
		name   string
		header string
		want   *domain.AuthError
		status int
	}{
		{name: "missing header", header: "", want: domain.ErrHeaderMissing(), status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token producer", want: domain.ErrHeaderScheme(), status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer garbage", want: domain.ErrTokenUnparsable(nil), status: http.StatusBadRequest},
		{name: "permission absent", header: "Bearer assistant", want: domain.ErrPermissionDenied(), status: http.StatusForbidden},
		{name: "claim absent", header: "Bearer legacy", want: domain.ErrPermissionsMissing(), status: http.StatusBadRequest},
		{name: "granted", header: "Bearer producer", status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, observer := newGate(producerVerifier())
			token, err := gate.Authorize(context.Background(), tt.header, required)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if token.Subject != "producer" {
					t.Fatalf("unexpected subject: %s", token.Subject)
				}
			} else if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(observer.statuses) != 1 || observer.statuses[0] != tt.status {
				t.Fatalf("unexpected observed status: %v", observer.statuses)
			}
		})
	}
}

func TestAuthorizationGateSkipsVerifierOnBadHeader(t *testing.T) {
	verifier := producerVerifier()
	gate, _ := newGate(verifier)
	if _, err := gate.Authorize(context.Background(), "Bearer a b", domain.Permissions(domain.PermGetMovies)); !errors.Is(err, domain.ErrHeaderNotBearer()) {
		t.Fatalf("unexpected error: %v", err)
	}
	if verifier.calls != 0 {
		t.Fatalf("verifier must not run after extraction failure, ran %d times", verifier.calls)
	}
}

func TestAuthorizationGateIdempotent(t *testing.T) {
	gate, _ := newGate(producerVerifier())
	required := domain.Permissions(domain.PermGetMovies)
	for i := 0; i < 3; i++ {
		token, err := gate.Authorize(context.Background(), "Bearer assistant", required)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if token.Subject != "assistant" {
			t.Fatalf("attempt %d: unexpected subject %s", i, token.Subject)
		}
	}
}

func TestAuthorizationGateAuthenticatedOnly(t *testing.T) {
	gate, _ := newGate(producerVerifier())
	if _, err := gate.Authorize(context.Background(), "Bearer legacy", nil); err != nil {
		t.Fatalf("verified token without permissions should pass an empty requirement: %v", err)
	}
}

func TestAuthorizationGateUnconfigured(t *testing.T) {
	gate := &AuthorizationGate{}
	if _, err := gate.Authorize(context.Background(), "Bearer x", nil); err == nil {
		t.Fatal("expected configuration error")
	}
}
