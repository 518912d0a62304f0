package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/logging"
)

// AuthorizationGate runs extraction, verification and permission checks in
// order and stops at the first failure.
type AuthorizationGate struct {
	Extract  CredentialExtractor
	Verifier domain.Verifier
	Enforcer domain.PermissionEnforcer
	Observer AuthObserver
}

func NewAuthorizationGate(extract CredentialExtractor, verifier domain.Verifier, enforcer domain.PermissionEnforcer) *AuthorizationGate {
	return &AuthorizationGate{
		Extract:  extract,
		Verifier: verifier,
		Enforcer: enforcer,
	}
}

// Authorize returns the verified token when header carries a valid bearer
// token holding any of required. Failures are *domain.AuthError.
func (g *AuthorizationGate) Authorize(ctx context.Context, header string, required domain.PermissionSet) (domain.Token, error) {
	token, err := g.authorize(ctx, header, required)
	g.observe(ctx, err, required)
	return token, err
}

func (g *AuthorizationGate) authorize(ctx context.Context, header string, required domain.PermissionSet) (domain.Token, error) {
	if g.Extract == nil || g.Verifier == nil || g.Enforcer == nil {
		return domain.Token{}, errors.New("authorization gate is not configured")
	}
	raw, err := g.Extract(header)
	if err != nil {
		return domain.Token{}, err
	}
	token, err := g.Verifier.Verify(ctx, raw)
	if err != nil {
		return domain.Token{}, err
	}
	if err := g.Enforcer.Require(ctx, token, required); err != nil {
		return domain.Token{}, err
	}
	return token, nil
}

func (g *AuthorizationGate) observe(ctx context.Context, err error, required domain.PermissionSet) {
	outcome, status := "ok", http.StatusOK
	if err != nil {
		outcome, status = "error", http.StatusInternalServerError
		if authErr, ok := domain.AsAuthError(err); ok {
			outcome, status = string(authErr.Kind), authErr.Status
		}
		logging.Ctx(ctx).Warn().
			Str("kind", outcome).
			Int("status", status).
			Strs("required", []string(required)).
			Err(err).
			Msg("authorization failed")
	}
	if g.Observer != nil {
		g.Observer.ObserveAuthDecision(outcome, status)
	}
}
