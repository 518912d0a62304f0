package domain

import (
	"context"
	"time"
)

// Token is a verified claim set. Only a Verifier constructs one, after the
// signature and the standard claims have been checked.
type Token struct {
	Subject   string
	Issuer    string
	Audience  []string
	ExpiresAt time.Time
	IssuedAt  time.Time

	Permissions []string
	// HasPermissions is false when the permissions claim is absent, which
	// is distinct from an empty permission list.
	HasPermissions bool

	Claims map[string]any
}

// PermissionSet is satisfied when a token holds any one of its entries.
type PermissionSet []string

func Permissions(perms ...string) PermissionSet {
	return PermissionSet(perms)
}

func (p PermissionSet) Empty() bool {
	return len(p) == 0
}

func (p PermissionSet) IntersectsWith(granted []string) bool {
	if len(p) == 0 || len(granted) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(granted))
	for _, g := range granted {
		have[g] = struct{}{}
	}
	for _, want := range p {
		if _, ok := have[want]; ok {
			return true
		}
	}
	return false
}

type KeySetProvider interface {
	KeySet(ctx context.Context) (KeySet, error)
}

type Verifier interface {
	Verify(ctx context.Context, bearerToken string) (Token, error)
}

type PermissionEnforcer interface {
	Require(ctx context.Context, token Token, required PermissionSet) error
}
