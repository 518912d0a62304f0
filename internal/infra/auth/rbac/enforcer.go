package rbac

import (
	"context"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

// Enforcer grants access when the token carries any of the required
// permissions. An empty requirement only needs a verified token.
type Enforcer struct{}

var _ domain.PermissionEnforcer = (*Enforcer)(nil)

func NewEnforcer() *Enforcer {
	return &Enforcer{}
}

func (e *Enforcer) Require(_ context.Context, token domain.Token, required domain.PermissionSet) error {
	if required.Empty() {
		return nil
	}
	if !token.HasPermissions {
		return domain.ErrPermissionsMissing()
	}
	if !required.IntersectsWith(token.Permissions) {
		return domain.ErrPermissionDenied()
	}
	return nil
}
