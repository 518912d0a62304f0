package bearer

import (
	"strings"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

const HeaderName = "Authorization"

// Extract returns the token from an "Authorization: Bearer <token>" value.
// Failures are *domain.AuthError.
func Extract(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) == 0 {
		return "", domain.ErrHeaderMissing()
	}
	if !strings.EqualFold(parts[0], "bearer") {
		return "", domain.ErrHeaderScheme()
	}
	switch len(parts) {
	case 1:
		return "", domain.ErrHeaderTokenNotFound()
	case 2:
		return parts[1], nil
	default:
		return "", domain.ErrHeaderNotBearer()
	}
}
