package domain

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrValidation      = errors.New("unprocessable")
	ErrUnavailable     = errors.New("storage unavailable")
)

// AuthErrorKind names a class of authentication or authorization failure.
type AuthErrorKind string

const (
	KindHeaderMissing AuthErrorKind = "authorization_header_missing"
	KindInvalidHeader AuthErrorKind = "invalid_header"
	KindInvalidClaims AuthErrorKind = "invalid_claims"
	KindTokenExpired  AuthErrorKind = "token_expired"
	KindUnauthorized  AuthErrorKind = "unauthorized"
)

// AuthError terminates a request with Status. It is produced once at the
// point of failure and rendered unchanged at the HTTP boundary.
type AuthError struct {
	Kind        AuthErrorKind
	Description string
	Status      int
	Err         error
}

func (e *AuthError) Error() string {
	if e == nil {
		return ""
	}
	if e.Description == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Description
}

func (e *AuthError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another *AuthError by kind and status so callers can compare
// against the prototypes below with errors.Is.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && e.Status == t.Status && (t.Description == "" || t.Description == e.Description)
}

func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

func newAuthError(kind AuthErrorKind, status int, description string, cause error) *AuthError {
	return &AuthError{Kind: kind, Description: description, Status: status, Err: cause}
}

func ErrHeaderMissing() *AuthError {
	return newAuthError(KindHeaderMissing, http.StatusUnauthorized, "authorization header is expected", nil)
}

func ErrHeaderScheme() *AuthError {
	return newAuthError(KindInvalidHeader, http.StatusUnauthorized, "must start with Bearer", nil)
}

func ErrHeaderTokenNotFound() *AuthError {
	return newAuthError(KindInvalidHeader, http.StatusUnauthorized, "token not found", nil)
}

func ErrHeaderNotBearer() *AuthError {
	return newAuthError(KindInvalidHeader, http.StatusUnauthorized, "must be bearer token", nil)
}

func ErrTokenMalformed() *AuthError {
	return newAuthError(KindInvalidHeader, http.StatusUnauthorized, "malformed", nil)
}

func ErrKeyNotFound() *AuthError {
	return newAuthError(KindInvalidHeader, http.StatusBadRequest, "unable to find the appropriate key", nil)
}

func ErrKeySetUnavailable(cause error) *AuthError {
	return newAuthError(KindInvalidHeader, http.StatusUnauthorized, "unable to fetch signing keys", cause)
}

func ErrTokenUnparsable(cause error) *AuthError {
	return newAuthError(KindInvalidHeader, http.StatusBadRequest, "unable to parse token", cause)
}

func ErrTokenExpired(cause error) *AuthError {
	return newAuthError(KindTokenExpired, http.StatusUnauthorized, "token expired", cause)
}

func ErrClaimsMismatch(cause error) *AuthError {
	return newAuthError(KindInvalidClaims, http.StatusUnauthorized, "incorrect claims, please check the audience and issuer", cause)
}

func ErrPermissionsMissing() *AuthError {
	return newAuthError(KindInvalidClaims, http.StatusBadRequest, "permissions not included", nil)
}

func ErrPermissionDenied() *AuthError {
	return newAuthError(KindUnauthorized, http.StatusForbidden, "permission not found", nil)
}
