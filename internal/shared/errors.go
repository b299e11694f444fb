package shared

import "errors"

var (
	// ErrNotFound indicates a referenced user, permission or article is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. The message is identical
	// for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing, malformed or expired bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates a valid identity that the decision engine denied.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a uniqueness violation such as a duplicate email.
	ErrConflict = errors.New("conflict")
	// ErrInternal indicates an unexpected transactional failure.
	ErrInternal = errors.New("internal failure")
)

// UserSafeMessage maps an error to text safe to return to callers. Store
// internals never leak through this path.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "resource not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, ErrUnauthenticated):
		return "authentication required"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrConflict):
		return "conflict with existing resource"
	default:
		return "internal error"
	}
}
