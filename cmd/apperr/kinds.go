package apperr

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal")
)

// AuthReason narrows an authorization failure without revealing more than the caller may know.
type AuthReason string

const (
	// ReasonInvalidCredentials covers both an unknown email and a wrong password.
	ReasonInvalidCredentials AuthReason = "invalid_credentials"
	// ReasonInvalidToken covers a missing, malformed, forged or expired token.
	ReasonInvalidToken AuthReason = "invalid_token"
	// ReasonAccessDenied means the caller is authenticated but does not own the resource.
	ReasonAccessDenied AuthReason = "access_denied"
)

// KindOf returns the sentinel kind err unwraps to, or nil when err carries none.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range []error{ErrInvalidInput, ErrUnauthorized, ErrNotFound, ErrConflict, ErrInternal} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
