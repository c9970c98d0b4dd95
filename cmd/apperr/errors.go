package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// OpError is a typed operation error with a stable Op + Kind contract.
// Err keeps the underlying cause for logs; it is never shown to API callers.
type OpError struct {
	Op   string
	Kind error
	Msg  string
	Err  error
}

func (e OpError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(fmt.Sprint(e.Kind))
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e OpError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError enumerates every rejected field of one request.
type ValidationError struct {
	Op     string
	Fields []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %v", e.Op, ErrInvalidInput)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrInvalidInput, strings.Join(parts, "; "))
}

func (e ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a single-field ValidationError.
func Invalid(op, field, msg string) error {
	return ValidationError{Op: op, Fields: []FieldError{{Field: field, Message: msg}}}
}

// AuthError reports an authentication or ownership failure.
type AuthError struct {
	Op     string
	Reason AuthReason
}

func (e AuthError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrUnauthorized)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrUnauthorized, e.Reason)
}

func (e AuthError) Unwrap() error { return ErrUnauthorized }

// ConflictError reports a uniqueness conflict for a logical field ("email").
type ConflictError struct {
	Op    string
	Field string
}

func (e ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrConflict)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrConflict, e.Field)
}

func (e ConflictError) Unwrap() error { return ErrConflict }

// NotFoundError reports a missing referenced resource ("account", "note").
type NotFoundError struct {
	Op       string
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrNotFound)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrNotFound, e.Resource)
}

func (e NotFoundError) Unwrap() error { return ErrNotFound }

// Internal wraps an unexpected failure from a store or a crypto primitive.
func Internal(op string, err error) error {
	return OpError{Op: op, Kind: ErrInternal, Err: err}
}

// Wrap passes classified errors through and turns anything else into an internal error.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != nil {
		return err
	}
	return Internal(op, err)
}

// ReasonOf extracts the AuthReason from err.
func ReasonOf(err error) (AuthReason, bool) {
	var ae AuthError
	if !errors.As(err, &ae) {
		return "", false
	}
	return ae.Reason, true
}

// FieldsOf extracts the rejected fields from err.
func FieldsOf(err error) []FieldError {
	var ve ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	return ve.Fields
}

// IsInvalidInput reports whether err represents ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsUnauthorized reports whether err represents ErrUnauthorized.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsNotFound reports whether err represents ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// IsInternal reports whether err represents ErrInternal.
func IsInternal(err error) bool { return errors.Is(err, ErrInternal) }
