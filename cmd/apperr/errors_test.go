package apperr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")

	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "plain", err: cause, want: nil},
		{name: "validation", err: Invalid("op", "email", "bad"), want: ErrInvalidInput},
		{name: "auth", err: AuthError{Op: "op", Reason: ReasonAccessDenied}, want: ErrUnauthorized},
		{name: "not found", err: NotFoundError{Op: "op", Resource: "note"}, want: ErrNotFound},
		{name: "conflict", err: ConflictError{Op: "op", Field: "email"}, want: ErrConflict},
		{name: "internal", err: Internal("op", cause), want: ErrInternal},
		{name: "wrapped", err: fmt.Errorf("outer: %w", NotFoundError{Op: "op"}), want: ErrNotFound},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf()=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestInternal_KeepsCause(t *testing.T) {
	t.Parallel()

	err := Internal("notes.Create", context.DeadlineExceeded)
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected cause to be reachable, got %v", err)
	}
	if !strings.Contains(err.Error(), "notes.Create") {
		t.Fatalf("expected op in message, got %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	if Wrap("op", nil) != nil {
		t.Fatalf("expected nil")
	}

	nf := NotFoundError{Op: "notes.Get", Resource: "note"}
	if got := Wrap("op", nf); got != error(nf) {
		t.Fatalf("classified error must pass through unchanged, got %v", got)
	}

	if got := Wrap("op", errors.New("boom")); !IsInternal(got) {
		t.Fatalf("expected internal, got %v", got)
	}
}

func TestValidationError_Fields(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("ctx: %w", ValidationError{Op: "identity.Register", Fields: []FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "email", Message: "email must be a valid address"},
	}})

	if !IsInvalidInput(err) {
		t.Fatalf("expected invalid input")
	}
	fields := FieldsOf(err)
	if len(fields) != 2 || fields[0].Field != "name" || fields[1].Field != "email" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if FieldsOf(errors.New("x")) != nil {
		t.Fatalf("expected nil fields for plain error")
	}
}

func TestReasonOf(t *testing.T) {
	t.Parallel()

	r, ok := ReasonOf(fmt.Errorf("wrapped: %w", AuthError{Op: "op", Reason: ReasonInvalidToken}))
	if !ok || r != ReasonInvalidToken {
		t.Fatalf("ReasonOf()=%q,%v want %q,true", r, ok, ReasonInvalidToken)
	}
	if _, ok := ReasonOf(NotFoundError{}); ok {
		t.Fatalf("expected no reason for not found")
	}
	if !IsUnauthorized(AuthError{}) {
		t.Fatalf("expected unauthorized")
	}
	if !IsConflict(ConflictError{Field: "email"}) || IsConflict(NotFoundError{}) {
		t.Fatalf("IsConflict mismatch")
	}
}
