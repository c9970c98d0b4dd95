package identity

import (
	"context"
	"time"
)

// Caller is an account identity proven by a verified token.
//
// The zero Caller is unauthenticated. Non-zero values come from a Guard, so an
// operation that accepts a Caller has the guard in its contract.
type Caller struct {
	accountID string
	issuedAt  time.Time
}

// NewCaller builds an authenticated Caller. Only Guard implementations
// (and tests standing in for one) should call it.
func NewCaller(accountID string, issuedAt time.Time) Caller {
	return Caller{accountID: accountID, issuedAt: issuedAt}
}

// AccountID returns the authenticated account id ("" for the zero Caller).
func (c Caller) AccountID() string { return c.accountID }

// IssuedAt returns when the presented token was issued.
func (c Caller) IssuedAt() time.Time { return c.issuedAt }

// Authenticated reports whether c came out of a successful ResolveIdentity.
func (c Caller) Authenticated() bool { return c.accountID != "" }

// Owns reports whether c is authenticated and is the owner with ownerID.
func (c Caller) Owns(ownerID string) bool {
	return c.accountID != "" && c.accountID == ownerID
}

// Guard resolves a presented identity token into a Caller.
// Failures are apperr.AuthError with apperr.ReasonInvalidToken.
type Guard interface {
	ResolveIdentity(ctx context.Context, token string) (Caller, error)
}

var _ Guard = (*Service)(nil)
