package identity

import (
	"context"
	"time"
)

// CreateAccountInput carries an already-hashed account for persistence.
type CreateAccountInput struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Now          time.Time
}

// Store is the account persistence boundary.
//
// Error contract:
//   - CreateAccount returns apperr.ConflictError{Field: "email"} when the normalized email is taken.
//   - Lookups return apperr.NotFoundError{Resource: "account"} when nothing matches.
type Store interface {
	CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error)
	GetAccountByEmail(ctx context.Context, emailNorm string) (AccountAuth, error)
	GetAccountByID(ctx context.Context, id string) (Account, error)
}
