package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"notebook/cmd/apperr"
)

// MemoryStore is a dev/test fallback when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]AccountAuth
	byEmail map[string]string // email_norm -> id
}

// NewMemoryStore constructs an empty in-memory account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]AccountAuth),
		byEmail: make(map[string]string),
	}
}

// CreateAccount stores in, enforcing unique id and normalized email.
func (s *MemoryStore) CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error) {
	const op = "identity.CreateAccount"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	if strings.TrimSpace(in.ID) == "" || strings.TrimSpace(in.PasswordHash) == "" {
		return Account{}, apperr.OpError{Op: op, Kind: apperr.ErrInvalidInput, Msg: "missing id or password hash"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	norm := NormalizeEmail(in.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[norm]; taken {
		return Account{}, apperr.ConflictError{Op: op, Field: "email"}
	}
	if _, taken := s.byID[in.ID]; taken {
		return Account{}, apperr.ConflictError{Op: op, Field: "id"}
	}

	acct := Account{
		ID:        in.ID,
		Name:      in.Name,
		Email:     strings.TrimSpace(in.Email),
		EmailNorm: norm,
		CreatedAt: now,
	}
	s.byID[in.ID] = AccountAuth{Account: acct, PasswordHash: in.PasswordHash}
	s.byEmail[norm] = in.ID

	return acct, nil
}

// GetAccountByEmail looks up an account and its hash by normalized email.
func (s *MemoryStore) GetAccountByEmail(ctx context.Context, emailNorm string) (AccountAuth, error) {
	const op = "identity.GetAccountByEmail"

	if err := ctx.Err(); err != nil {
		return AccountAuth{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[NormalizeEmail(emailNorm)]
	if !ok {
		return AccountAuth{}, apperr.NotFoundError{Op: op, Resource: "account"}
	}
	return s.byID[id], nil
}

// GetAccountByID looks up an account by id.
func (s *MemoryStore) GetAccountByID(ctx context.Context, id string) (Account, error) {
	const op = "identity.GetAccountByID"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return Account{}, apperr.NotFoundError{Op: op, Resource: "account"}
	}
	return a.Account, nil
}

// Exists reports whether an account with id is stored.
func (s *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok, nil
}
