package notes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"notebook/cmd/apperr"
)

// OwnerChecker reports whether an account exists.
// The memory store uses it to reject notes for unknown owners, as the Postgres foreign key does.
type OwnerChecker interface {
	Exists(ctx context.Context, accountID string) (bool, error)
}

// MemoryStore is a dev/test fallback when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]Note
	owners OwnerChecker
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithOwnerChecker makes Insert fail with NotFound for unknown owners.
func WithOwnerChecker(c OwnerChecker) MemoryOption {
	return func(s *MemoryStore) { s.owners = c }
}

// NewMemoryStore constructs an empty in-memory note store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]Note)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *MemoryStore) Insert(ctx context.Context, n Note) (Note, error) {
	const op = "notes.Insert"

	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	if strings.TrimSpace(n.ID) == "" || strings.TrimSpace(n.OwnerID) == "" {
		return Note{}, apperr.OpError{Op: op, Kind: apperr.ErrInvalidInput, Msg: "missing id or owner"}
	}
	if s.owners != nil {
		ok, err := s.owners.Exists(ctx, n.OwnerID)
		if err != nil {
			return Note{}, err
		}
		if !ok {
			return Note{}, apperr.NotFoundError{Op: op, Resource: "account"}
		}
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byID[n.ID]; taken {
		return Note{}, apperr.ConflictError{Op: op, Field: "id"}
	}
	s.byID[n.ID] = n
	return n, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Note, error) {
	const op = "notes.Get"

	if err := ctx.Err(); err != nil {
		return Note{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	if !ok {
		return Note{}, apperr.NotFoundError{Op: op, Resource: "note"}
	}
	return n, nil
}

func (s *MemoryStore) ListByOwner(ctx context.Context, ownerID string) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]Note, 0)
	for _, n := range s.byID {
		if n.OwnerID == ownerID {
			out = append(out, n)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, in UpdateInput) (Note, error) {
	const op = "notes.Update"

	if err := ctx.Err(); err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[in.ID]
	if !ok {
		return Note{}, apperr.NotFoundError{Op: op, Resource: "note"}
	}
	if n.OwnerID != in.OwnerID {
		return Note{}, apperr.AuthError{Op: op, Reason: apperr.ReasonAccessDenied}
	}

	n = in.Patch.Apply(n)
	n.UpdatedAt = in.Now
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now().UTC()
	}
	s.byID[n.ID] = n
	return n, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id, ownerID string) (Note, error) {
	const op = "notes.Delete"

	if err := ctx.Err(); err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return Note{}, apperr.NotFoundError{Op: op, Resource: "note"}
	}
	if n.OwnerID != ownerID {
		return Note{}, apperr.AuthError{Op: op, Reason: apperr.ReasonAccessDenied}
	}
	delete(s.byID, id)
	return n, nil
}
