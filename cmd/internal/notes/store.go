package notes

import (
	"context"
	"time"
)

// UpdateInput is an owner-conditioned field update.
type UpdateInput struct {
	ID      string
	OwnerID string
	Patch   Patch
	Now     time.Time
}

// Store is the note persistence boundary.
//
// Error contract:
//   - Get, Update and Delete return apperr.NotFoundError{Resource: "note"} when id does not exist.
//   - Update and Delete return apperr.AuthError{Reason: access_denied} when the note exists
//     but OwnerID does not match. The ownership check and the write are one atomic step.
type Store interface {
	Insert(ctx context.Context, n Note) (Note, error)
	Get(ctx context.Context, id string) (Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Note, error)
	Update(ctx context.Context, in UpdateInput) (Note, error)
	Delete(ctx context.Context, id, ownerID string) (Note, error)
}
