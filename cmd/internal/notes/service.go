package notes

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"notebook/cmd/apperr"
	"notebook/cmd/identity"
	"notebook/cmd/identity/ids"
	"notebook/cmd/internal/validate"
)

// Service enforces note ownership on top of a Store.
type Service struct {
	store Store
	pub   Publisher
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the receiver of committed note changes.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.pub = p
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds the note service.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("notes: nil store")
	}
	s := &Service{
		store: store,
		pub:   noopPublisher{},
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// ListNotes returns the caller's notes in creation order.
func (s *Service) ListNotes(ctx context.Context, caller identity.Caller) ([]Note, error) {
	const op = "notes.ListNotes"

	if err := requireCaller(op, caller); err != nil {
		return nil, err
	}

	out, err := s.store.ListByOwner(ctx, caller.AccountID())
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if out == nil {
		out = []Note{}
	}
	return out, nil
}

// CreateNote stores a new note owned by the caller.
func (s *Service) CreateNote(ctx context.Context, caller identity.Caller, in CreateInput) (Note, error) {
	const op = "notes.CreateNote"

	if err := requireCaller(op, caller); err != nil {
		return Note{}, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Tag = strings.TrimSpace(in.Tag)
	if err := validate.Struct(op, in); err != nil {
		return Note{}, err
	}

	now := s.now().UTC()
	id, err := ids.NewULID(now)
	if err != nil {
		return Note{}, apperr.Internal(op, err)
	}

	n, err := s.store.Insert(ctx, Note{
		ID:          id,
		OwnerID:     caller.AccountID(),
		Title:       in.Title,
		Description: in.Description,
		Tag:         in.Tag,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Note{}, apperr.Wrap(op, err)
	}

	s.log.Info("notes.create.ok", "account_id", n.OwnerID, "note_id", n.ID)
	s.publish(EventCreated, n)
	return n, nil
}

// GetNote returns one of the caller's notes.
func (s *Service) GetNote(ctx context.Context, caller identity.Caller, noteID string) (Note, error) {
	const op = "notes.GetNote"

	if err := requireCaller(op, caller); err != nil {
		return Note{}, err
	}
	return s.getOwned(ctx, op, caller, noteID)
}

// UpdateNote applies the non-blank fields of p to one of the caller's notes.
// A missing note or a foreign owner is reported before the patch is validated.
// An empty patch returns the note unchanged.
func (s *Service) UpdateNote(ctx context.Context, caller identity.Caller, noteID string, p Patch) (Note, error) {
	const op = "notes.UpdateNote"

	if err := requireCaller(op, caller); err != nil {
		return Note{}, err
	}

	// Existence and ownership are settled before the patch is looked at.
	cur, err := s.getOwned(ctx, op, caller, noteID)
	if err != nil {
		return Note{}, err
	}
	p = p.Normalized()
	if p.Empty() {
		return cur, nil
	}
	if err := validate.Struct(op, p); err != nil {
		return Note{}, err
	}

	n, err := s.store.Update(ctx, UpdateInput{
		ID:      noteID,
		OwnerID: caller.AccountID(),
		Patch:   p,
		Now:     s.now().UTC(),
	})
	if err != nil {
		s.logDenied(err, "notes.update.denied", caller, noteID)
		return Note{}, apperr.Wrap(op, err)
	}

	s.log.Info("notes.update.ok", "account_id", n.OwnerID, "note_id", n.ID)
	s.publish(EventUpdated, n)
	return n, nil
}

// DeleteNote permanently removes one of the caller's notes and returns it.
func (s *Service) DeleteNote(ctx context.Context, caller identity.Caller, noteID string) (Note, error) {
	const op = "notes.DeleteNote"

	if err := requireCaller(op, caller); err != nil {
		return Note{}, err
	}
	if strings.TrimSpace(noteID) == "" {
		return Note{}, apperr.NotFoundError{Op: op, Resource: "note"}
	}

	n, err := s.store.Delete(ctx, noteID, caller.AccountID())
	if err != nil {
		s.logDenied(err, "notes.delete.denied", caller, noteID)
		return Note{}, apperr.Wrap(op, err)
	}

	s.log.Info("notes.delete.ok", "account_id", n.OwnerID, "note_id", n.ID)
	s.publish(EventDeleted, n)
	return n, nil
}

func (s *Service) getOwned(ctx context.Context, op string, caller identity.Caller, noteID string) (Note, error) {
	if strings.TrimSpace(noteID) == "" {
		return Note{}, apperr.NotFoundError{Op: op, Resource: "note"}
	}

	n, err := s.store.Get(ctx, noteID)
	if err != nil {
		return Note{}, apperr.Wrap(op, err)
	}
	if !caller.Owns(n.OwnerID) {
		s.log.Warn("notes.read.denied", "account_id", caller.AccountID(), "note_id", noteID)
		return Note{}, apperr.AuthError{Op: op, Reason: apperr.ReasonAccessDenied}
	}
	return n, nil
}

func (s *Service) publish(t EventType, n Note) {
	s.pub.Publish(Event{Type: t, Note: n, At: s.now().UTC()})
}

func (s *Service) logDenied(err error, msg string, caller identity.Caller, noteID string) {
	if apperr.IsUnauthorized(err) {
		s.log.Warn(msg, "account_id", caller.AccountID(), "note_id", noteID)
	}
}

func requireCaller(op string, caller identity.Caller) error {
	if !caller.Authenticated() {
		return apperr.AuthError{Op: op, Reason: apperr.ReasonInvalidToken}
	}
	return nil
}
