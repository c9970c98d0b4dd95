// Package api is the HTTP surface of notebook: account endpoints under
// /api/auth and owner-scoped note endpoints under /api/notes.
package api

import (
	"context"
	"errors"
	"log/slog"

	"notebook/cmd/identity"
	"notebook/cmd/internal/notes"

	"github.com/go-chi/chi/v5"
)

// Identity is the account service the handlers call.
type Identity interface {
	identity.Guard
	Register(ctx context.Context, in identity.RegisterInput) (string, identity.Account, error)
	Login(ctx context.Context, in identity.LoginInput) (string, error)
	GetProfile(ctx context.Context, accountID string) (identity.Profile, error)
}

// Notes is the note service the handlers call.
type Notes interface {
	ListNotes(ctx context.Context, caller identity.Caller) ([]notes.Note, error)
	CreateNote(ctx context.Context, caller identity.Caller, in notes.CreateInput) (notes.Note, error)
	GetNote(ctx context.Context, caller identity.Caller, noteID string) (notes.Note, error)
	UpdateNote(ctx context.Context, caller identity.Caller, noteID string, p notes.Patch) (notes.Note, error)
	DeleteNote(ctx context.Context, caller identity.Caller, noteID string) (notes.Note, error)
}

var (
	_ Identity = (*identity.Service)(nil)
	_ Notes    = (*notes.Service)(nil)
)

// Handler wires HTTP endpoints to the identity and note services.
type Handler struct {
	log *slog.Logger
	cfg Config

	identity Identity
	notes    Notes
}

// NewHandler constructs a Handler.
func NewHandler(log *slog.Logger, cfg Config, ids Identity, ns Notes) (*Handler, error) {
	if ids == nil {
		return nil, errors.New("api: nil identity service")
	}
	if ns == nil {
		return nil, errors.New("api: nil notes service")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}

	return &Handler{
		log:      log,
		cfg:      cfg,
		identity: ids,
		notes:    ns,
	}, nil
}

// Register wires API routes onto r.
func (h *Handler) Register(r chi.Router) {
	if h == nil || r == nil {
		return
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/createuser", h.handleCreateUser)
		r.Post("/login", h.handleLogin)
		r.Post("/getuser", h.handleGetUser)
		r.Get("/getuser", h.handleGetUser)
	})

	r.Route("/api/notes", func(r chi.Router) {
		r.Get("/fetchallnotes", h.handleFetchAllNotes)
		r.Post("/addnote", h.handleAddNote)
		r.Put("/updatenote/{id}", h.handleUpdateNote)
		r.Delete("/deletenote/{id}", h.handleDeleteNote)
		r.Get("/{id}", h.handleGetNote)
	})
}
