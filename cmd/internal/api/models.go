package api

import (
	"time"

	"notebook/cmd/identity"
	"notebook/cmd/internal/notes"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type noteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
}

type notePatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tag         *string `json:"tag"`
}

type authTokenResponse struct {
	AuthToken string `json:"authToken"`
}

type userResponse struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

type getUserResponse struct {
	User userResponse `json:"user"`
}

type noteResponse struct {
	ID          string    `json:"_id"`
	User        string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tag         string    `json:"tag"`
	Date        time.Time `json:"date"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type updateNoteResponse struct {
	Note noteResponse `json:"note"`
}

type deleteNoteResponse struct {
	Success string       `json:"Success"`
	Note    noteResponse `json:"note"`
}

func toUserResponse(p identity.Profile) userResponse {
	return userResponse{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Date:  p.CreatedAt,
	}
}

func toNoteResponse(n notes.Note) noteResponse {
	return noteResponse{
		ID:          n.ID,
		User:        n.OwnerID,
		Title:       n.Title,
		Description: n.Description,
		Tag:         n.Tag,
		Date:        n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func toNoteResponses(ns []notes.Note) []noteResponse {
	out := make([]noteResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNoteResponse(n))
	}
	return out
}
