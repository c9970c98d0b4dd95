package realtime

import (
	"time"

	"notebook/cmd/internal/notes"
)

// Frame types on the notebook.notes.v1 subprotocol.
const (
	TypePing  = "ping"
	TypePong  = "pong"
	TypeError = "error"
)

// Frame is one server-to-client message. Note changes carry the note type
// (note.created, note.updated, note.deleted) and the committed note.
type Frame struct {
	Type  string       `json:"type"`
	ID    string       `json:"id"`
	TS    time.Time    `json:"ts"`
	Note  *NotePayload `json:"note,omitempty"`
	Error *ErrorBody   `json:"error,omitempty"`
}

// NotePayload mirrors the HTTP note representation.
type NotePayload struct {
	ID          string    `json:"_id"`
	User        string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tag         string    `json:"tag"`
	Date        time.Time `json:"date"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrorBody reports a rejected inbound frame.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// inbound is the only client-to-server shape.
type inbound struct {
	Type string `json:"type"`
}

func newFrame(typ string, ts time.Time) Frame {
	return Frame{Type: typ, ID: NewFrameID(ts), TS: ts}
}

func noteFrame(e notes.Event) Frame {
	f := newFrame(string(e.Type), e.At)
	f.Note = &NotePayload{
		ID:          e.Note.ID,
		User:        e.Note.OwnerID,
		Title:       e.Note.Title,
		Description: e.Note.Description,
		Tag:         e.Note.Tag,
		Date:        e.Note.CreatedAt,
		UpdatedAt:   e.Note.UpdatedAt,
	}
	return f
}

func errorFrame(code, msg string, ts time.Time) Frame {
	f := newFrame(TypeError, ts)
	f.Error = &ErrorBody{Code: code, Message: msg}
	return f
}
