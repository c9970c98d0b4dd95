package notes

import "time"

// EventType names a note change.
type EventType string

const (
	EventCreated EventType = "note.created"
	EventUpdated EventType = "note.updated"
	EventDeleted EventType = "note.deleted"
)

// Event describes one committed change to a note. It is delivered to the note's owner only.
type Event struct {
	Type EventType
	Note Note
	At   time.Time
}

// Publisher receives committed note changes.
// Publish must not block; delivery is best effort.
type Publisher interface {
	Publish(Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
