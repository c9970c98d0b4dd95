package realtime

import (
	"time"

	"notebook/cmd/identity/ids"

	"github.com/google/uuid"
)

// NewSessionID returns a random id for one websocket connection.
func NewSessionID() string {
	return uuid.NewString()
}

// NewFrameID returns a ULID used as frame id, so ids sort with frame time in logs.
// It falls back to a UUID if the entropy source fails.
func NewFrameID(now time.Time) string {
	id, err := ids.NewULID(now)
	if err != nil {
		return uuid.NewString()
	}
	return id
}
