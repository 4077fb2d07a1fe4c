package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventAuthExpired is broadcast when any backend call reports an
	// unauthorized token. It carries no payload.
	EventAuthExpired EventType = "auth_expired"
	// EventSessionChanged is published after every session state commit.
	EventSessionChanged EventType = "session_changed"
	// EventLocationChanged is published after every navigation.
	EventLocationChanged EventType = "location_changed"
)

// Event represents a signal emitted by the client core.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New builds an event with a fresh id and timestamp.
func New(eventType EventType, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// LocationChangedPayload carries the path that became current.
type LocationChangedPayload struct {
	Path string `json:"path"`
}
