package event

import "time"

type Type string

const (
	TypeLoadingChanged Type = "loading.changed"
	TypeSessionExpired Type = "session.expired"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// LoadingPayload describes the in-flight request count after a change.
type LoadingPayload struct {
	InFlight int  `json:"in_flight"`
	Visible  bool `json:"visible"`
}

type Bus interface {
	Publish(e Event)
	Subscribe(types ...Type) (<-chan Event, func())
}

func New(t Type, payload any) Event {
	return Event{
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}
