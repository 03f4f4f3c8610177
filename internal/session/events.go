package session

import (
	"time"

	"github.com/mselser95/packs-bot/pkg/types"
)

// EventType names a discrete session event.
type EventType string

const (
	EventStarted             EventType = "started"
	EventBetRecorded         EventType = "betRecorded"
	EventBigWin              EventType = "bigWin"
	EventAutoStopped         EventType = "autoStopped"
	EventInsufficientBalance EventType = "insufficientBalance"
	EventInvalidCredentials  EventType = "invalidCredentials"
	EventFailureLimit        EventType = "failureLimit"
	EventCompleted           EventType = "completed"
	EventStopped             EventType = "stopped"
)

// Terminal reports whether the event ends a session.
func (t EventType) Terminal() bool {
	switch t {
	case EventAutoStopped, EventInsufficientBalance, EventInvalidCredentials,
		EventFailureLimit, EventCompleted, EventStopped:
		return true
	default:
		return false
	}
}

// Event is published to every sink as the session progresses.
type Event struct {
	Type      EventType           `json:"type"`
	SessionID string              `json:"sessionId"`
	Message   string              `json:"message,omitempty"`
	Outcome   *types.WagerOutcome `json:"outcome,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// EventSink receives session events. Publish is called from the session
// goroutine and must not block.
type EventSink interface {
	Publish(event Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(event Event)

// Publish calls f(event).
func (f SinkFunc) Publish(event Event) {
	f(event)
}
