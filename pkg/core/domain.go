package core

import "fmt"

// SessionState is the state of a dictation session.
type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionRecording SessionState = "recording"
	SessionStopped   SessionState = "stopped"
)

// InputMode is the way the user chose to produce note content.
type InputMode string

const (
	InputTyped   InputMode = "typed"
	InputDictate InputMode = "dictate"
)

// EventType represents the kind of outbound notification.
type EventType string

const (
	EventCollectionChanged     EventType = "COLLECTION_CHANGED"
	EventBufferChanged         EventType = "BUFFER_CHANGED"
	EventSessionStateChanged   EventType = "SESSION_STATE_CHANGED"
	EventSuccess               EventType = "SUCCESS"
	EventCapabilityUnavailable EventType = "CAPABILITY_UNAVAILABLE"
	EventError                 EventType = "ERROR"
)

// Event is an outbound notification for the presentation layer.
// Only the fields relevant to Type are set.
type Event struct {
	Type    EventType
	Notes   []Note
	Text    string
	State   SessionState
	Message string
	Err     error
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	switch e.Type {
	case EventCollectionChanged:
		return fmt.Sprintf("%s (%d notes)", e.Type, len(e.Notes))
	case EventBufferChanged:
		return fmt.Sprintf("%s %q", e.Type, e.Text)
	case EventSessionStateChanged:
		return fmt.Sprintf("%s %s", e.Type, e.State)
	case EventError:
		return fmt.Sprintf("%s %v", e.Type, e.Err)
	default:
		if e.Message != "" {
			return fmt.Sprintf("%s %s", e.Type, e.Message)
		}
		return string(e.Type)
	}
}

type contextKey string

// ChangeReasonKey is the context key for passing a change reason (commit message)
// down to versioned repositories.
const ChangeReasonKey contextKey = "change_reason"
