package capture

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/murmur/pkg/dictation"
)

// ControllerState exposes internal state for observability.
type ControllerState struct {
	Mode       Mode                    `json:"mode"`
	BufferLen  int                     `json:"buffer_len"`
	Locale     string                  `json:"locale"`
	Dictation  bool                    `json:"dictation_available"`
	Session    *dictation.SessionState `json:"session,omitempty"`
	NotesSaved int                     `json:"notes_saved"`
}

// State implements introspection.Introspectable.
func (c *Controller) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := ControllerState{
		Mode:       c.mode,
		BufferLen:  len(c.buffer),
		Locale:     c.locale,
		Dictation:  c.dictation.Available(),
		NotesSaved: c.saved,
	}
	if c.session != nil {
		snap := c.session.Snapshot()
		st.Session = &snap
	}
	return st
}

// ComponentType implements introspection.Component.
func (c *Controller) ComponentType() string {
	return "capture"
}

var _ introspection.Introspectable = (*Controller)(nil)
var _ introspection.Component = (*Controller)(nil)
