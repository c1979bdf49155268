// Package daemon implements dictation.Provider on top of a local speech
// transcription daemon reached over a Unix socket using NDJSON.
package daemon

import "github.com/aretw0/murmur/pkg/dictation"

// Command names.
const (
	CmdStart = "start"
	CmdStop  = "stop"
)

// Event names.
const (
	EventResult = "result"
	EventError  = "error"
	EventEnd    = "end"
)

// Command is sent from murmur to the daemon.
type Command struct {
	Cmd             string `json:"cmd"`
	Locale          string `json:"locale,omitempty"`
	Continuous      *bool  `json:"continuous,omitempty"`
	MaxAlternatives int    `json:"maxAlternatives,omitempty"`
	InterimResults  *bool  `json:"interimResults,omitempty"`
}

// Response is returned by the daemon after a start command.
type Response struct {
	OK        bool   `json:"ok"`
	SessionID string `json:"sessionId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Event is streamed from the daemon while a session records.
type Event struct {
	Event     string              `json:"event"`
	Segments  []dictation.Segment `json:"segments,omitempty"`
	Message   string              `json:"message,omitempty"`
	Transient *bool               `json:"transient,omitempty"`
}

// StartCommand builds the start command for cfg.
func StartCommand(cfg dictation.Config) Command {
	return Command{
		Cmd:             CmdStart,
		Locale:          cfg.Locale,
		Continuous:      BoolPtr(cfg.Continuous),
		MaxAlternatives: cfg.MaxAlternatives,
		InterimResults:  BoolPtr(cfg.InterimResults),
	}
}

// BoolPtr returns a pointer to a bool value. Convenience for building commands.
func BoolPtr(b bool) *bool { return &b }
