package dictation

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Exclusive is the single dictation handle of a process.
// Starting a session through it first stops the one still recording, so two
// audio streams are never open at once.
type Exclusive struct {
	mu       sync.Mutex
	provider Provider
	logger   *slog.Logger
	active   *Session
}

// NewExclusive creates the handle. A nil provider means no transcription
// capability: every Start fails with core.ErrCapabilityUnavailable.
func NewExclusive(provider Provider, logger *slog.Logger) *Exclusive {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Exclusive{provider: provider, logger: logger}
}

// Available reports whether dictation can start. Providers implementing
// Checker are asked; any other configured provider counts as available.
func (e *Exclusive) Available() bool {
	if e.provider == nil {
		return false
	}
	if c, ok := e.provider.(Checker); ok {
		return c.Available()
	}
	return true
}

// Start stops the active session, if any, and starts a new one.
func (e *Exclusive) Start(ctx context.Context, cfg Config) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		if e.active.Recording() {
			e.logger.Debug("stopping previous dictation before starting a new one", "session", e.active.ID())
		}
		if err := e.active.Stop(); err != nil {
			e.logger.Warn("failed to stop previous dictation", "error", err)
		}
		e.active = nil
	}

	s, err := Start(ctx, e.provider, cfg, e.logger)
	if err != nil {
		return nil, err
	}
	e.active = s
	return s, nil
}

// Active returns the session currently recording, or nil.
func (e *Exclusive) Active() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil || !e.active.Recording() {
		return nil
	}
	return e.active
}

// Stop stops the active session. It is a no-op without one.
func (e *Exclusive) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return nil
	}
	err := e.active.Stop()
	e.active = nil
	return err
}
