package dictation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"

	"github.com/aretw0/murmur/pkg/core"
)

// Session is one dictation capture.
//
// States: recording after Start, stopped after Stop, idle when the provider
// ended the stream on its own. Once a Session leaves recording no result is
// applied to its transcript anymore, even one already in flight.
type Session struct {
	id        string
	cfg       Config
	startedAt time.Time
	logger    *slog.Logger

	mu         sync.Mutex
	state      core.SessionState
	transcript string
	err        error

	stream    Stream
	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
	snapshots chan string
	done      chan struct{}
}

// Start opens a stream on provider and begins recording.
// A nil provider means the host has no transcription capability.
// The session is not bound to ctx cancellation; it runs until Stop or until
// the provider ends the stream.
func Start(ctx context.Context, provider Provider, cfg Config, logger *slog.Logger) (*Session, error) {
	if provider == nil {
		return nil, core.ErrCapabilityUnavailable
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	stream, err := provider.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open recognition stream: %w", err)
	}

	s := &Session{
		id:        uuid.New().String(),
		cfg:       cfg,
		startedAt: time.Now(),
		state:     core.SessionRecording,
		stream:    stream,
		snapshots: make(chan string, 1),
		done:      make(chan struct{}),
	}
	s.logger = logger.With("session", s.id)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	lifecycle.Go(runCtx, s.pump, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("dictation pump panic", "error", err)
		s.terminate(err)
	}))

	s.logger.Debug("dictation started", "locale", cfg.Locale)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Config returns the recognition settings of the session.
func (s *Session) Config() Config { return s.cfg }

// State returns the current session state.
func (s *Session) State() core.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Recording reports whether the session still accepts results.
func (s *Session) Recording() bool {
	return s.State() == core.SessionRecording
}

// Transcript returns the last accumulated transcript. After Stop it is the
// final captured text.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// Err returns the error that made the provider end the stream, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshots yields the full transcript each time it changes. Only the latest
// snapshot is buffered. The channel is closed when the session ends.
func (s *Session) Snapshots() <-chan string {
	return s.snapshots
}

// Done is closed once the session has released the stream and will publish
// nothing else.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop ends the recording and releases the provider stream.
// Stopping a session that is not recording is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state != core.SessionRecording {
		s.mu.Unlock()
		return nil
	}
	s.state = core.SessionStopped
	s.mu.Unlock()

	s.cancel()
	err := s.closeStream()
	s.logger.Debug("dictation stopped", "chars", len(s.Transcript()))
	if err != nil {
		return fmt.Errorf("close recognition stream: %w", err)
	}
	return nil
}

func (s *Session) pump(ctx context.Context) error {
	defer close(s.done)
	defer close(s.snapshots)

	for {
		res, err := s.stream.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil || !s.Recording() {
				return nil
			}
			if errors.Is(err, core.ErrRecognitionStream) {
				s.logger.Warn("recognition error", "error", err)
				continue
			}
			s.terminate(err)
			return nil
		}
		s.publish(res)
	}
}

// publish recomputes the transcript from res and offers it as the latest snapshot.
func (s *Session) publish(res Result) {
	text := res.Transcript()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != core.SessionRecording {
		s.logger.Debug("dropping late result", "state", s.state)
		return
	}
	s.transcript = text

	// Latest wins: replace an unread snapshot.
	select {
	case <-s.snapshots:
	default:
	}
	s.snapshots <- text
}

// terminate handles the provider ending the stream on its own.
func (s *Session) terminate(cause error) {
	s.mu.Lock()
	if s.state == core.SessionRecording {
		s.state = core.SessionIdle
		if cause != nil && !errors.Is(cause, io.EOF) {
			s.err = cause
		}
	}
	s.mu.Unlock()

	if cause != nil && !errors.Is(cause, io.EOF) {
		s.logger.Warn("recognition stream ended by provider", "error", cause)
	} else {
		s.logger.Debug("recognition stream ended by provider")
	}
	s.cancel()
	_ = s.closeStream()
}

func (s *Session) closeStream() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.stream.Close()
	})
	return s.closeErr
}

// SessionState exposes session state for observability.
type SessionState struct {
	ID        string            `json:"id"`
	Locale    string            `json:"locale"`
	State     core.SessionState `json:"state"`
	StartedAt time.Time         `json:"started_at"`
	Chars     int               `json:"chars"`
	Error     string            `json:"error,omitempty"`
}

// Snapshot returns a point-in-time view of the session.
func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SessionState{
		ID:        s.id,
		Locale:    s.cfg.Locale,
		State:     s.state,
		StartedAt: s.startedAt,
		Chars:     len(s.transcript),
	}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	return st
}
