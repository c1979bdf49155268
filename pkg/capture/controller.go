// Package capture coordinates how note content is produced (typed or
// dictated) and commits finished notes.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/dictation"
)

// Mode is the state of the capture state machine.
type Mode string

const (
	ModeChoosing  Mode = "choosing"
	ModeTyped     Mode = "typed"
	ModeDictating Mode = "dictating"
)

// SuccessMessage is sent to the sink after a note is saved.
const SuccessMessage = "note created successfully"

// Committer receives finished note content.
type Committer interface {
	Add(ctx context.Context, content string) ([]core.Note, error)
}

// Controller is the capture state machine.
//
// It owns the visible buffer and the dictation handle. Snapshots from a
// session are applied only while that session is the current one and still
// recording; the check happens under the controller lock, so nothing reaches
// the buffer once Stop returns.
type Controller struct {
	mu        sync.Mutex
	committer Committer
	dictation *dictation.Exclusive
	sink      core.Sink
	logger    *slog.Logger
	locale    string

	mode    Mode
	buffer  string
	session *dictation.Session
	saved   int
}

// Config holds the Controller collaborators.
type Config struct {
	Committer Committer
	Dictation *dictation.Exclusive
	Sink      core.Sink
	Logger    *slog.Logger
	Locale    string
}

// NewController creates a Controller in ModeChoosing.
func NewController(cfg Config) *Controller {
	c := &Controller{
		committer: cfg.Committer,
		dictation: cfg.Dictation,
		sink:      cfg.Sink,
		logger:    cfg.Logger,
		locale:    cfg.Locale,
		mode:      ModeChoosing,
	}
	if c.dictation == nil {
		c.dictation = dictation.NewExclusive(nil, cfg.Logger)
	}
	if c.sink == nil {
		c.sink = core.NopSink{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.locale == "" {
		c.locale = dictation.DefaultLocale
	}
	return c
}

// Mode returns the current capture mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Buffer returns the visible buffer.
func (c *Controller) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer
}

// ChooseMode handles an explicit choice between typing and dictation.
func (c *Controller) ChooseMode(ctx context.Context, mode core.InputMode) error {
	switch mode {
	case core.InputTyped:
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.mode == ModeDictating {
			c.stopSessionLocked()
		}
		c.mode = ModeTyped
		return nil
	case core.InputDictate:
		return c.startDictation(ctx)
	default:
		return fmt.Errorf("%w: unknown input mode %q", core.ErrInvalidTransition, mode)
	}
}

func (c *Controller) startDictation(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Stop before start: the previous session must release the device first.
	c.stopSessionLocked()

	s, err := c.dictation.Start(ctx, dictation.DefaultConfig(c.locale))
	if err != nil {
		if errors.Is(err, core.ErrCapabilityUnavailable) {
			c.logger.Warn("dictation unavailable, falling back to typing", "error", err)
			c.mode = ModeTyped
			c.sink.NotifyCapabilityUnavailable()
			return err
		}
		c.logger.Error("failed to start dictation", "error", err)
		c.sink.NotifyError(err)
		return err
	}

	c.session = s
	c.mode = ModeDictating
	c.sink.SessionStateChanged(core.SessionRecording)

	lifecycle.Go(context.WithoutCancel(ctx), func(context.Context) error {
		c.follow(s)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		c.logger.Error("dictation follower panic", "error", err)
	}))
	return nil
}

// follow applies the snapshots of s until the session ends.
func (c *Controller) follow(s *dictation.Session) {
	for text := range s.Snapshots() {
		c.applySnapshot(s, text)
	}
	c.sessionEnded(s)
}

func (c *Controller) applySnapshot(s *dictation.Session, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != s || !s.Recording() {
		c.logger.Debug("discarding late snapshot", "session", s.ID())
		return
	}
	c.buffer = text
	c.sink.VisibleBufferChanged(text)
}

// sessionEnded reverts to typed input when the provider ended the stream.
func (c *Controller) sessionEnded(s *dictation.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != s || s.State() != core.SessionIdle {
		return
	}
	c.logger.Info("dictation ended by provider", "session", s.ID(), "error", s.Err())
	c.session = nil
	c.mode = c.typedOrChoosing()
	c.sink.SessionStateChanged(core.SessionIdle)
	if err := s.Err(); err != nil {
		c.sink.NotifyError(err)
	}
}

// EditBuffer replaces the buffer with text typed by the user.
func (c *Controller) EditBuffer(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buffer = text
	switch c.mode {
	case ModeChoosing:
		if text != "" {
			c.mode = ModeTyped
		}
	case ModeTyped:
		if text == "" {
			c.mode = ModeChoosing
		}
	}
}

// StopDictation ends the recording and keeps the captured text for editing.
func (c *Controller) StopDictation() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeDictating {
		return nil
	}
	err := c.stopSessionLocked()
	c.mode = c.typedOrChoosing()
	return err
}

// CancelDictation stops the recording and discards the buffer.
func (c *Controller) CancelDictation() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeDictating {
		return fmt.Errorf("%w: cancel dictation while %s", core.ErrInvalidTransition, c.mode)
	}
	err := c.stopSessionLocked()
	c.buffer = ""
	c.mode = ModeChoosing
	c.sink.VisibleBufferChanged("")
	return err
}

// Save commits the buffer as a new note.
// An empty buffer is silently ignored.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buffer == "" {
		c.logger.Debug("save ignored: empty buffer")
		return nil
	}

	// Holding c.mu, no snapshot can land between the stop and the commit.
	if c.mode == ModeDictating {
		c.stopSessionLocked()
	}

	if c.committer == nil {
		return fmt.Errorf("%w: no committer configured", core.ErrPersistenceUnavailable)
	}

	_, err := c.committer.Add(ctx, c.buffer)
	if errors.Is(err, core.ErrEmptyContent) {
		return nil
	}

	// The note exists in memory even if the write failed.
	c.buffer = ""
	c.mode = ModeChoosing
	c.sink.VisibleBufferChanged("")
	if err != nil {
		c.sink.NotifyError(err)
		return err
	}
	c.saved++
	c.sink.NotifySuccess(SuccessMessage)
	return nil
}

// stopSessionLocked must be called with c.mu held.
func (c *Controller) stopSessionLocked() error {
	if c.session == nil {
		return nil
	}
	s := c.session
	c.session = nil
	wasRecording := s.Recording()
	err := s.Stop()
	if err != nil {
		c.logger.Warn("failed to stop dictation", "error", err)
	}
	if wasRecording {
		c.sink.SessionStateChanged(core.SessionStopped)
	}
	return err
}

func (c *Controller) typedOrChoosing() Mode {
	if c.buffer == "" {
		return ModeChoosing
	}
	return ModeTyped
}
