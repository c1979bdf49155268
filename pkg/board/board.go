// Package board exposes the event surface the presentation layer talks to.
//
// A Board composes the note Store, the search filter and the capture
// Controller. Inbound events are methods (OnQueryChanged, OnSaveRequested,
// ...); outbound notifications go to a core.Sink. Every CollectionChanged
// carries the collection already filtered by the current query.
package board

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/murmur/pkg/capture"
	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/dictation"
	"github.com/aretw0/murmur/pkg/search"
)

// Board is the single entry point of the presentation layer.
type Board struct {
	mu      sync.Mutex
	store   *core.Store
	capture *capture.Controller
	sink    core.Sink
	logger  *slog.Logger
	query   string
}

// Config holds the Board collaborators.
type Config struct {
	Store     *core.Store
	Dictation *dictation.Exclusive
	Sink      core.Sink
	Logger    *slog.Logger
	Locale    string
}

// New creates a Board. Call Open before dispatching events.
func New(cfg Config) *Board {
	b := &Board{
		store:  cfg.Store,
		sink:   cfg.Sink,
		logger: cfg.Logger,
	}
	if b.sink == nil {
		b.sink = core.NopSink{}
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b.capture = capture.NewController(capture.Config{
		Committer: committer{b},
		Dictation: cfg.Dictation,
		Sink:      b.sink,
		Logger:    b.logger,
		Locale:    cfg.Locale,
	})
	return b
}

// Open loads the persisted notes and announces the initial collection.
// Calling it again reloads the record, e.g. after an external edit.
func (b *Board) Open(ctx context.Context) []core.Note {
	notes := b.store.Load(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	visible := search.Filter(notes, b.query)
	b.sink.CollectionChanged(visible)
	return visible
}

// OnQueryChanged updates the search query and announces the visible notes.
func (b *Board) OnQueryChanged(query string) []core.Note {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.query = query
	return b.announceLocked(b.store.Notes())
}

// OnModeChosen starts typing or dictation.
func (b *Board) OnModeChosen(ctx context.Context, mode core.InputMode) error {
	return b.capture.ChooseMode(ctx, mode)
}

// OnBufferEdited records text typed by the user.
func (b *Board) OnBufferEdited(text string) {
	b.capture.EditBuffer(text)
}

// OnSaveRequested commits the buffer as a new note.
func (b *Board) OnSaveRequested(ctx context.Context) error {
	return b.capture.Save(ctx)
}

// OnDeleteRequested removes the note with id. Unknown ids are ignored.
func (b *Board) OnDeleteRequested(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	notes, err := b.store.Remove(ctx, id)
	b.announceLocked(notes)
	if err != nil {
		b.sink.NotifyError(err)
	}
	return err
}

// OnDictationStopRequested stops recording and keeps the captured text.
func (b *Board) OnDictationStopRequested() error {
	return b.capture.StopDictation()
}

// OnDictationCancelRequested stops recording and discards the captured text.
func (b *Board) OnDictationCancelRequested() error {
	return b.capture.CancelDictation()
}

// Visible returns the notes matching the current query.
func (b *Board) Visible() []core.Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	return search.Filter(b.store.Notes(), b.query)
}

// Notes returns the whole collection, newest first.
func (b *Board) Notes() []core.Note {
	return b.store.Notes()
}

// Query returns the current search query.
func (b *Board) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

// Buffer returns the capture buffer.
func (b *Board) Buffer() string {
	return b.capture.Buffer()
}

// Mode returns the capture mode.
func (b *Board) Mode() capture.Mode {
	return b.capture.Mode()
}

// Store returns the underlying note store.
func (b *Board) Store() *core.Store {
	return b.store
}

// Capture returns the capture controller.
func (b *Board) Capture() *capture.Controller {
	return b.capture
}

func (b *Board) announceLocked(notes []core.Note) []core.Note {
	visible := search.Filter(notes, b.query)
	b.sink.CollectionChanged(visible)
	return visible
}

// committer adds notes through the Store and announces the new collection.
type committer struct{ b *Board }

func (c committer) Add(ctx context.Context, content string) ([]core.Note, error) {
	c.b.mu.Lock()
	defer c.b.mu.Unlock()

	notes, err := c.b.store.Add(ctx, content)
	if !errors.Is(err, core.ErrEmptyContent) {
		c.b.announceLocked(notes)
	}
	return notes, err
}
