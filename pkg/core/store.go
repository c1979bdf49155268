package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns the note collection and its durable record.
//
// Every mutation overwrites the whole record before returning. If the write
// fails the in-memory collection is kept and becomes the tentative source of
// truth until the next successful write.
type Store struct {
	mu     sync.RWMutex
	repo   Repository
	notes  []Note
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	loaded    bool
	lastWrite *time.Time
	lastErr   error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used by the Store.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the timestamp source (useful for testing).
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the note ID generator (useful for testing).
// Generated IDs must never repeat.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore creates a Store on top of repo. Call Load before use.
func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := &Store{
		repo:   repo,
		notes:  []Note{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted record.
// A missing or unreadable record degrades to an empty collection; Load never fails.
func (s *Store) Load(ctx context.Context) []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	notes, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			s.logger.Debug("no notes record yet, starting empty")
		} else {
			s.logger.Warn("notes record unreadable, starting empty", "error", err)
		}
		s.notes = []Note{}
		return Clone(s.notes)
	}

	s.notes = dedupe(notes, s.logger)
	s.logger.Debug("notes loaded", "count", len(s.notes))
	return Clone(s.notes)
}

// Add creates a note with content, prepends it and persists the collection.
//
// The caller is responsible for rejecting empty content; an empty string is
// still refused here as a no-op with ErrEmptyContent so that an empty note can
// never reach the record.
func (s *Store) Add(ctx context.Context, content string) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if content == "" {
		return Clone(s.notes), ErrEmptyContent
	}

	note := Note{
		ID:        s.newID(),
		CreatedAt: s.now(),
		Content:   content,
	}

	next := make([]Note, 0, len(s.notes)+1)
	next = append(next, note)
	next = append(next, s.notes...)
	s.notes = next

	reason := fmt.Sprintf("add note %s", note.ID)
	return Clone(s.notes), s.persist(withReason(ctx, reason))
}

// Remove deletes the note with id and persists the collection.
// Removing an unknown id is not an error. It writes nothing unless the
// previous write failed, in which case the collection is persisted again.
func (s *Store) Remove(ctx context.Context, id string) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := IndexOf(s.notes, id)
	if idx < 0 {
		s.logger.Debug("remove: note not found", "id", id)
		if s.lastErr == nil {
			return Clone(s.notes), nil
		}
		return Clone(s.notes), s.persist(withReason(ctx, "persist notes record"))
	}

	next := make([]Note, 0, len(s.notes)-1)
	next = append(next, s.notes[:idx]...)
	next = append(next, s.notes[idx+1:]...)
	s.notes = next

	reason := fmt.Sprintf("remove note %s", id)
	return Clone(s.notes), s.persist(withReason(ctx, reason))
}

// Notes returns a copy of the current collection, newest first.
func (s *Store) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.notes)
}

// Repository returns the backing repository.
func (s *Store) Repository() Repository {
	return s.repo
}

// Len returns the number of notes in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, Clone(s.notes)); err != nil {
		s.lastErr = err
		s.logger.Error("failed to persist notes", "error", err, "count", len(s.notes))
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	now := s.now()
	s.lastWrite = &now
	s.lastErr = nil
	return nil
}

func withReason(ctx context.Context, reason string) context.Context {
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		return ctx
	}
	return context.WithValue(ctx, ChangeReasonKey, reason)
}

// dedupe keeps the first occurrence of each ID.
func dedupe(notes []Note, logger *slog.Logger) []Note {
	seen := make(map[string]struct{}, len(notes))
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if _, ok := seen[n.ID]; ok {
			logger.Warn("duplicate note id in record, keeping first", "id", n.ID)
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	return out
}
