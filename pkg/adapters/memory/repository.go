// Package memory provides in-process implementations of the storage and
// transcription contracts. They back tests, examples and the --adapter=memory
// mode of the CLI.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/murmur/pkg/core"
)

// Repository keeps the notes record in memory.
type Repository struct {
	mu     sync.Mutex
	record []core.Note
	saved  bool
	writes int
	// FailWith, when set, is returned by every Save.
	FailWith error
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Initialize implements core.Repository.
func (r *Repository) Initialize(ctx context.Context) error { return nil }

// Load implements core.Repository.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.saved {
		return nil, core.ErrRecordNotFound
	}
	return core.Clone(r.record), nil
}

// Save implements core.Repository.
func (r *Repository) Save(ctx context.Context, notes []core.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.FailWith != nil {
		return r.FailWith
	}
	r.record = core.Clone(notes)
	r.saved = true
	return nil
}

// Record returns a copy of the persisted collection.
func (r *Repository) Record() []core.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return core.Clone(r.record)
}

// Writes returns how many times Save was called.
func (r *Repository) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "memory"
}

var _ core.Repository = (*Repository)(nil)
