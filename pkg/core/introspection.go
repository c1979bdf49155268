package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes          int        `json:"notes"`
	Loaded         bool       `json:"loaded"`
	RepositoryType string     `json:"repository_type"`
	LastWrite      *time.Time `json:"last_write,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		// Try to get component type if repository implements introspection.Component
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	state := StoreState{
		Notes:          len(s.notes),
		Loaded:         s.loaded,
		RepositoryType: repoType,
		LastWrite:      s.lastWrite,
	}
	if s.lastErr != nil {
		state.LastError = s.lastErr.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
