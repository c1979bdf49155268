package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	Format        string     `json:"format"`
	ReadOnly      bool       `json:"read_only"`
	Versioning    bool       `json:"versioning"`
	WatcherActive bool       `json:"watcher_active"`
	LastWrite     *time.Time `json:"last_write,omitempty"`
	LastLoadError string     `json:"last_load_error,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	format := "json"
	if _, ok := r.serializer.(YAMLSerializer); ok {
		format = "yaml"
	}

	st := RepositoryState{
		Path:          r.Path,
		Format:        format,
		ReadOnly:      r.readOnly,
		Versioning:    r.git != nil,
		WatcherActive: r.watchers > 0,
		LastWrite:     r.lastWrite,
	}
	if r.lastLoadErr != nil {
		st.LastLoadError = r.lastLoadErr.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
