// Package fs stores the notes record as a single file on the local
// filesystem, optionally versioned with Git.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/git"
)

// DefaultRecordName is the record file created inside a directory path.
const DefaultRecordName = "notes.json"

// Repository implements core.Repository with one record file.
type Repository struct {
	// Path is the record file.
	Path string

	mu          sync.RWMutex
	config      Config
	serializer  Serializer
	git         *git.Client
	readOnly    bool
	lastWrite   *time.Time
	lastLoadErr error
	watchers    int
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	// Path is either the record file or a directory that will hold DefaultRecordName.
	Path      string
	MustExist bool
	ReadOnly  bool
	// Versioning commits every overwrite to a git repository rooted at the record directory.
	Versioning bool
	// AutoInit runs "git init" when versioning is on and the directory is not a repository.
	AutoInit    bool
	Identity    *git.Identity
	Serializers map[string]Serializer
	Logger      *slog.Logger
	// ErrorHandler receives watcher errors that are otherwise only logged.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	path := resolveRecordPath(config.Path)
	r := &Repository{
		Path:       path,
		config:     config,
		serializer: SerializerFor(path, config.Serializers),
		readOnly:   config.ReadOnly,
	}
	if config.Versioning {
		r.git = git.NewClient(filepath.Dir(path), config.Logger)
		r.git.Identity = config.Identity
	}
	return r
}

// resolveRecordPath maps a directory (existing, or given without extension)
// to the record file inside it.
func resolveRecordPath(path string) string {
	if path == "" {
		return DefaultRecordName
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultRecordName)
	}
	if filepath.Ext(path) == "" {
		return filepath.Join(path, DefaultRecordName)
	}
	return path
}

// Dir returns the directory holding the record.
func (r *Repository) Dir() string {
	return filepath.Dir(r.Path)
}

// Initialize creates the record directory and, when versioning, the git repository.
func (r *Repository) Initialize(ctx context.Context) error {
	dir := r.Dir()

	if r.config.MustExist || r.readOnly {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("record directory does not exist: %s", dir)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("record directory is not a directory: %s", dir)
		}
	} else {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create record directory: %w", err)
		}
	}

	if r.git == nil || r.readOnly {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if !r.git.IsRepo(ctx) {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", dir)
		}
		if err := r.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
	}
	return nil
}

// Load reads and parses the record file.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.ErrRecordNotFound
		}
		r.recordLoadErr(err)
		return nil, fmt.Errorf("read record: %w", err)
	}

	notes, err := r.serializer.Parse(data)
	if err != nil {
		r.recordLoadErr(err)
		return nil, fmt.Errorf("parse record %s: %w", r.Path, err)
	}
	r.recordLoadErr(nil)
	return notes, nil
}

// Save overwrites the record file atomically and commits it when versioning.
//
// Workflow:
//  1. Serialize the whole collection.
//  2. Write to a temp file and rename it over the record.
//  3. (If versioning) 'git add' and 'git commit' with the change reason from ctx.
func (r *Repository) Save(ctx context.Context, notes []core.Note) error {
	if r.readOnly {
		return core.ErrReadOnly
	}

	data, err := r.serializer.Serialize(notes)
	if err != nil {
		return fmt.Errorf("serialize record: %w", err)
	}

	if r.git != nil {
		unlock, err := r.git.Lock(ctx)
		if err != nil {
			return err
		}
		defer unlock()
	}

	if err := replaceRecord(r.Path, data); err != nil {
		return err
	}

	now := time.Now()
	r.mu.Lock()
	r.lastWrite = &now
	r.mu.Unlock()

	if r.git == nil {
		return nil
	}

	reason, _ := ctx.Value(core.ChangeReasonKey).(string)
	if err := r.git.Add(ctx, filepath.Base(r.Path)); err != nil {
		return fmt.Errorf("failed to stage record: %w", err)
	}
	if err := r.git.Commit(ctx, git.RecordCommitMessage(reason)); err != nil {
		return fmt.Errorf("failed to commit record: %w", err)
	}
	return nil
}

// History returns the subjects of the last n record commits.
// It returns nil when versioning is disabled.
func (r *Repository) History(ctx context.Context, n int) ([]string, error) {
	if r.git == nil {
		return nil, nil
	}
	return r.git.Log(ctx, n)
}

func (r *Repository) recordLoadErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLoadErr = err
}

var _ core.Repository = (*Repository)(nil)
