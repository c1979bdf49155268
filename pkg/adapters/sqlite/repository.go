// Package sqlite stores the notes record as one key/value row in a SQLite
// database, the way a browser keeps it in local storage.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/murmur/pkg/core"
)

// RecordKey is the row holding the notes collection.
const RecordKey = "notes"

// DefaultDBName is the database created inside a directory path.
const DefaultDBName = "murmur.sqlite"

// Repository implements core.Repository on a SQLite "records" table.
type Repository struct {
	Path string

	db     *sql.DB
	logger *slog.Logger

	mu        sync.RWMutex
	lastWrite *time.Time
}

// Open opens (creating if needed) the database at path. A directory path
// holds DefaultDBName.
func Open(path string, logger *slog.Logger) (*Repository, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultDBName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{Path: path, db: db, logger: logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Initialize creates the records table.
func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

// Load reads the notes row.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, RecordKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrRecordNotFound
		}
		return nil, fmt.Errorf("query record: %w", err)
	}

	var notes []core.Note
	if err := json.Unmarshal([]byte(value), &notes); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return notes, nil
}

// Save overwrites the notes row with the whole collection.
func (r *Repository) Save(ctx context.Context, notes []core.Note) error {
	if notes == nil {
		notes = []core.Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO records (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, RecordKey, string(data))
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	now := time.Now()
	r.mu.Lock()
	r.lastWrite = &now
	r.mu.Unlock()

	if r.logger != nil {
		reason, _ := ctx.Value(core.ChangeReasonKey).(string)
		r.logger.Debug("record written", "path", r.Path, "notes", len(notes), "reason", reason)
	}
	return nil
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path      string     `json:"path"`
	LastWrite *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RepositoryState{Path: r.Path, LastWrite: r.lastWrite}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite"
}

var _ core.Repository = (*Repository)(nil)
