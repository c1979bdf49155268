package murmur

import (
	"log/slog"
	"time"

	"github.com/aretw0/murmur/internal/platform"
	"github.com/aretw0/murmur/pkg/adapters/fs"
	"github.com/aretw0/murmur/pkg/board"
	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/dictation"
)

// --- Types ---

// Note is a public alias for the core note.
type Note = core.Note

// Board is a public alias for the event surface.
type Board = board.Board

// --- Configuration ---

// Option defines a functional option for configuring murmur.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
	AdapterMemory = platform.AdapterMemory
)

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithProvider injects the transcription provider.
func WithProvider(p dictation.Provider) Option {
	return platform.WithProvider(p)
}

// WithDaemonSocket sets the Unix socket of the speech daemon.
func WithDaemonSocket(path string) Option {
	return platform.WithDaemonSocket(path)
}

// WithLocale sets the dictation language.
func WithLocale(locale string) Option {
	return platform.WithLocale(locale)
}

// WithSink sets the receiver of outbound notifications.
func WithSink(sink core.Sink) Option {
	return platform.WithSink(sink)
}

// WithClock overrides the note timestamp source.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithVersioning commits every record overwrite to git.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithIdentity sets the git author used for record commits.
func WithIdentity(name, email string) Option {
	return platform.WithIdentity(name, email)
}

// WithAutoInit creates the store directory if missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithMustExist requires the store directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly refuses every write.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithSerializer registers a record codec for a file extension.
func WithSerializer(ext string, s fs.Serializer) Option {
	return platform.WithSerializer(ext, s)
}

// WithWatcherErrorHandler registers a callback for record watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New opens the notes store at path and returns the Board driving it.
func New(path string, opts ...Option) (*board.Board, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// --- Safety & Utils ---

// ResolveStorePath determines the actual store path based on safety rules.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindStoreRoot looks upwards for a directory holding a notes record.
func FindStoreRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// DefaultStorePath returns the per-user store directory.
func DefaultStorePath() string {
	return platform.DefaultStorePath()
}
