package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/murmur/pkg/adapters/fs"
	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/dictation"
	"github.com/aretw0/murmur/pkg/git"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// options holds the internal configuration for murmur.
type options struct {
	repository   core.Repository
	provider     dictation.Provider
	sink         core.Sink
	logger       *slog.Logger
	adapter      string
	locale       string
	daemonSocket string
	clock        func() time.Time

	versioning   bool
	autoInit     bool
	mustExist    bool
	readOnly     bool
	devSafety    bool
	forceTemp    bool
	identity     *git.Identity
	serializers  map[string]fs.Serializer
	errorHandler func(error)
}

// Option defines a functional option for configuring murmur.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:     AdapterFS,
		locale:      dictation.DefaultLocale,
		autoInit:    true,
		devSafety:   true,
		serializers: make(map[string]fs.Serializer),
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter.
// If provided, the adapter selected by WithAdapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite" or "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithProvider injects the transcription provider.
// By default the speech daemon at WithDaemonSocket is used.
func WithProvider(p dictation.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithDaemonSocket sets the Unix socket of the speech daemon.
func WithDaemonSocket(path string) Option {
	return func(o *options) {
		o.daemonSocket = path
	}
}

// WithLocale sets the dictation language. Defaults to pt-BR.
func WithLocale(locale string) Option {
	return func(o *options) {
		if locale != "" {
			o.locale = locale
		}
	}
}

// WithSink sets the receiver of outbound notifications.
func WithSink(sink core.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithClock overrides the note timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithVersioning commits every record overwrite to git (fs adapter only).
// Disabled by default.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = enabled
	}
}

// WithIdentity sets the git author used for record commits.
func WithIdentity(name, email string) Option {
	return func(o *options) {
		o.identity = &git.Identity{Name: name, Email: email}
	}
}

// WithAutoInit creates the store directory (and git repository when
// versioning) if missing. Enabled by default.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithMustExist requires the store directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly refuses every write with core.ErrReadOnly (fs adapter only).
// Read-only stores bypass the dev sandbox.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true) the store is moved to a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithSerializer registers a record codec for a file extension (fs adapter only).
func WithSerializer(ext string, s fs.Serializer) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}

// WithWatcherErrorHandler registers a callback for errors raised while
// watching the record file.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
