package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/murmur/pkg/adapters/fs"
	"github.com/aretw0/murmur/pkg/adapters/memory"
	"github.com/aretw0/murmur/pkg/adapters/sqlite"
	"github.com/aretw0/murmur/pkg/core"
)

// Init prepares the notes record and returns its repository.
// The 'uri' argument is adapter-specific: a file or directory for "fs", a
// database file or directory for "sqlite", ignored for "memory".
func Init(uri string, opts ...Option) (core.Repository, error) {
	return initRepository(context.Background(), uri, buildOptions(opts))
}

func initRepository(ctx context.Context, uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		if err := o.repository.Initialize(ctx); err != nil {
			return nil, err
		}
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case AdapterFS:
		repo = initFS(uri, o)
	case AdapterSQLite:
		repo, err = sqlite.Open(resolvePath(uri, o), o.logger)
	case AdapterMemory:
		repo = memory.NewRepository()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// resolvePath applies the dev sandbox rules.
func resolvePath(path string, o *options) string {
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypassSafety)
	resolved := ResolveStorePath(path, useTemp)

	if IsDevRun() {
		if bypassSafety {
			if o.readOnly {
				o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
			} else {
				o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
			}
		} else {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if useTemp && resolved != path {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

// initFS builds the filesystem adapter.
func initFS(path string, o *options) *fs.Repository {
	var serializers map[string]fs.Serializer
	if len(o.serializers) > 0 {
		serializers = fs.DefaultSerializers()
		for ext, s := range o.serializers {
			serializers[ext] = s
		}
	}

	return fs.NewRepository(fs.Config{
		Path:         resolvePath(path, o),
		MustExist:    o.mustExist || !o.autoInit,
		ReadOnly:     o.readOnly,
		Versioning:   o.versioning,
		AutoInit:     o.autoInit,
		Identity:     o.identity,
		Serializers:  serializers,
		Logger:       o.logger.With(slog.String("component", "fs")),
		ErrorHandler: o.errorHandler,
	})
}
