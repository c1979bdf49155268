package platform

import (
	"context"

	"github.com/aretw0/murmur/pkg/adapters/daemon"
	"github.com/aretw0/murmur/pkg/board"
	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/dictation"
)

// New wires the record, the note store, the dictation provider and the
// capture controller into an opened Board.
//
//	b, err := murmur.New("~/notes", murmur.WithAdapter("sqlite"))
func New(uri string, opts ...Option) (*board.Board, error) {
	ctx := context.Background()
	o := buildOptions(opts)

	repo, err := initRepository(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	storeOpts := []core.StoreOption{core.WithStoreLogger(o.logger)}
	if o.clock != nil {
		storeOpts = append(storeOpts, core.WithClock(o.clock))
	}
	store := core.NewStore(repo, storeOpts...)

	provider := o.provider
	if provider == nil {
		provider = daemon.NewProvider(o.daemonSocket, o.logger)
	}

	b := board.New(board.Config{
		Store:     store,
		Dictation: dictation.NewExclusive(provider, o.logger),
		Sink:      o.sink,
		Logger:    o.logger,
		Locale:    o.locale,
	})
	b.Open(ctx)
	return b, nil
}
