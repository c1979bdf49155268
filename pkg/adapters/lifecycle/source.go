// Package lifecycle exposes murmur's outbound notifications as a
// lifecycle.Source so they can be consumed by lifecycle-managed loops.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/murmur/pkg/core"
)

type boardSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	accept func(core.Event) bool
}

// SourceOption configures the bridge.
type SourceOption func(*boardSource)

// WithTypes only forwards events of the given types.
func WithTypes(types ...core.EventType) SourceOption {
	return func(s *boardSource) {
		allowed := make(map[core.EventType]bool, len(types))
		for _, t := range types {
			allowed[t] = true
		}
		s.accept = func(e core.Event) bool { return allowed[e.Type] }
	}
}

// NewSource creates a lifecycle.Source that emits the events published on a
// core.ChannelSink (or any core.Event channel).
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &boardSource{
		events: events,
		out:    make(chan lifecycle.Event),
		accept: func(core.Event) bool { return true },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *boardSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the input channel is closed,
// then closes Events().
func (s *boardSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.accept(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
