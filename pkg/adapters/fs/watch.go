package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/murmur/pkg/core"
)

// watchDebounce coalesces the bursts of events produced by one atomic write.
const watchDebounce = 50 * time.Millisecond

// Watch emits a signal each time the record file changes on disk.
// The directory is watched rather than the file because atomic writes replace
// the file inode. The channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Dir()); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Dir(), err)
	}

	out := make(chan struct{}, 1)
	r.setWatching(+1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer r.setWatching(-1)
		defer close(out)
		defer watcher.Close()
		return r.watchLoop(ctx, watcher, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.reportWatchErr(fmt.Errorf("watcher panic: %w", err))
	}))

	return out, nil
}

// watchLoop is the only sender on out. The debounce timer only signals fire,
// which is never closed.
func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- struct{}) error {
	target := filepath.Clean(r.Path)
	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-fire:
			select {
			case out <- struct{}{}:
			default:
			}

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if r.config.Logger != nil {
				r.config.Logger.Debug("record changed", "op", event.Op.String())
			}
			if timer == nil {
				timer = time.AfterFunc(watchDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(watchDebounce)
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			r.reportWatchErr(wErr)
		}
	}
}

func (r *Repository) reportWatchErr(err error) {
	if r.config.Logger != nil {
		r.config.Logger.Error("fsnotify error", "error", err)
	}
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}

func (r *Repository) setWatching(delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers += delta
}

var _ core.Watchable = (*Repository)(nil)
