// Package watch drives recompile-on-change for the CLI. It wraps an
// fsnotify watcher and invokes a callback for every settled write to a
// watched DSL source file. The compiler core stays untouched; this is
// plumbing around it.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay lets editors finish their write-rename dance before a
// change is reported.
const debounceDelay = 100 * time.Millisecond

// Watcher reports settled file changes through a callback.
type Watcher struct {
	w   *fsnotify.Watcher
	log *zap.Logger
}

// New creates a watcher. The logger must be non-nil.
func New(log *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{w: w, log: log}, nil
}

// Add registers a path to watch.
func (w *Watcher) Add(path string) error {
	return w.w.Add(path)
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.w.Close()
}

// Run blocks until the context is canceled, invoking onChange with the
// changed path after each debounced write or create event.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	var (
		timer   *time.Timer
		pending string
		fire    <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.log.Debug("file event", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			pending = ev.Name
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceDelay)
			}

		case <-fire:
			timer = nil
			fire = nil
			onChange(pending)

		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}
