package storage

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nikbrunner/sidebar/internal/logging"
	"github.com/nikbrunner/sidebar/internal/model"
)

// DefaultSettle is how long a file must stay quiet before it is reloaded.
const DefaultSettle = 100 * time.Millisecond

// Watcher reloads a space when its file is changed by another process.
type Watcher struct {
	storage  Storage
	onChange func(*model.Space)
	settle   time.Duration

	mu       sync.Mutex
	skipNext bool
}

// NewWatcher creates a watcher for s. onChange receives every reloaded space.
func NewWatcher(s Storage, onChange func(*model.Space)) *Watcher {
	return &Watcher{storage: s, onChange: onChange, settle: DefaultSettle}
}

// SkipNext ignores the next change, which the caller is about to cause.
func (w *Watcher) SkipNext() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.skipNext = true
}

// Run watches until ctx is done. The directory is watched rather than the
// file so replacements by rename are seen.
func (w *Watcher) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	path := filepath.Clean(w.storage.Path())
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("space watcher")
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug().Str("op", ev.Op.String()).Str("file", ev.Name).Msg("space file changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.settle, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	log := logging.FromContext(ctx)

	w.mu.Lock()
	skip := w.skipNext
	w.skipNext = false
	w.mu.Unlock()
	if skip {
		log.Debug().Msg("skipping reload of own save")
		return
	}

	space, err := w.storage.Load()
	if err != nil {
		log.Warn().Err(err).Str("path", w.storage.Path()).Msg("reload space")
		return
	}
	w.onChange(space)
}
