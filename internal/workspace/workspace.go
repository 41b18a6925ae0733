// Package workspace opens a saved space as a live store: the in-memory host
// behind timeout-bounded views, the association registry, the undo history
// and the refresh coordinator.
package workspace

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/sidebar/internal/assoc"
	"github.com/nikbrunner/sidebar/internal/config"
	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/host/memory"
	"github.com/nikbrunner/sidebar/internal/logging"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/move"
	"github.com/nikbrunner/sidebar/internal/storage"
	"github.com/nikbrunner/sidebar/internal/undo"
)

// Workspace is one opened space.
type Workspace struct {
	Name        string
	Host        *memory.Host
	Bookmarks   host.BookmarkStore
	Tabs        host.TabStore
	Coordinator *host.Coordinator
	Registry    *assoc.Registry
	History     *undo.History
	Mover       *move.Mover

	storage  storage.Storage
	watcher  *storage.Watcher
	watching atomic.Bool
}

// Open loads the space configured in cfg.
func Open(ctx context.Context, cfg *config.Config) (*Workspace, error) {
	log := logging.FromContext(ctx)

	st, err := storage.Open(cfg.Storage.Path, cfg.Space.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	space, err := st.Load()
	if err != nil {
		closeStorage(st)
		return nil, fmt.Errorf("failed to load space from %s: %w", st.Path(), err)
	}

	h := memory.New(memory.WithSpace(space))
	w := &Workspace{
		Name:        space.Name,
		Host:        h,
		Bookmarks:   host.WithBookmarkTimeout(h, cfg.Store.Timeout),
		Tabs:        host.WithTabTimeout(h, cfg.Store.Timeout),
		Coordinator: host.NewCoordinator(cfg.Refresh.Debounce),
		Registry:    assoc.New(space.Associations),
		History:     undo.NewHistory(cfg.Undo.HistorySize),
		storage:     st,
	}
	w.Registry.LinkPinned(space.Tabs)
	w.Mover = move.NewMover(w.Bookmarks, w.Tabs, w.Coordinator)
	w.watcher = storage.NewWatcher(st, w.reload)

	log.Info().
		Str("space", w.Name).
		Str("path", st.Path()).
		Int("tabs", len(space.Tabs)).
		Int("bookmarks", space.Bookmarks.Count()).
		Msg("Space opened")
	return w, nil
}

// Path returns the file the space is saved in.
func (w *Workspace) Path() string {
	return w.storage.Path()
}

// reload installs a space rewritten by another process. The host emits a
// reset event, which the coordinator turns into a refresh.
func (w *Workspace) reload(space *model.Space) {
	w.Registry.Replace(space.Associations)
	w.Registry.LinkPinned(space.Tabs)
	w.Host.Replace(space)
}

// Run forwards store events to the coordinator and watches the space file
// until ctx is done.
func (w *Workspace) Run(ctx context.Context) error {
	ctx = logging.WithComponent(ctx, "workspace")
	events, unsubscribe := w.Host.Subscribe()
	defer unsubscribe()

	w.watching.Store(true)
	defer w.watching.Store(false)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w.Coordinator.Pump(gctx, events)
		return nil
	})
	g.Go(func() error {
		return w.watcher.Run(gctx)
	})
	return g.Wait()
}

// Save writes the current state, associations included. Associations of
// tabs that are gone are dropped first.
func (w *Workspace) Save() error {
	space := w.Host.Space(w.Name)

	live := make([]int, len(space.Tabs))
	for i, t := range space.Tabs {
		live[i] = t.ID
	}
	w.Registry.Prune(live)
	space.Associations = w.Registry.Snapshot()

	if w.watching.Load() {
		w.watcher.SkipNext()
	}
	if err := w.storage.Save(space); err != nil {
		return fmt.Errorf("failed to save space to %s: %w", w.storage.Path(), err)
	}
	return nil
}

// Close releases the storage backend.
func (w *Workspace) Close() error {
	if c, ok := w.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func closeStorage(st storage.Storage) {
	if c, ok := st.(io.Closer); ok {
		_ = c.Close()
	}
}
