package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/move"
)

// snapshot is one consistent read of the store.
type snapshot struct {
	tabs   []model.Tab
	groups []model.TabGroup
	tree   model.BookmarkNode
}

// loadSnapshot reads tabs, groups and the bookmark tree concurrently.
func loadSnapshot(ctx context.Context, bookmarks host.BookmarkStore, tabs host.TabStore) (snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.tabs, err = tabs.QueryTabs(gctx, host.TabFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		snap.groups, err = tabs.QueryGroups(gctx, host.GroupFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		snap.tree, err = bookmarks.GetSubtree(gctx, model.RootID)
		return err
	})

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// loadedMsg carries a fresh snapshot after an out-of-band change.
type loadedMsg struct {
	snap snapshot
	err  error
}

// doneMsg reports a finished store mutation together with the state after it.
type doneMsg struct {
	snap    *snapshot
	message string
	err     error
}

// refreshMsg is delivered when the coordinator schedules a refresh.
type refreshMsg struct{}

// autoExpandMsg is delivered when the pointer rested on a collapsed
// container long enough.
type autoExpandMsg struct {
	key string
}

func (a App) loadCmd() tea.Cmd {
	ctx, bookmarks, tabs := a.ctx, a.bookmarks, a.tabs
	return func() tea.Msg {
		snap, err := loadSnapshot(ctx, bookmarks, tabs)
		return loadedMsg{snap: snap, err: err}
	}
}

// mutate runs fn against the store off the UI goroutine and reloads.
func (a App) mutate(fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx, bookmarks, tabs := a.ctx, a.bookmarks, a.tabs
	return func() tea.Msg {
		text, err := fn(ctx)
		msg := doneMsg{message: text, err: err}
		snap, loadErr := loadSnapshot(ctx, bookmarks, tabs)
		if loadErr == nil {
			msg.snap = &snap
		} else if msg.err == nil {
			msg.err = loadErr
		}
		return msg
	}
}

// waitForRefresh blocks until the coordinator delivers a refresh.
func waitForRefresh(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

// apply installs a snapshot, rebuilds the rows and keeps the cursors in range.
func (a *App) apply(snap snapshot) {
	a.snap = snap

	live := make([]int, len(snap.tabs))
	for i, t := range snap.tabs {
		live[i] = t.ID
	}
	a.registry.Prune(live)

	a.rebuild()
}

func (a *App) rebuild() {
	a.tabRows = buildTabRows(a.snap, a.registry.Association)
	a.bookmarkRows = buildBookmarkRows(a.snap.tree, a.expanded)
	for _, p := range []Pane{PaneTabs, PaneBookmarks} {
		n := len(a.rows(p))
		if a.cursor[p] >= n {
			a.cursor[p] = n - 1
		}
		if a.cursor[p] < 0 {
			a.cursor[p] = 0
		}
	}
}

// buildTabRows lists tabs in window order with a header before each group.
// Members of collapsed groups are hidden.
func buildTabRows(snap snapshot, association func(int) (string, bool)) []Row {
	order := move.NewTabOrder(snap.tabs, snap.groups)
	var rows []Row
	for _, t := range order.Tabs {
		depth := 0
		if t.Grouped() {
			span, ok := order.Span(t.GroupID)
			if ok {
				if t.Index == span.First {
					rows = append(rows, groupRow(span))
				}
				if span.Group.Collapsed {
					continue
				}
				depth = 1
			}
		}
		_, linked := association(t.ID)
		rows = append(rows, tabRow(t, depth, linked))
	}
	return rows
}

// buildBookmarkRows flattens the tree below the root, descending only into
// expanded folders.
func buildBookmarkRows(tree model.BookmarkNode, expanded map[string]bool) []Row {
	var rows []Row
	var walk func(n model.BookmarkNode, depth int)
	walk = func(n model.BookmarkNode, depth int) {
		open := n.IsFolder() && expanded[n.ID]
		rows = append(rows, bookmarkRow(n, depth, open))
		if !open {
			return
		}
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	for _, child := range tree.Children {
		walk(child, 0)
	}
	return rows
}
