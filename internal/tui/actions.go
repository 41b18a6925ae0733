package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/sidebar/internal/assoc"
	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/undo"
)

// setExpanded opens or closes the container under the cursor. Folders are
// a view concern; group collapse is stored by the host. Collapsing a leaf
// moves the cursor to its parent row.
func (a *App) setExpanded(open bool) tea.Cmd {
	row, ok := a.current()
	if !ok {
		return nil
	}

	if !row.IsContainer() || (!open && !row.Expanded) {
		if !open {
			a.cursorToParent()
		}
		return nil
	}
	if row.Expanded == open {
		return nil
	}

	if row.Kind == model.KindFolder {
		a.expanded[row.Key] = open
		a.rebuild()
		return nil
	}

	tabs, groupID := a.tabs, row.GroupID
	return a.mutate(func(ctx context.Context) (string, error) {
		return "", tabs.UpdateGroup(ctx, groupID, host.GroupUpdate{Collapsed: host.Ptr(!open)})
	})
}

func (a *App) cursorToParent() {
	rows := a.rows(a.pane)
	c := a.cursor[a.pane]
	if c <= 0 || c >= len(rows) || rows[c].Depth == 0 {
		return
	}
	depth := rows[c].Depth
	for i := c - 1; i >= 0; i-- {
		if rows[i].Depth < depth {
			a.cursor[a.pane] = i
			return
		}
	}
}

// open toggles a container, or opens the bookmark under the cursor in a new
// tab associated with it.
func (a *App) open() tea.Cmd {
	row, ok := a.current()
	if !ok {
		return nil
	}
	if row.IsContainer() {
		return a.setExpanded(!row.Expanded)
	}
	if a.pane != PaneBookmarks || row.URL == "" {
		return nil
	}

	tabs, registry := a.tabs, a.registry
	return a.mutate(func(ctx context.Context) (string, error) {
		tab, err := tabs.CreateTab(ctx, host.CreateTab{URL: row.URL, Title: row.Title})
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", row.URL, err)
		}
		registry.Associate(tab.ID, assoc.BookmarkKey(row.Key))
		return fmt.Sprintf("Opened %q", row.Title), nil
	})
}

// deleteBookmarks deletes the selected bookmarks as one undoable action.
func (a *App) deleteBookmarks() tea.Cmd {
	if a.pane != PaneBookmarks {
		return nil
	}
	var ids []string
	for _, k := range a.targetKeys() {
		if !model.IsProtected(k) {
			ids = append(ids, k)
		}
	}
	if len(ids) == 0 {
		a.setMessage("Nothing to delete")
		return nil
	}
	a.selection.Reset()

	action := undo.NewDeleteBookmarks(undo.DeleteBookmarksParams{
		Store:           a.bookmarks,
		Tabs:            a.tabs,
		Coordinator:     a.coordinator,
		IDs:             ids,
		TabsForBookmark: a.registry.TabsForBookmark,
		Dissociate:      a.registry.Dissociate,
		Relink:          func(oldID, newID string) { a.registry.Rekey(oldID, newID) },
	})
	return a.run(action)
}

// closeTabs closes the selected tabs, whole groups included, as one undoable
// action.
func (a *App) closeTabs() tea.Cmd {
	if a.pane != PaneTabs {
		return nil
	}
	var ids []int
	for _, k := range a.targetKeys() {
		if groupID, ok := model.ParseGroupKey(k); ok {
			for _, t := range a.snap.tabs {
				if t.GroupID == groupID {
					ids = append(ids, t.ID)
				}
			}
			continue
		}
		if id, err := strconv.Atoi(k); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	a.selection.Reset()

	action := undo.NewCloseTabs(undo.CloseTabsParams{
		Store:       a.tabs,
		Coordinator: a.coordinator,
		IDs:         ids,
		Association: a.registry.Association,
		Reassociate: a.registry.Reassociate,
		Dissociate:  a.registry.Dissociate,
	})
	return a.run(action)
}

func (a *App) run(action undo.Action) tea.Cmd {
	history := a.history
	return a.mutate(func(ctx context.Context) (string, error) {
		err := history.Do(ctx, action)
		return action.Description(), err
	})
}

func (a *App) undo() tea.Cmd {
	history := a.history
	return a.mutate(func(ctx context.Context) (string, error) {
		action, err := history.Undo(ctx)
		if errors.Is(err, undo.ErrNothingToUndo) {
			return "Nothing to undo", nil
		}
		if err != nil {
			return "", err
		}
		return "Undid: " + action.Description(), nil
	})
}

func (a *App) yankURL() {
	row, ok := a.current()
	if !ok || row.URL == "" {
		a.setMessage("No URL to copy")
		return
	}
	if err := a.clipboard(row.URL); err != nil {
		a.setError(fmt.Errorf("failed to copy URL: %w", err))
		return
	}
	a.setMessage("Copied %s", row.URL)
}
