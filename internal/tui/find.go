package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/move"
	"github.com/nikbrunner/sidebar/internal/search"
)

var (
	resultUp   = key.NewBinding(key.WithKeys("up", "ctrl+k", "ctrl+p"))
	resultDown = key.NewBinding(key.WithKeys("down", "ctrl+j", "ctrl+n"))
)

func (a *App) beginSearch() tea.Cmd {
	a.search.Reset()
	a.mode = ModeSearch
	return a.search.Input.Focus()
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.search.Input.Blur()
		a.mode = ModeNormal
		return a, nil

	case key.Matches(msg, a.keys.Drop):
		if result, ok := a.search.Current(); ok {
			a.jumpTo(result)
		}
		a.search.Input.Blur()
		a.mode = ModeNormal
		return a, nil

	case key.Matches(msg, resultUp):
		if a.search.Cursor > 0 {
			a.search.Cursor--
		}
		return a, nil

	case key.Matches(msg, resultDown):
		if a.search.Cursor < len(a.search.Results)-1 {
			a.search.Cursor++
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	a.search.Results = search.All(a.snap.tree, a.snap.tabs, a.search.Input.Value())
	a.search.Cursor = 0
	return a, cmd
}

// jumpTo focuses the pane holding result and puts the cursor on it,
// expanding its folders. A tab inside a collapsed group lands on the group
// header.
func (a *App) jumpTo(result search.Result) {
	a.selection.Reset()

	if result.Kind == model.KindTab {
		a.pane = PaneTabs
		if a.moveCursorTo(PaneTabs, strconv.Itoa(result.TabID)) {
			return
		}
		for _, t := range a.snap.tabs {
			if t.ID == result.TabID && t.Grouped() {
				a.moveCursorTo(PaneTabs, model.GroupKey(t.GroupID))
			}
		}
		return
	}

	a.pane = PaneBookmarks
	tree := move.NewTree(a.snap.tree)
	for _, id := range tree.Ancestors(result.BookmarkID) {
		a.expanded[id] = true
	}
	a.rebuild()
	a.moveCursorTo(PaneBookmarks, result.BookmarkID)
}

func (a *App) moveCursorTo(p Pane, key string) bool {
	for i, r := range a.rows(p) {
		if r.Key == key {
			a.cursor[p] = i
			return true
		}
	}
	return false
}
