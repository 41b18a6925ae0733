package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/sidebar/internal/dnd"
	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/move"
)

// targetKeys returns the selected rows of the focused pane in display order,
// or the cursor row when it is not part of the selection.
func (a App) targetKeys() []string {
	row, ok := a.current()
	if !ok {
		return nil
	}
	if !a.selection.IsSelected(row.Key) {
		return []string{row.Key}
	}
	var keys []string
	for _, r := range a.rows(a.pane) {
		if a.selection.IsSelected(r.Key) {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// beginDrag picks up the target rows with the pointer resting on the
// cursor row.
func (a *App) beginDrag() tea.Cmd {
	keys := a.targetKeys()
	if len(keys) == 0 {
		return nil
	}
	row, _ := a.current()
	if a.pane == PaneBookmarks && len(keys) == 1 && model.IsProtected(keys[0]) {
		a.setMessage("%s cannot be moved", row.Title)
		return nil
	}

	a.drag = DragState{
		Pane:    a.pane,
		Keys:    keys,
		Pointer: float64(a.cursor[a.pane]) + 0.5,
		Target:  -1,
	}
	a.session.Begin(row.Key)
	a.mode = ModeDrag
	a.setMessage("Dragging %d item(s)", len(keys))
	return a.retarget()
}

func (a App) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.endDrag()
		a.setMessage("Drag cancelled")
		return a, nil

	case key.Matches(msg, a.keys.Drop):
		return a, a.drop()

	case key.Matches(msg, a.keys.Down):
		a.drag.Pointer += PointerStep
		return a, a.retarget()

	case key.Matches(msg, a.keys.Up):
		a.drag.Pointer -= PointerStep
		return a, a.retarget()

	case key.Matches(msg, a.keys.Quit):
		a.endDrag()
		return a, tea.Quit
	}
	return a, nil
}

// retarget resolves the row and zone under the pointer, records them in the
// session and arms the auto-expand timer over a collapsed container.
func (a *App) retarget() tea.Cmd {
	rows := a.rows(a.drag.Pane)
	if len(rows) == 0 {
		a.drag.Target = -1
		a.disarm()
		return nil
	}

	a.drag.Pointer = math.Max(0, math.Min(a.drag.Pointer, float64(len(rows))-PointerStep))
	idx := int(math.Floor(a.drag.Pointer))
	row := rows[idx]

	pos := dnd.ResolvePosition(dnd.Rect{Top: float64(idx), Height: 1}, a.drag.Pointer, row.IsContainer())
	pos = dnd.Refine(pos, row.IsContainer(), row.Expanded)

	a.drag.Target = idx
	a.drag.Position = pos
	a.cursor[a.drag.Pane] = idx
	a.session.UpdateTarget(row.Key, pos)

	if pos == dnd.Into && row.IsContainer() && !row.Expanded && !a.drag.IsDragged(row.Key) {
		return a.arm(row.Key)
	}
	a.disarm()
	return nil
}

// arm starts the auto-expand countdown for key and returns the command that
// waits for it. The session decides whether a countdown starts; the app only
// owns the channel that wakes the waiting command.
func (a *App) arm(key string) tea.Cmd {
	fired := make(chan struct{}, 1)
	if !a.session.Arm(key, func() { fired <- struct{}{} }) {
		return nil
	}
	a.releaseWaiter()
	cancel := make(chan struct{})
	a.drag.cancel = cancel

	return func() tea.Msg {
		select {
		case <-fired:
			return autoExpandMsg{key: key}
		case <-cancel:
			return nil
		}
	}
}

func (a *App) disarm() {
	a.session.Disarm()
	a.releaseWaiter()
}

// releaseWaiter ends the command waiting on a replaced or cancelled countdown.
func (a *App) releaseWaiter() {
	if a.drag.cancel != nil {
		close(a.drag.cancel)
		a.drag.cancel = nil
	}
}

func (a *App) endDrag() {
	a.disarm()
	a.session.Clear()
	a.drag = DragState{Target: -1}
	a.mode = ModeNormal
}

func (a App) handleAutoExpand(msg autoExpandMsg) (tea.Model, tea.Cmd) {
	if !a.session.Active() || msg.key == a.session.ActiveID() {
		return a, nil
	}
	// the timer only delivers to its own channel, which is dropped on disarm
	a.drag.cancel = nil

	target, ok := a.session.Target()
	if !ok || target.ID != msg.key {
		return a, nil
	}

	if a.drag.Pane == PaneBookmarks {
		a.expanded[msg.key] = true
		a.rebuild()
		return a, a.retarget()
	}

	groupID, ok := model.ParseGroupKey(msg.key)
	if !ok {
		return a, nil
	}
	tabs := a.tabs
	ctx, bookmarks := a.ctx, a.bookmarks
	return a, func() tea.Msg {
		err := tabs.UpdateGroup(ctx, groupID, host.GroupUpdate{Collapsed: host.Ptr(false)})
		if err != nil {
			return loadedMsg{err: err}
		}
		snap, err := loadSnapshot(ctx, bookmarks, tabs)
		return loadedMsg{snap: snap, err: err}
	}
}

// drop hands the drag to the mover and ends the session.
func (a *App) drop() tea.Cmd {
	if !a.session.Active() {
		a.endDrag()
		return nil
	}
	target, ok := a.session.Target()
	keys := append([]string(nil), a.drag.Keys...)
	pane := a.drag.Pane
	a.endDrag()
	a.selection.Reset()
	if !ok {
		a.setMessage("Nothing to drop on")
		return nil
	}

	mover := a.mover
	if pane == PaneBookmarks {
		return a.mutate(func(ctx context.Context) (string, error) {
			out, err := mover.DropBookmarks(ctx, keys, target.ID, target.Position)
			return describeDrop(out), err
		})
	}

	sel := tabSelection(keys)
	tabTarget, err := move.ParseTabTarget(target.ID)
	if err != nil {
		a.setError(err)
		return nil
	}
	return a.mutate(func(ctx context.Context) (string, error) {
		out, err := mover.DropTabs(ctx, sel, tabTarget, target.Position)
		return describeDrop(out), err
	})
}

func tabSelection(keys []string) move.TabSelection {
	var sel move.TabSelection
	for _, k := range keys {
		if id, ok := model.ParseGroupKey(k); ok {
			sel.GroupIDs = append(sel.GroupIDs, id)
			continue
		}
		if id, err := strconv.Atoi(k); err == nil {
			sel.TabIDs = append(sel.TabIDs, id)
		}
	}
	return sel
}

func describeDrop(out move.Outcome) string {
	switch {
	case out.Moved == 0 && out.Rejected > 0:
		return fmt.Sprintf("Cannot drop there (%s)", out)
	case out.Moved == 0:
		return "Nothing moved"
	case out.Moved == 1:
		return "Moved 1 item"
	default:
		return fmt.Sprintf("Moved %d items", out.Moved)
	}
}
