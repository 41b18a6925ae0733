package tui

import (
	"fmt"
	"strings"
)

// Hint is one "key:desc" pair in the bottom bar.
type Hint struct {
	Key  string
	Desc string
}

var (
	dragHints   = []Hint{{"j/k", "aim"}, {"Enter", "drop"}, {"Esc", "cancel"}}
	searchHints = []Hint{{"↑/↓", "move"}, {"Enter", "jump"}, {"Esc", "cancel"}}
	helpHints   = []Hint{{"any", "close"}}

	tabPaneHints      = []Hint{{"x", "close"}, {"u", "undo"}}
	bookmarkPaneHints = []Hint{{"o", "open"}, {"d", "del"}, {"u", "undo"}}
)

func (a App) renderHints(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// contextualHints lists the keys that act in the current mode and pane.
func (a App) contextualHints() []Hint {
	switch a.mode {
	case ModeDrag:
		if _, armed := a.session.Armed(); armed {
			return append([]Hint{{"hold", "expand"}}, dragHints...)
		}
		return dragHints
	case ModeSearch:
		return searchHints
	case ModeHelp:
		return helpHints
	}

	hints := []Hint{{"j/k", "move"}, {"h/l", "fold"}, {"tab", "pane"}, {"m", "drag"}, {"/", "search"}}
	if a.selection.HasSelection() {
		hints = append(hints, Hint{"space", fmt.Sprintf("%d marked", a.selection.Count())})
	}
	if a.pane == PaneTabs {
		hints = append(hints, tabPaneHints...)
	} else {
		hints = append(hints, bookmarkPaneHints...)
	}
	return append(hints, Hint{"?", "help"}, Hint{"q", "quit"})
}
