package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/sidebar/internal/dnd"
	"github.com/nikbrunner/sidebar/internal/search"
	"github.com/nikbrunner/sidebar/internal/tui/layout"
)

// Mode is what the keyboard currently drives.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDrag
	ModeSearch
	ModeHelp
)

// PointerStep is how far one key press moves the drag pointer, in rows. A
// quarter row reaches every zone of a container row.
const PointerStep = 0.25

// SelectionState holds the multi-selection of the focused pane.
type SelectionState struct {
	Selected map[string]bool // row keys that are selected
}

// NewSelectionState creates an empty SelectionState.
func NewSelectionState() SelectionState {
	return SelectionState{Selected: make(map[string]bool)}
}

// Reset clears all selection state.
func (s *SelectionState) Reset() {
	s.Selected = make(map[string]bool)
}

// Toggle adds or removes a row from selection.
func (s *SelectionState) Toggle(key string) {
	if s.Selected[key] {
		delete(s.Selected, key)
	} else {
		s.Selected[key] = true
	}
}

// IsSelected returns true if the row key is selected.
func (s *SelectionState) IsSelected(key string) bool {
	return s.Selected[key]
}

// Count returns the number of selected rows.
func (s *SelectionState) Count() int {
	return len(s.Selected)
}

// HasSelection returns true if any rows are selected.
func (s *SelectionState) HasSelection() bool {
	return len(s.Selected) > 0
}

// DragState is the keyboard rendition of a pointer drag. The pointer moves
// in PointerStep increments over the rows of one pane; row i spans
// [i, i+1).
type DragState struct {
	Pane     Pane
	Keys     []string // dragged row keys in display order
	Pointer  float64
	Target   int // row under the pointer, -1 when none
	Position dnd.Position

	// cancel releases the command waiting for the auto-expand timer.
	cancel chan struct{}
}

// Active returns true while keys are being dragged.
func (d DragState) Active() bool {
	return len(d.Keys) > 0
}

// IsDragged returns true if the row key is part of the drag.
func (d DragState) IsDragged(key string) bool {
	for _, k := range d.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// SearchState holds the search overlay.
type SearchState struct {
	Input   textinput.Model
	Results []search.Result
	Cursor  int
}

// NewSearchState creates a new SearchState with initialized input.
func NewSearchState(cfg layout.LayoutConfig) SearchState {
	input := textinput.New()
	input.Placeholder = "Search tabs and bookmarks..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.SearchWidth
	return SearchState{Input: input}
}

// Reset clears the search state for a new session.
func (s *SearchState) Reset() {
	s.Input.Reset()
	s.Results = nil
	s.Cursor = 0
}

// Current returns the highlighted result.
func (s *SearchState) Current() (search.Result, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Results) {
		return search.Result{}, false
	}
	return s.Results[s.Cursor], true
}
