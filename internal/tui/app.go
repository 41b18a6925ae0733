// Package tui is the terminal sidebar: the tab strip and the bookmark tree
// side by side, with keyboard drag-and-drop, undoable delete and close, and
// search.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/sidebar/internal/assoc"
	"github.com/nikbrunner/sidebar/internal/dnd"
	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/logging"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/move"
	"github.com/nikbrunner/sidebar/internal/tui/layout"
	"github.com/nikbrunner/sidebar/internal/undo"
)

// App is the main bubbletea model for the sidebar.
type App struct {
	ctx         context.Context
	bookmarks   host.BookmarkStore
	tabs        host.TabStore
	coordinator *host.Coordinator
	mover       *move.Mover
	history     *undo.History
	registry    *assoc.Registry
	session     *dnd.Session
	clipboard   func(string) error

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	snap         snapshot
	tabRows      []Row
	bookmarkRows []Row
	expanded     map[string]bool // open folders; groups keep their own state

	mode      Mode
	pane      Pane
	cursor    map[Pane]int
	selection SelectionState
	drag      DragState
	search    SearchState

	refreshCh <-chan struct{}
	message   string
	isError   bool

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Context     context.Context // carries the logger; defaults to Background
	Bookmarks   host.BookmarkStore
	Tabs        host.TabStore
	Coordinator *host.Coordinator // optional
	Registry    *assoc.Registry   // optional, starts empty
	History     *undo.History     // optional

	AutoExpandDelay time.Duration
	SessionOptions  []dnd.SessionOption
	Clipboard       func(string) error // optional, uses the system clipboard

	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
}

// NewApp creates a new App and reads the initial state from the store.
func NewApp(params AppParams) App {
	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithComponent(ctx, "tui")

	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}
	layoutConfig := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutConfig = *params.LayoutConfig
	}
	registry := params.Registry
	if registry == nil {
		registry = assoc.New(nil)
	}
	history := params.History
	if history == nil {
		history = undo.NewHistory(undo.DefaultHistorySize)
	}
	clip := params.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}

	app := App{
		ctx:          ctx,
		bookmarks:    params.Bookmarks,
		tabs:         params.Tabs,
		coordinator:  params.Coordinator,
		mover:        move.NewMover(params.Bookmarks, params.Tabs, params.Coordinator),
		history:      history,
		registry:     registry,
		session:      dnd.NewSession(params.AutoExpandDelay, params.SessionOptions...),
		clipboard:    clip,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutConfig,
		expanded:     map[string]bool{model.BarID: true, model.OtherID: true},
		cursor:       map[Pane]int{PaneTabs: 0, PaneBookmarks: 0},
		selection:    NewSelectionState(),
		drag:         DragState{Target: -1},
		search:       NewSearchState(layoutConfig),
		width:        80,
		height:       24,
	}

	if params.Coordinator != nil {
		ch := make(chan struct{}, 1)
		params.Coordinator.Subscribe(func() {
			select {
			case ch <- struct{}{}:
			default:
			}
		})
		app.refreshCh = ch
	}

	snap, err := loadSnapshot(ctx, app.bookmarks, app.tabs)
	if err != nil {
		app.setError(fmt.Errorf("failed to load: %w", err))
	}
	app.apply(snap)
	return app
}

// WithDimensions returns a copy with a fixed terminal size.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the cursor position in the focused pane.
func (a App) Cursor() int {
	return a.cursor[a.pane]
}

// Pane returns the focused pane.
func (a App) Pane() Pane {
	return a.pane
}

// Mode returns the current mode.
func (a App) Mode() Mode {
	return a.mode
}

// Rows returns the rows of a pane.
func (a App) Rows(p Pane) []Row {
	return a.rows(p)
}

// Message returns the status line text.
func (a App) Message() string {
	return a.message
}

// Drag returns the drag state.
func (a App) Drag() DragState {
	return a.drag
}

// Registry returns the tab association registry.
func (a App) Registry() *assoc.Registry {
	return a.registry
}

func (a App) rows(p Pane) []Row {
	if p == PaneTabs {
		return a.tabRows
	}
	return a.bookmarkRows
}

func (a App) current() (Row, bool) {
	rows := a.rows(a.pane)
	c := a.cursor[a.pane]
	if c < 0 || c >= len(rows) {
		return Row{}, false
	}
	return rows[c], true
}

func (a *App) setMessage(format string, args ...any) {
	a.message = fmt.Sprintf(format, args...)
	a.isError = false
}

func (a *App) setError(err error) {
	logging.FromContext(a.ctx).Error().Err(err).Msg("Sidebar operation failed")
	a.message = err.Error()
	a.isError = true
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.refreshCh == nil {
		return nil
	}
	return waitForRefresh(a.refreshCh)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case refreshMsg:
		return a, tea.Batch(a.loadCmd(), waitForRefresh(a.refreshCh))

	case loadedMsg:
		if msg.err != nil {
			a.setError(fmt.Errorf("failed to refresh: %w", msg.err))
			return a, nil
		}
		a.apply(msg.snap)
		if a.mode == ModeDrag {
			return a, a.retarget()
		}
		return a, nil

	case doneMsg:
		if msg.snap != nil {
			a.apply(*msg.snap)
		}
		if msg.err != nil {
			a.setError(msg.err)
		} else if msg.message != "" {
			a.setMessage("%s", msg.message)
		}
		return a, nil

	case autoExpandMsg:
		return a.handleAutoExpand(msg)

	case tea.KeyMsg:
		switch a.mode {
		case ModeDrag:
			return a.handleDragKey(msg)
		case ModeSearch:
			return a.handleSearchKey(msg)
		case ModeHelp:
			a.mode = ModeNormal
			return a, nil
		}
		return a.handleNormalKey(msg)
	}

	return a, nil
}

func (a App) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor[a.pane] = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	rows := a.rows(a.pane)

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.session.Clear()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(rows) > 0 && a.cursor[a.pane] < len(rows)-1 {
			a.cursor[a.pane]++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor[a.pane] > 0 {
			a.cursor[a.pane]--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(rows) > 0 {
			a.cursor[a.pane] = len(rows) - 1
		}

	case key.Matches(msg, a.keys.SwitchPane):
		if a.pane == PaneTabs {
			a.pane = PaneBookmarks
		} else {
			a.pane = PaneTabs
		}
		a.selection.Reset()

	case key.Matches(msg, a.keys.Select):
		if row, ok := a.current(); ok {
			a.selection.Toggle(row.Key)
		}

	case key.Matches(msg, a.keys.Cancel):
		a.selection.Reset()
		a.message = ""

	case key.Matches(msg, a.keys.Right):
		return a, a.setExpanded(true)

	case key.Matches(msg, a.keys.Left):
		return a, a.setExpanded(false)

	case key.Matches(msg, a.keys.Drag):
		return a, a.beginDrag()

	case key.Matches(msg, a.keys.Open):
		return a, a.open()

	case key.Matches(msg, a.keys.Delete):
		return a, a.deleteBookmarks()

	case key.Matches(msg, a.keys.Close):
		return a, a.closeTabs()

	case key.Matches(msg, a.keys.Undo):
		return a, a.undo()

	case key.Matches(msg, a.keys.YankURL):
		a.yankURL()

	case key.Matches(msg, a.keys.Search):
		return a, a.beginSearch()

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
