package tui_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/sidebar/internal/assoc"
	"github.com/nikbrunner/sidebar/internal/dnd"
	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/host/memory"
	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/tui"
)

// testSpace is the tab strip "one [two three] four" and the tree
// Bar[Alpha, Folder[Bravo]], Other[].
func testSpace() *model.Space {
	space := model.NewSpace("test")
	space.Bookmarks.Children[0].Children = []model.BookmarkNode{
		{ID: "A", ParentID: model.BarID, Title: "Alpha", URL: "https://alpha.example", Kind: model.KindBookmark},
		{ID: "F", ParentID: model.BarID, Index: 1, Title: "Folder", Kind: model.KindFolder, Children: []model.BookmarkNode{
			{ID: "B", ParentID: "F", Title: "Bravo", URL: "https://bravo.example", Kind: model.KindBookmark},
		}},
	}
	space.Tabs = []model.Tab{
		{ID: 1, Index: 0, GroupID: model.GroupNone, Title: "one", URL: "https://one.example"},
		{ID: 2, Index: 1, GroupID: 1, Title: "two", URL: "https://two.example"},
		{ID: 3, Index: 2, GroupID: 1, Title: "three", URL: "https://three.example"},
		{ID: 4, Index: 3, GroupID: model.GroupNone, Title: "four", URL: "https://four.example"},
	}
	space.Groups = []model.TabGroup{{ID: 1, Title: "work", Color: model.ColorBlue}}
	return space
}

type fakeStopper struct{}

func (fakeStopper) Stop() bool { return true }

// fakeTimer captures the most recently armed auto-expand callback.
type fakeTimer struct {
	fire  func()
	armed int
}

func (f *fakeTimer) option() dnd.SessionOption {
	return dnd.WithTimerFunc(func(_ time.Duration, fn func()) dnd.Stopper {
		f.fire = fn
		f.armed++
		return fakeStopper{}
	})
}

func newTestApp(t *testing.T) (tui.App, *memory.Host, *fakeTimer) {
	t.Helper()
	h := memory.New(memory.WithSpace(testSpace()))
	timer := &fakeTimer{}
	app := tui.NewApp(tui.AppParams{
		Bookmarks:      h,
		Tabs:           h,
		SessionOptions: []dnd.SessionOption{timer.option()},
		Clipboard:      func(string) error { return nil },
	})
	return app, h, timer
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends keys and drops the commands they return.
func press(app tui.App, keys ...string) tui.App {
	for _, k := range keys {
		updated, _ := app.Update(keyMsg(k))
		app = updated.(tui.App)
	}
	return app
}

// pressRun sends one key and runs the command it returns to completion.
func pressRun(t *testing.T, app tui.App, k string) tui.App {
	t.Helper()
	updated, cmd := app.Update(keyMsg(k))
	return run(t, updated.(tui.App), cmd)
}

func run(t *testing.T, app tui.App, cmd tea.Cmd) tui.App {
	t.Helper()
	if cmd == nil {
		return app
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		if msg == nil {
			return app
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				app = run(t, app, c)
			}
			return app
		}
		updated, next := app.Update(msg)
		return run(t, updated.(tui.App), next)
	case <-time.After(time.Second):
		t.Fatal("command did not finish")
	}
	return app
}

func rowTitles(rows []tui.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}

func tabTitles(t *testing.T, h *memory.Host) []string {
	t.Helper()
	tabs, err := h.QueryTabs(context.Background(), host.TabFilter{})
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, len(tabs))
	for i, tab := range tabs {
		out[i] = tab.Title
	}
	return out
}

func childTitles(t *testing.T, h *memory.Host, parentID string) []string {
	t.Helper()
	children, err := h.GetChildren(context.Background(), parentID)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.Title
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApp_InitialRows(t *testing.T) {
	app, _, _ := newTestApp(t)

	if got := rowTitles(app.Rows(tui.PaneTabs)); !equal(got, []string{"one", "work", "two", "three", "four"}) {
		t.Errorf("unexpected tab rows: %v", got)
	}
	if got := rowTitles(app.Rows(tui.PaneBookmarks)); !equal(got, []string{"Bookmarks Bar", "Alpha", "Folder", "Other Bookmarks"}) {
		t.Errorf("unexpected bookmark rows: %v", got)
	}

	rows := app.Rows(tui.PaneTabs)
	if rows[1].Kind != model.KindGroup || rows[1].Count != 2 || !rows[1].Expanded {
		t.Errorf("expected an expanded group header with 2 members, got %+v", rows[1])
	}
	if rows[2].Depth != 1 || rows[4].Depth != 0 {
		t.Errorf("expected grouped tabs to be indented, got depths %d and %d", rows[2].Depth, rows[4].Depth)
	}
}

func TestApp_Navigation_JK_AtBounds(t *testing.T) {
	app, _, _ := newTestApp(t)

	app = press(app, "k")
	if app.Cursor() != 0 {
		t.Errorf("k at top should stay at 0, got %d", app.Cursor())
	}

	app = press(app, "j", "j", "j", "j", "j", "j")
	if app.Cursor() != 4 {
		t.Errorf("j at bottom should stay at 4, got %d", app.Cursor())
	}
}

func TestApp_Navigation_GG_G(t *testing.T) {
	app, _, _ := newTestApp(t)

	app = press(app, "G")
	if app.Cursor() != 4 {
		t.Errorf("G should go to last row, got %d", app.Cursor())
	}

	app = press(app, "g")
	if app.Cursor() != 4 {
		t.Errorf("single g should not move, got %d", app.Cursor())
	}

	app = press(app, "g")
	if app.Cursor() != 0 {
		t.Errorf("gg should go to top, got %d", app.Cursor())
	}
}

func TestApp_SwitchPaneKeepsCursors(t *testing.T) {
	app, _, _ := newTestApp(t)

	app = press(app, "j", "j", "tab")
	if app.Pane() != tui.PaneBookmarks || app.Cursor() != 0 {
		t.Fatalf("expected bookmarks pane at 0, got %s at %d", app.Pane(), app.Cursor())
	}

	app = press(app, "tab")
	if app.Pane() != tui.PaneTabs || app.Cursor() != 2 {
		t.Errorf("expected tabs pane back at 2, got %s at %d", app.Pane(), app.Cursor())
	}
}

func TestApp_FolderExpandCollapse(t *testing.T) {
	app, _, _ := newTestApp(t)

	app = press(app, "tab", "j", "j", "l")
	if got := rowTitles(app.Rows(tui.PaneBookmarks)); !equal(got, []string{"Bookmarks Bar", "Alpha", "Folder", "Bravo", "Other Bookmarks"}) {
		t.Fatalf("expected Folder to open, got %v", got)
	}
	if depth := app.Rows(tui.PaneBookmarks)[3].Depth; depth != 2 {
		t.Errorf("expected Bravo at depth 2, got %d", depth)
	}

	// h on a leaf jumps to its folder
	app = press(app, "j", "h")
	if app.Cursor() != 2 {
		t.Errorf("expected cursor on Folder, got %d", app.Cursor())
	}

	app = press(app, "h")
	if got := len(app.Rows(tui.PaneBookmarks)); got != 4 {
		t.Errorf("expected Folder to close, got %d rows", got)
	}
}

func TestApp_GroupCollapseIsStored(t *testing.T) {
	app, h, _ := newTestApp(t)

	app = press(app, "j")
	app = pressRun(t, app, "h")

	if got := rowTitles(app.Rows(tui.PaneTabs)); !equal(got, []string{"one", "work", "four"}) {
		t.Fatalf("expected members to be hidden, got %v", got)
	}
	groups, err := h.QueryGroups(context.Background(), host.GroupFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if !groups[0].Collapsed {
		t.Error("expected the group to be collapsed in the store")
	}

	app = pressRun(t, app, "l")
	if got := len(app.Rows(tui.PaneTabs)); got != 5 {
		t.Errorf("expected group to expand again, got %d rows", got)
	}
}

func TestApp_DragTabAfterLast(t *testing.T) {
	app, h, _ := newTestApp(t)

	app = press(app, "m")
	if app.Mode() != tui.ModeDrag {
		t.Fatalf("expected drag mode, got %v", app.Mode())
	}

	// 0.5 -> 4.5: the lower half of "four"
	for i := 0; i < 16; i++ {
		app = press(app, "j")
	}
	drag := app.Drag()
	if drag.Target != 4 || drag.Position != dnd.After {
		t.Fatalf("expected After row 4, got %s row %d", drag.Position, drag.Target)
	}

	app = pressRun(t, app, "enter")

	if got := tabTitles(t, h); !equal(got, []string{"two", "three", "four", "one"}) {
		t.Errorf("unexpected tab order: %v", got)
	}
	if app.Mode() != tui.ModeNormal || app.Drag().Active() {
		t.Error("expected the drag to end")
	}
	if app.Message() != "Moved 1 item" {
		t.Errorf("unexpected message %q", app.Message())
	}
}

func TestApp_DragIntoCollapsedFolderAutoExpands(t *testing.T) {
	app, h, timer := newTestApp(t)

	app = press(app, "tab", "j", "m") // drag Alpha, pointer 1.5
	app = press(app, "j", "j")        // 2.0: before Folder

	updated, cmd := app.Update(keyMsg("j")) // 2.25: into Folder
	app = updated.(tui.App)
	if cmd == nil || timer.fire == nil {
		t.Fatal("expected the auto-expand timer to be armed")
	}
	if drag := app.Drag(); drag.Position != dnd.Into || drag.Target != 2 {
		t.Fatalf("expected Into row 2, got %s row %d", drag.Position, drag.Target)
	}

	timer.fire()
	app = run(t, app, cmd)

	if got := rowTitles(app.Rows(tui.PaneBookmarks)); !equal(got, []string{"Bookmarks Bar", "Alpha", "Folder", "Bravo", "Other Bookmarks"}) {
		t.Fatalf("expected Folder to auto-expand, got %v", got)
	}

	app = pressRun(t, app, "enter")

	if got := childTitles(t, h, "F"); !equal(got, []string{"Bravo", "Alpha"}) {
		t.Errorf("unexpected Folder children: %v", got)
	}
	if got := childTitles(t, h, model.BarID); !equal(got, []string{"Folder"}) {
		t.Errorf("unexpected bar children: %v", got)
	}
}

func TestApp_DragRestingOnArmedFolderKeepsCountdown(t *testing.T) {
	app, _, timer := newTestApp(t)

	app = press(app, "tab", "j", "m", "j", "j")
	updated, first := app.Update(keyMsg("j")) // 2.25: into Folder
	app = updated.(tui.App)
	if first == nil || timer.armed != 1 {
		t.Fatalf("expected one armed countdown, got %d", timer.armed)
	}

	updated, second := app.Update(keyMsg("j")) // 2.5: still into Folder
	app = updated.(tui.App)
	if second != nil || timer.armed != 1 {
		t.Errorf("resting on the armed folder restarted the countdown (%d timers)", timer.armed)
	}

	app = press(app, "k", "k") // 2.0: before Folder disarms
	app = run(t, app, first)   // the waiting command is released

	if got := rowTitles(app.Rows(tui.PaneBookmarks)); !equal(got, []string{"Bookmarks Bar", "Alpha", "Folder", "Other Bookmarks"}) {
		t.Errorf("Folder must stay collapsed after disarm, got %v", got)
	}
	if app.Mode() != tui.ModeDrag {
		t.Error("expected the drag to continue")
	}
}

func TestApp_DragCancel(t *testing.T) {
	app, h, _ := newTestApp(t)

	app = press(app, "m", "j", "j", "j", "j", "esc")

	if app.Mode() != tui.ModeNormal || app.Drag().Active() {
		t.Error("expected the drag to be cancelled")
	}
	if got := tabTitles(t, h); !equal(got, []string{"one", "two", "three", "four"}) {
		t.Errorf("cancel should not move tabs: %v", got)
	}
}

func TestApp_DragProtectedFolderRefused(t *testing.T) {
	app, _, _ := newTestApp(t)

	app = press(app, "tab", "m")

	if app.Mode() != tui.ModeNormal {
		t.Error("expected the bookmarks bar not to be draggable")
	}
	if app.Message() != "Bookmarks Bar cannot be moved" {
		t.Errorf("unexpected message %q", app.Message())
	}
}

func TestApp_DeleteAndUndo(t *testing.T) {
	app, h, _ := newTestApp(t)

	app = press(app, "tab", "j", "j")
	app = pressRun(t, app, "d")

	if got := childTitles(t, h, model.BarID); !equal(got, []string{"Alpha"}) {
		t.Fatalf("expected Folder to be deleted, got %v", got)
	}
	if app.Message() != `Deleted "Folder"` {
		t.Errorf("unexpected message %q", app.Message())
	}

	app = pressRun(t, app, "u")

	bar, err := h.GetSubtree(context.Background(), model.BarID)
	if err != nil {
		t.Fatal(err)
	}
	if len(bar.Children) != 2 || bar.Children[1].Title != "Folder" || len(bar.Children[1].Children) != 1 {
		t.Fatalf("expected Folder[Bravo] to be restored, got %+v", bar.Children)
	}
	if app.Message() != `Undid: Deleted "Folder"` {
		t.Errorf("unexpected message %q", app.Message())
	}

	app = pressRun(t, app, "u")
	if app.Message() != "Nothing to undo" {
		t.Errorf("unexpected message %q", app.Message())
	}
}

func TestApp_DeleteSkipsProtected(t *testing.T) {
	app, h, _ := newTestApp(t)

	app = pressRun(t, press(app, "tab"), "d")

	if app.Message() != "Nothing to delete" {
		t.Errorf("unexpected message %q", app.Message())
	}
	if got := childTitles(t, h, model.BarID); len(got) != 2 {
		t.Errorf("expected the bar to be untouched, got %v", got)
	}
}

func TestApp_CloseSelectionAndUndo(t *testing.T) {
	app, h, _ := newTestApp(t)

	app = press(app, " ", "G", " ")
	app = pressRun(t, app, "x")

	if got := tabTitles(t, h); !equal(got, []string{"two", "three"}) {
		t.Fatalf("unexpected tabs after close: %v", got)
	}
	if app.Message() != "Closed 2 tabs" {
		t.Errorf("unexpected message %q", app.Message())
	}

	app = pressRun(t, app, "u")

	if got := tabTitles(t, h); !equal(got, []string{"one", "two", "three", "four"}) {
		t.Errorf("expected original order after undo, got %v", got)
	}
	if got := rowTitles(app.Rows(tui.PaneTabs)); !equal(got, []string{"one", "work", "two", "three", "four"}) {
		t.Errorf("unexpected rows after undo: %v", got)
	}
}

func TestApp_UndoKeepsTabLinkedToRestoredBookmark(t *testing.T) {
	app, h, _ := newTestApp(t)
	ctx := context.Background()
	app.Registry().Associate(1, assoc.BookmarkKey("A"))

	app = pressRun(t, app, "x")
	if got := app.Registry().TabsForBookmark("A"); len(got) != 0 {
		t.Fatalf("closed tab still associated: %v", got)
	}

	app = press(app, "tab", "j")
	app = pressRun(t, app, "d")
	app = pressRun(t, app, "u")
	app = pressRun(t, app, "u")

	bar, err := h.GetChildren(ctx, model.BarID)
	if err != nil {
		t.Fatal(err)
	}
	if len(bar) == 0 || bar[0].Title != "Alpha" || bar[0].ID == "A" {
		t.Fatalf("expected Alpha restored under a new id, got %+v", bar)
	}
	linked := app.Registry().TabsForBookmark(bar[0].ID)
	if len(linked) != 1 {
		t.Fatalf("expected the reopened tab linked to the restored bookmark, got %v", linked)
	}
	tabs, err := h.QueryTabs(ctx, host.TabFilter{IDs: linked})
	if err != nil {
		t.Fatal(err)
	}
	if len(tabs) != 1 || tabs[0].Title != "one" {
		t.Errorf("linked tab is not the reopened one: %+v", tabs)
	}
	if got := app.Registry().TabsForBookmark("A"); len(got) != 0 {
		t.Errorf("stale association left on the deleted id: %v", got)
	}
}

func TestApp_CloseGroupHeaderClosesMembers(t *testing.T) {
	app, h, _ := newTestApp(t)

	app = pressRun(t, press(app, "j"), "x")

	if got := tabTitles(t, h); !equal(got, []string{"one", "four"}) {
		t.Errorf("unexpected tabs: %v", got)
	}
	if got := len(app.Rows(tui.PaneTabs)); got != 2 {
		t.Errorf("expected the group header to disappear, got %d rows", got)
	}
}

func TestApp_OpenBookmarkAssociatesTab(t *testing.T) {
	app, h, _ := newTestApp(t)

	app = pressRun(t, press(app, "tab", "j"), "o")

	tabs, err := h.QueryTabs(context.Background(), host.TabFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tabs) != 5 || tabs[4].URL != "https://alpha.example" {
		t.Fatalf("expected Alpha to open in a new tab, got %+v", tabs)
	}
	if got := app.Registry().TabsForBookmark("A"); len(got) != 1 || got[0] != tabs[4].ID {
		t.Errorf("expected tab %d to be associated with A, got %v", tabs[4].ID, got)
	}
	rows := app.Rows(tui.PaneTabs)
	if !rows[len(rows)-1].Linked {
		t.Error("expected the new tab row to be marked as linked")
	}
}

func TestApp_YankURL(t *testing.T) {
	h := memory.New(memory.WithSpace(testSpace()))
	var copied string
	app := tui.NewApp(tui.AppParams{
		Bookmarks: h,
		Tabs:      h,
		Clipboard: func(s string) error {
			copied = s
			return nil
		},
	})

	app = press(app, "Y")

	if copied != "https://one.example" {
		t.Errorf("expected URL to be copied, got %q", copied)
	}
	if app.Message() != "Copied https://one.example" {
		t.Errorf("unexpected message %q", app.Message())
	}

	app = press(app, "j", "Y")
	if app.Message() != "No URL to copy" {
		t.Errorf("group header has no URL, got %q", app.Message())
	}
}

func TestApp_SearchJumpsToNestedBookmark(t *testing.T) {
	app, _, _ := newTestApp(t)

	app = press(app, "/")
	if app.Mode() != tui.ModeSearch {
		t.Fatalf("expected search mode, got %v", app.Mode())
	}

	app = press(app, "b", "r", "a", "v", "enter")

	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected normal mode after jump, got %v", app.Mode())
	}
	if app.Pane() != tui.PaneBookmarks {
		t.Fatalf("expected bookmarks pane, got %s", app.Pane())
	}
	rows := app.Rows(tui.PaneBookmarks)
	if rows[app.Cursor()].Key != "B" {
		t.Errorf("expected cursor on Bravo, got %+v", rows[app.Cursor()])
	}
}

func TestApp_SearchEscCancels(t *testing.T) {
	app, _, _ := newTestApp(t)

	app = press(app, "/", "t", "w", "esc")

	if app.Mode() != tui.ModeNormal || app.Pane() != tui.PaneTabs || app.Cursor() != 0 {
		t.Errorf("expected esc to leave everything in place, got mode=%v pane=%s cursor=%d",
			app.Mode(), app.Pane(), app.Cursor())
	}
}

func TestApp_QuitReturnsQuitCmd(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, cmd := app.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
