package tui

import (
	"strconv"

	"github.com/nikbrunner/sidebar/internal/model"
)

// Pane identifies one of the two lists.
type Pane int

const (
	PaneTabs Pane = iota
	PaneBookmarks
)

func (p Pane) String() string {
	if p == PaneTabs {
		return "Tabs"
	}
	return "Bookmarks"
}

// Row is one rendered line of a pane: a tab, a group header, a bookmark or
// a folder.
type Row struct {
	Kind     model.Kind
	Key      string // tab id, group key or bookmark id; the drag session id
	TabID    int
	GroupID  int
	Title    string
	URL      string
	Depth    int
	Expanded bool
	Count    int // group members or folder children
	Color    model.Color
	Pinned   bool
	Linked   bool // tab is associated with a bookmark
}

// IsContainer returns true for group headers and folders.
func (r Row) IsContainer() bool {
	return r.Kind.IsContainer()
}

func tabRow(t model.Tab, depth int, linked bool) Row {
	return Row{
		Kind:    model.KindTab,
		Key:     strconv.Itoa(t.ID),
		TabID:   t.ID,
		GroupID: t.GroupID,
		Title:   t.DisplayTitle(),
		URL:     t.URL,
		Depth:   depth,
		Pinned:  t.Pinned,
		Linked:  linked,
	}
}

func groupRow(span model.GroupSpan) Row {
	title := span.Group.Title
	if title == "" {
		title = "Group"
	}
	return Row{
		Kind:     model.KindGroup,
		Key:      model.GroupKey(span.Group.ID),
		GroupID:  span.Group.ID,
		Title:    title,
		Expanded: !span.Group.Collapsed,
		Count:    span.Count,
		Color:    span.Group.Color,
	}
}

func bookmarkRow(n model.BookmarkNode, depth int, expanded bool) Row {
	return Row{
		Kind:     n.Kind,
		Key:      n.ID,
		GroupID:  model.GroupNone,
		Title:    n.Title,
		URL:      n.URL,
		Depth:    depth,
		Expanded: expanded,
		Count:    len(n.Children),
	}
}
