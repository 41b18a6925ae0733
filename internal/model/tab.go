package model

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupNone is the GroupID of a tab that belongs to no group.
const GroupNone = -1

// Tab is a browser tab. Index is window-global and dense.
type Tab struct {
	ID      int    `json:"id"`
	Index   int    `json:"index"`
	GroupID int    `json:"groupId"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Pinned  bool   `json:"pinned"`
}

// Grouped returns true if the tab is a member of a tab group.
func (t Tab) Grouped() bool {
	return t.GroupID != GroupNone
}

// DisplayTitle returns the title, falling back to the URL.
func (t Tab) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if t.URL != "" {
		return t.URL
	}
	return "New Tab"
}

func (t Tab) EntityKind() Kind { return KindTab }
func (t Tab) Key() string      { return strconv.Itoa(t.ID) }
func (t Tab) Position() int    { return t.Index }

func (t Tab) Owner() string {
	if !t.Grouped() {
		return ""
	}
	return GroupKey(t.GroupID)
}

// Color is one of the colors the host allows for tab groups.
type Color string

const (
	ColorGrey   Color = "grey"
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorPink   Color = "pink"
	ColorPurple Color = "purple"
	ColorCyan   Color = "cyan"
	ColorOrange Color = "orange"
)

// TabGroup is a titled, colored run of contiguous tabs.
type TabGroup struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Color     Color  `json:"color"`
	Collapsed bool   `json:"collapsed"`
}

const groupKeyPrefix = "group-"

// GroupKey returns the synthetic key used for a group wherever tab ids and
// group ids share one namespace, e.g. the active id of a drag session.
func GroupKey(groupID int) string {
	return groupKeyPrefix + strconv.Itoa(groupID)
}

// ParseGroupKey reverses GroupKey.
func ParseGroupKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, groupKeyPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

// GroupSpan is a group together with the window range its members occupy.
type GroupSpan struct {
	Group TabGroup
	First int // index of the first member
	Count int // number of members
}

// Last returns the index of the last member.
func (g GroupSpan) Last() int {
	return g.First + g.Count - 1
}

func (g GroupSpan) EntityKind() Kind { return KindGroup }
func (g GroupSpan) Key() string      { return GroupKey(g.Group.ID) }
func (g GroupSpan) Owner() string    { return "" }
func (g GroupSpan) Position() int    { return g.First }

func (g GroupSpan) String() string {
	return fmt.Sprintf("%s[%d..%d]", g.Key(), g.First, g.Last())
}
