package undo_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/host/memory"
	"github.com/nikbrunner/sidebar/internal/model"
)

const none = model.GroupNone

func bm(title string) model.BookmarkNode {
	return model.BookmarkNode{ID: title, Title: title, URL: "https://" + strings.ToLower(title) + ".example", Kind: model.KindBookmark}
}

func folder(title string, children ...model.BookmarkNode) model.BookmarkNode {
	return model.BookmarkNode{ID: title, Title: title, Kind: model.KindFolder, Children: children}
}

func bookmarkHost(bar ...model.BookmarkNode) *memory.Host {
	space := model.NewSpace("test")
	space.Bookmarks.Children[0].Children = bar
	space.Bookmarks.Children[1].Children = []model.BookmarkNode{bm("E")}
	n := 0
	return memory.New(memory.WithSpace(space), memory.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}))
}

// shape renders a folder with titles, URLs and nesting but no ids.
func shape(t *testing.T, h *memory.Host, id string) string {
	t.Helper()
	node, err := h.GetSubtree(context.Background(), id)
	require.NoError(t, err)
	var render func(model.BookmarkNode) string
	render = func(n model.BookmarkNode) string {
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			if c.IsFolder() {
				parts[i] = c.Title + "[" + render(c) + "]"
			} else {
				parts[i] = c.Title + "<" + c.URL + ">"
			}
		}
		return strings.Join(parts, " ")
	}
	return render(node)
}

// outline is shape without URLs.
func outline(t *testing.T, h *memory.Host, id string) string {
	t.Helper()
	s := shape(t, h, id)
	for strings.Contains(s, "<") {
		start := strings.Index(s, "<")
		end := strings.Index(s, ">")
		s = s[:start] + s[end+1:]
	}
	return s
}

func tabHost(groups ...int) *memory.Host {
	space := model.NewSpace("test")
	seen := map[int]bool{}
	for i, g := range groups {
		space.Tabs = append(space.Tabs, model.Tab{
			ID:      i + 1,
			Index:   i,
			GroupID: g,
			URL:     fmt.Sprintf("https://t%d.example", i+1),
			Title:   fmt.Sprintf("t%d", i+1),
		})
		if g != none && !seen[g] {
			seen[g] = true
			space.Groups = append(space.Groups, model.TabGroup{ID: g, Title: fmt.Sprintf("g%d", g), Color: model.ColorPurple})
		}
	}
	return memory.New(memory.WithSpace(space))
}

// strip renders tabs as "t1 [t2 t3] t4", grouping by group id.
func strip(t *testing.T, h *memory.Host) string {
	t.Helper()
	tabs, err := h.QueryTabs(context.Background(), host.TabFilter{})
	require.NoError(t, err)
	out := ""
	prev := none
	for i, tab := range tabs {
		if tab.GroupID != prev && prev != none {
			out += "]"
		}
		if i > 0 {
			out += " "
		}
		if tab.GroupID != prev && tab.GroupID != none {
			out += "["
		}
		out += tab.Title
		prev = tab.GroupID
	}
	if prev != none {
		out += "]"
	}
	return out
}
