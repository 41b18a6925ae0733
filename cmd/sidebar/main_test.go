package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/storage"
)

const bookmarksHTML = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
<DT><H3 PERSONAL_TOOLBAR_FOLDER="true">Bookmarks bar</H3>
<DL><p>
<DT><A HREF="https://go.dev">Go</A>
</DL><p>
<DT><H3>Dev</H3>
<DL><p>
<DT><A HREF="https://pkg.go.dev">Packages</A>
</DL><p>
</DL><p>
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func findByTitle(n model.BookmarkNode, title string) (model.BookmarkNode, bool) {
	if n.Title == title {
		return n, true
	}
	for _, c := range n.Children {
		if found, ok := findByTitle(c, title); ok {
			return found, true
		}
	}
	return model.BookmarkNode{}, false
}

func TestCommands_ImportMoveDelete(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.json")
	file := filepath.Join(dir, "bookmarks.html")
	require.NoError(t, os.WriteFile(file, []byte(bookmarksHTML), 0644))
	flags := []string{"--config", config, "--log-level", "error"}
	load := func() *model.Space {
		space, err := storage.NewJSONStorage(filepath.Join(dir, "space.json"), "default").Load()
		require.NoError(t, err)
		return space
	}

	out := execute(t, append(flags, "import", file)...)
	assert.Contains(t, out, "Imported")

	out = execute(t, append(flags, "bookmarks")...)
	assert.Contains(t, out, "Bookmarks Bar/")
	assert.Contains(t, out, "Dev/")
	assert.Contains(t, out, "https://pkg.go.dev")

	out = execute(t, append(flags, "search", "--list", "packages")...)
	assert.Contains(t, out, "Packages")

	space := load()
	goNode, ok := findByTitle(space.Bookmarks, "Go")
	require.True(t, ok)
	assert.Equal(t, model.BarID, goNode.ParentID)
	dev, ok := findByTitle(space.Bookmarks, "Dev")
	require.True(t, ok)

	out = execute(t, append(flags, "move", goNode.ID, "--target", dev.ID, "--position", "first")...)
	assert.Contains(t, out, "moved 1")

	dev, _ = findByTitle(load().Bookmarks, "Dev")
	require.Len(t, dev.Children, 2)
	assert.Equal(t, "Go", dev.Children[0].Title)
	assert.Equal(t, "Packages", dev.Children[1].Title)

	out = execute(t, append(flags, "delete", dev.ID)...)
	assert.Contains(t, out, `Deleted "Dev"`)

	_, ok = findByTitle(load().Bookmarks, "Dev")
	assert.False(t, ok)

	out = execute(t, append(flags, "tabs")...)
	assert.Contains(t, out, "No open tabs")
}

func TestParseTabSelection(t *testing.T) {
	sel, err := parseTabSelection([]string{"4", "group-2", "7"})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 7}, sel.TabIDs)
	assert.Equal(t, []int{2}, sel.GroupIDs)

	_, err = parseTabSelection([]string{"abc"})
	assert.Error(t, err)
}

func TestPrintTree(t *testing.T) {
	var out bytes.Buffer
	printTree(&out, model.BookmarkNode{
		ID: "f", Title: "Dev", Kind: model.KindFolder,
		Children: []model.BookmarkNode{{ID: "b", Title: "Go", URL: "https://go.dev", Kind: model.KindBookmark}},
	}, 0)

	assert.Equal(t, "Dev/  [f]\n  Go  https://go.dev  [b]\n", out.String())
}
