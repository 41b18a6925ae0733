package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/host/memory"
	"github.com/nikbrunner/sidebar/internal/importer"
	"github.com/nikbrunner/sidebar/internal/model"
)

func titles(nodes []model.BookmarkNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title
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

func TestParse_SingleBookmark(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	nodes, err := importer.Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}

	b := nodes[0]
	if b.Title != "Example Site" {
		t.Errorf("expected title 'Example Site', got %q", b.Title)
	}
	if b.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got %q", b.URL)
	}
	if b.Kind != model.KindBookmark {
		t.Errorf("expected a bookmark, got %s", b.Kind)
	}
	if b.ID == "" {
		t.Error("expected non-empty ID")
	}
	if !b.CreatedAt.Equal(time.Unix(1234567890, 0)) {
		t.Errorf("expected ADD_DATE to be parsed, got %v", b.CreatedAt)
	}
}

func TestParse_NestedFolders(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3 ADD_DATE="1234567890">React</H3>
        <DL><p>
            <DT><A HREF="https://react.dev" ADD_DATE="1234567890">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1234567890">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com" ADD_DATE="1234567890">Google</A>
</DL><p>`

	nodes, err := importer.Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := titles(nodes); !equal(got, []string{"Development", "Google"}) {
		t.Fatalf("unexpected top level: %v", got)
	}

	dev := nodes[0]
	if !dev.IsFolder() {
		t.Fatal("Development should be a folder")
	}
	if got := titles(dev.Children); !equal(got, []string{"React", "GitHub"}) {
		t.Fatalf("unexpected Development children: %v", got)
	}

	react := dev.Children[0]
	if react.ParentID != dev.ID || react.Index != 0 {
		t.Errorf("React should be child 0 of Development, got parent=%q index=%d", react.ParentID, react.Index)
	}
	if got := titles(react.Children); !equal(got, []string{"React Docs"}) {
		t.Errorf("unexpected React children: %v", got)
	}
	if dev.Children[1].Index != 1 {
		t.Errorf("GitHub should have index 1, got %d", dev.Children[1].Index)
	}
	if nodes[1].ParentID != "" {
		t.Errorf("top-level node should have no parent, got %q", nodes[1].ParentID)
	}
}

func TestParse_EmptyFolderKeepsSiblings(t *testing.T) {
	html := `<DL><p>
    <DT><H3>Empty</H3>
    <DT><A HREF="https://a.example">A</A>
    <DT><H3>Full</H3>
    <DL><p>
        <DT><A HREF="https://b.example">B</A>
    </DL><p>
</DL><p>`

	nodes, err := importer.Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := titles(nodes); !equal(got, []string{"Empty", "A", "Full"}) {
		t.Fatalf("unexpected top level: %v", got)
	}
	if len(nodes[0].Children) != 0 {
		t.Errorf("expected Empty to have no children, got %v", titles(nodes[0].Children))
	}
	if got := titles(nodes[2].Children); !equal(got, []string{"B"}) {
		t.Errorf("unexpected Full children: %v", got)
	}
}

func TestParse_ToolbarFolder(t *testing.T) {
	html := `<DL><p>
    <DT><H3 PERSONAL_TOOLBAR_FOLDER="true">Bookmarks bar</H3>
    <DL><p>
        <DT><A HREF="https://a.example">A</A>
    </DL><p>
</DL><p>`

	nodes, err := importer.Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(nodes) != 1 || nodes[0].ID != model.BarID {
		t.Fatalf("expected the toolbar folder to map to the bar, got %+v", nodes)
	}
	if nodes[0].Children[0].ParentID != model.BarID {
		t.Errorf("expected child parent %q, got %q", model.BarID, nodes[0].Children[0].ParentID)
	}
}

func TestParse_SkipsEmptyHrefAndFallsBackToURL(t *testing.T) {
	html := `<DL><p>
    <DT><A>No link</A>
    <DT><A HREF="https://untitled.example"></A>
</DL><p>`

	nodes, err := importer.Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].Title != "https://untitled.example" {
		t.Errorf("expected URL as title, got %q", nodes[0].Title)
	}
}

func TestApply_CreatesTree(t *testing.T) {
	html := `<DL><p>
    <DT><H3 PERSONAL_TOOLBAR_FOLDER="true">Bookmarks bar</H3>
    <DL><p>
        <DT><A HREF="https://bar.example">OnBar</A>
    </DL><p>
    <DT><H3>Dev</H3>
    <DL><p>
        <DT><A HREF="https://go.dev">Go</A>
        <DT><A HREF="https://pkg.go.dev">Packages</A>
    </DL><p>
    <DT><A HREF="https://loose.example">Loose</A>
</DL><p>`

	nodes, err := importer.Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	h := memory.New()
	coordinator := host.NewCoordinator(time.Millisecond)

	res, err := importer.Apply(ctx, h, coordinator, model.OtherID, nodes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Folders != 1 || res.Bookmarks != 4 || res.Failed != 0 {
		t.Errorf("unexpected result: %s", res)
	}

	bar, err := h.GetChildren(ctx, model.BarID)
	if err != nil {
		t.Fatal(err)
	}
	if got := titles(bar); !equal(got, []string{"OnBar"}) {
		t.Errorf("unexpected bar: %v", got)
	}

	other, err := h.GetSubtree(ctx, model.OtherID)
	if err != nil {
		t.Fatal(err)
	}
	if got := titles(other.Children); !equal(got, []string{"Dev", "Loose"}) {
		t.Fatalf("unexpected other bookmarks: %v", got)
	}
	if got := titles(other.Children[0].Children); !equal(got, []string{"Go", "Packages"}) {
		t.Errorf("unexpected Dev children: %v", got)
	}
}

func TestApply_RejectsInvalidTarget(t *testing.T) {
	ctx := context.Background()
	h := memory.New()
	nodes := []model.BookmarkNode{{Title: "A", URL: "https://a.example", Kind: model.KindBookmark}}

	if _, err := importer.Apply(ctx, h, nil, "missing", nodes); !errors.Is(err, host.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := importer.Apply(ctx, h, nil, model.RootID, nodes); !errors.Is(err, host.ErrInvalidParent) {
		t.Errorf("expected ErrInvalidParent, got %v", err)
	}
}
