// Package exporter writes the bookmark tree as Netscape bookmark HTML.
package exporter

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders tree in Netscape bookmark HTML. The root's children
// are written at the top level; any other node is written as the single
// top-level entry.
func ExportHTML(tree model.BookmarkNode) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	if tree.ID == model.RootID {
		for _, child := range tree.Children {
			writeNode(&b, child, 1)
		}
	} else {
		writeNode(&b, tree, 1)
	}

	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeNode recursively writes a folder or a bookmark, children in order.
func writeNode(b *strings.Builder, n model.BookmarkNode, indent int) {
	prefix := strings.Repeat("    ", indent)

	if !n.IsFolder() {
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			prefix,
			html.EscapeString(n.URL),
			addDate(n.CreatedAt),
			html.EscapeString(n.Title),
		)
		return
	}

	attrs := fmt.Sprintf(" ADD_DATE=\"%d\"", addDate(n.CreatedAt))
	if n.ID == model.BarID {
		attrs += " PERSONAL_TOOLBAR_FOLDER=\"true\""
	}
	fmt.Fprintf(b, "%s<DT><H3%s>%s</H3>\n", prefix, attrs, html.EscapeString(n.Title))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)
	for _, child := range n.Children {
		writeNode(b, child, indent+1)
	}
	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}

func addDate(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// Export fetches the subtree at id from the store and writes it to w.
func Export(ctx context.Context, store host.BookmarkStore, id string, w io.Writer) error {
	tree, err := store.GetSubtree(ctx, id)
	if err != nil {
		return fmt.Errorf("export %s: %w", id, err)
	}
	_, err = io.WriteString(w, ExportHTML(tree))
	return err
}

// ExportFile writes the subtree at id to path, creating its directory.
func ExportFile(ctx context.Context, store host.BookmarkStore, id, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := Export(ctx, store, id, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
