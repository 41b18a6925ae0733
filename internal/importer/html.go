// Package importer reads Netscape bookmark HTML, the format every browser
// exports, and creates the nodes through the bookmark store.
package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/logging"
	"github.com/nikbrunner/sidebar/internal/model"
)

// ToolbarAttr marks the folder browsers show as the bookmarks bar.
const ToolbarAttr = "personal_toolbar_folder"

type item struct {
	node     model.BookmarkNode
	children []*item
}

func (it *item) build(parentID string, index int) model.BookmarkNode {
	n := it.node
	n.ParentID = parentID
	n.Index = index
	for i, child := range it.children {
		n.Children = append(n.Children, child.build(n.ID, i))
	}
	return n
}

// Parse reads Netscape bookmark HTML and returns the top-level nodes in
// document order, folders with their children populated. The folder flagged
// as the browser toolbar is returned with model.BarID as its id.
func Parse(r io.Reader) ([]model.BookmarkNode, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	top := &item{}
	stack := []*item{top}
	var pending *item // folder waiting for its DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			parent := stack[len(stack)-1]
			switch strings.ToLower(n.Data) {
			case "h3":
				folder := &item{node: model.BookmarkNode{
					ID:        model.GenerateUUID(),
					Title:     getTextContent(n),
					Kind:      model.KindFolder,
					CreatedAt: parseDate(getAttr(n, "add_date")),
				}}
				if strings.EqualFold(getAttr(n, ToolbarAttr), "true") {
					folder.node.ID = model.BarID
				}
				parent.children = append(parent.children, folder)
				pending = folder
				return

			case "a":
				pending = nil
				href := getAttr(n, "href")
				if href == "" {
					return
				}
				title := getTextContent(n)
				if title == "" {
					title = href
				}
				parent.children = append(parent.children, &item{node: model.BookmarkNode{
					ID:        model.GenerateUUID(),
					Title:     title,
					URL:       href,
					Kind:      model.KindBookmark,
					CreatedAt: parseDate(getAttr(n, "add_date")),
				}})
				return

			case "dl":
				pushed := false
				if pending != nil {
					stack = append(stack, pending)
					pending = nil
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}
				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)

	nodes := make([]model.BookmarkNode, len(top.children))
	for i, child := range top.children {
		nodes[i] = child.build("", i)
	}
	return nodes, nil
}

func parseDate(s string) time.Time {
	if s != "" {
		if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(ts, 0)
		}
	}
	return time.Now()
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

// Result counts what an import created.
type Result struct {
	Folders   int
	Bookmarks int
	Failed    int
}

func (r Result) String() string {
	return fmt.Sprintf("%d folders, %d bookmarks, %d failed", r.Folders, r.Bookmarks, r.Failed)
}

// Apply creates nodes under parentID, appending after its existing
// children. The toolbar folder is merged into the bookmarks bar instead of
// being created. A node the store refuses is counted as failed together
// with its subtree; the rest of the import continues. coordinator may be
// nil.
func Apply(ctx context.Context, store host.BookmarkStore, coordinator *host.Coordinator, parentID string, nodes []model.BookmarkNode) (Result, error) {
	ctx = logging.WithComponent(ctx, "importer")
	log := logging.FromContext(ctx)

	parent, err := store.GetNode(ctx, parentID)
	if err != nil {
		return Result{}, fmt.Errorf("import target %s: %w", parentID, err)
	}
	if !parent.IsFolder() || parent.ID == model.RootID {
		return Result{}, fmt.Errorf("import target %s: %w", parentID, host.ErrInvalidParent)
	}

	var res Result
	var create func(parentID string, n model.BookmarkNode)
	create = func(parentID string, n model.BookmarkNode) {
		if n.ID == model.BarID && n.IsFolder() {
			for _, child := range n.Children {
				create(model.BarID, child)
			}
			return
		}

		created, err := store.Create(ctx, host.CreateBookmark{
			ParentID: parentID,
			Title:    n.Title,
			URL:      n.URL,
			Kind:     n.Kind,
		})
		if err != nil {
			res.Failed += n.Count()
			log.Warn().Err(err).Str("title", n.Title).Msg("Failed to import node")
			return
		}
		if !n.IsFolder() {
			res.Bookmarks++
			return
		}
		res.Folders++
		for _, child := range n.Children {
			create(created.ID, child)
		}
	}

	run := func() {
		for _, n := range nodes {
			if ctx.Err() != nil {
				return
			}
			create(parentID, n)
		}
	}
	if coordinator == nil {
		run()
	} else {
		coordinator.Batch(run)
	}

	log.Info().Str("parent", parentID).Stringer("result", res).Msg("Imported bookmarks")
	return res, ctx.Err()
}
