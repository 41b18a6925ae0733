// Package search fuzzy-matches tabs and bookmarks by title.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/sidebar/internal/model"
)

// Result represents a fuzzy search match. Exactly one of BookmarkID and
// TabID is meaningful, depending on Kind.
type Result struct {
	Kind           model.Kind
	BookmarkID     string
	TabID          int
	Title          string
	URL            string
	Path           string // folder path of a bookmark, e.g. "Bookmarks Bar/Dev"
	MatchedIndexes []int
	Score          int
}

// candidates implements fuzzy.Source over the text each result is matched on.
type candidates []Result

func (c candidates) String(i int) string {
	if c[i].Title != "" {
		return c[i].Title
	}
	return c[i].URL
}

func (c candidates) Len() int {
	return len(c)
}

func bookmarkCandidates(tree model.BookmarkNode) candidates {
	var out candidates
	var walk func(n model.BookmarkNode, path []string)
	walk = func(n model.BookmarkNode, path []string) {
		if n.ID != model.RootID && !model.IsProtected(n.ID) {
			out = append(out, Result{
				Kind:       n.Kind,
				BookmarkID: n.ID,
				Title:      n.Title,
				URL:        n.URL,
				Path:       strings.Join(path, "/"),
			})
		}
		if !n.IsFolder() {
			return
		}
		if n.ID != model.RootID {
			path = append(path[:len(path):len(path)], n.Title)
		}
		for _, child := range n.Children {
			walk(child, path)
		}
	}
	walk(tree, nil)
	return out
}

func tabCandidates(tabs []model.Tab) candidates {
	out := make(candidates, len(tabs))
	for i, t := range tabs {
		out[i] = Result{Kind: model.KindTab, TabID: t.ID, Title: t.Title, URL: t.URL}
	}
	return out
}

func find(query string, source candidates) []Result {
	if query == "" || len(source) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, source)

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = source[m.Index]
		results[i].MatchedIndexes = m.MatchedIndexes
		results[i].Score = m.Score
	}
	return results
}

// Bookmarks searches bookmarks and folders below the built-in roots.
// Returns results sorted by match score (best first).
func Bookmarks(tree model.BookmarkNode, query string) []Result {
	return find(query, bookmarkCandidates(tree))
}

// Tabs searches open tabs, falling back to the URL for untitled tabs.
func Tabs(tabs []model.Tab, query string) []Result {
	return find(query, tabCandidates(tabs))
}

// All searches tabs and bookmarks together so scores are comparable.
func All(tree model.BookmarkNode, tabs []model.Tab, query string) []Result {
	return find(query, append(tabCandidates(tabs), bookmarkCandidates(tree)...))
}
