package undo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/logging"
	"github.com/nikbrunner/sidebar/internal/model"
)

// DeleteBookmarksParams configures a DeleteBookmarks action.
type DeleteBookmarksParams struct {
	Store       host.BookmarkStore
	Tabs        host.TabStore // optional, closes associated tabs
	Coordinator *host.Coordinator
	IDs         []string
	// TabsForBookmark returns the tabs associated with a bookmark. Optional.
	TabsForBookmark func(bookmarkID string) []int
	// Dissociate forgets an associated tab closed by Do. Optional.
	Dissociate func(tabID int)
	// Relink is called by Undo for every restored node with its old and new
	// id, so associations follow the recreated bookmarks. Optional.
	Relink func(oldID, newID string)
}

// DeleteBookmarks deletes bookmarks and folder subtrees. Undo recreates them
// with fresh ids at their original places.
type DeleteBookmarks struct {
	params DeleteBookmarksParams

	mu          sync.Mutex
	state       State
	snapshots   []model.BookmarkNode
	description string
	summary     Summary
	restored    map[string]string
}

var _ Action = (*DeleteBookmarks)(nil)

// NewDeleteBookmarks creates the action; nothing happens until Do.
func NewDeleteBookmarks(params DeleteBookmarksParams) *DeleteBookmarks {
	return &DeleteBookmarks{params: params}
}

func (a *DeleteBookmarks) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *DeleteBookmarks) Description() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.description
}

func (a *DeleteBookmarks) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary
}

// Snapshots returns copies of the deleted subtrees.
func (a *DeleteBookmarks) Snapshots() []model.BookmarkNode {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.BookmarkNode, len(a.snapshots))
	for i, s := range a.snapshots {
		out[i] = s.Clone()
	}
	return out
}

// Restored maps the ids of deleted nodes to the ids Undo gave them.
func (a *DeleteBookmarks) Restored() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]string, len(a.restored))
	for k, v := range a.restored {
		out[k] = v
	}
	return out
}

// Do snapshots and deletes the selection. Nodes inside another selected
// folder are deleted with it; nodes already gone are skipped.
func (a *DeleteBookmarks) Do(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := transition(&a.state, StateConstructed, StateDone); err != nil {
		return err
	}

	ctx = logging.WithComponent(ctx, "undo")
	log := logging.FromContext(ctx)

	batch(a.params.Coordinator, func() {
		roots := a.dedup(ctx)
		for _, id := range roots {
			snap, err := a.params.Store.GetSubtree(ctx, id)
			if err != nil {
				log.Debug().Err(err).Str("id", id).Msg("bookmark vanished before snapshot")
				continue
			}
			a.snapshots = append(a.snapshots, snap.Clone())
		}
		a.description = deleteDescription(a.snapshots)
		a.summary = Summary{Roots: len(a.snapshots)}

		a.closeAssociatedTabs(ctx)

		for _, snap := range a.snapshots {
			var err error
			if snap.IsFolder() {
				err = a.params.Store.RemoveTree(ctx, snap.ID)
			} else {
				err = a.params.Store.Remove(ctx, snap.ID)
			}
			if err != nil {
				a.summary.Failed++
				log.Warn().Err(err).Str("id", snap.ID).Msg("delete bookmark")
			}
		}
	})

	log.Info().Str("description", a.description).Int("failed", a.summary.Failed).Msg("bookmarks deleted")
	return nil
}

// dedup keeps the ids that have no selected ancestor, in input order.
func (a *DeleteBookmarks) dedup(ctx context.Context) []string {
	log := logging.FromContext(ctx)
	selected := make(map[string]bool, len(a.params.IDs))
	for _, id := range a.params.IDs {
		selected[id] = true
	}

	var roots []string
	seen := make(map[string]bool)
	for _, id := range a.params.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		node, err := a.params.Store.GetNode(ctx, id)
		if err != nil {
			log.Debug().Err(err).Str("id", id).Msg("skip missing bookmark")
			continue
		}
		covered := false
		for parent := node.ParentID; parent != ""; {
			if selected[parent] {
				covered = true
				break
			}
			p, err := a.params.Store.GetNode(ctx, parent)
			if err != nil {
				break
			}
			parent = p.ParentID
		}
		if !covered {
			roots = append(roots, id)
		}
	}
	return roots
}

func (a *DeleteBookmarks) closeAssociatedTabs(ctx context.Context) {
	if a.params.Tabs == nil || a.params.TabsForBookmark == nil {
		return
	}
	log := logging.FromContext(ctx)

	var ids []int
	for _, snap := range a.snapshots {
		for _, id := range snap.IDs() {
			for _, tab := range a.params.TabsForBookmark(id) {
				if !slices.Contains(ids, tab) {
					ids = append(ids, tab)
				}
			}
		}
	}
	if len(ids) == 0 {
		return
	}

	live, err := a.params.Tabs.QueryTabs(ctx, host.TabFilter{IDs: ids})
	if err != nil {
		log.Warn().Err(err).Msg("query associated tabs")
		return
	}
	if len(live) == 0 {
		return
	}
	open := make([]int, len(live))
	for i, t := range live {
		open[i] = t.ID
	}
	if err := a.params.Tabs.CloseTabs(ctx, open); err != nil {
		log.Warn().Err(err).Ints("tabs", open).Msg("close associated tabs")
		return
	}
	if a.params.Dissociate != nil {
		for _, id := range open {
			a.params.Dissociate(id)
		}
	}
}

// Undo recreates the deleted subtrees. Snapshots are restored by parent and
// ascending index so each insertion index exists when it is used.
func (a *DeleteBookmarks) Undo(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := transition(&a.state, StateDone, StateUndone); err != nil {
		return err
	}

	ctx = logging.WithComponent(ctx, "undo")
	log := logging.FromContext(ctx)

	ordered := slices.Clone(a.snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].ParentID != ordered[j].ParentID {
			return ordered[i].ParentID < ordered[j].ParentID
		}
		return ordered[i].Index < ordered[j].Index
	})

	a.summary.Failed = 0
	a.restored = make(map[string]string)
	batch(a.params.Coordinator, func() {
		for _, snap := range ordered {
			a.restore(ctx, snap, snap.ParentID, snap.Index)
		}
	})
	if a.params.Relink != nil {
		for oldID, newID := range a.restored {
			a.params.Relink(oldID, newID)
		}
	}

	log.Info().Str("description", a.description).Int("failed", a.summary.Failed).Msg("bookmarks restored")
	return nil
}

// restore creates node under parentID at index, then its children at
// 0..n-1 under the new node. A failure abandons the node's subtree.
func (a *DeleteBookmarks) restore(ctx context.Context, node model.BookmarkNode, parentID string, index int) {
	created, err := a.params.Store.Create(ctx, host.CreateBookmark{
		ParentID: parentID,
		Title:    node.Title,
		URL:      node.URL,
		Kind:     node.Kind,
		Index:    host.Ptr(index),
	})
	if err != nil {
		a.summary.Failed++
		log := logging.FromContext(ctx)
		ev := log.Warn().Err(err).Str("id", node.ID).Str("parent", parentID).Int("index", index)
		if errors.Is(err, host.ErrIndexOutOfRange) {
			ev = ev.Bool("out_of_range", true)
		}
		ev.Msg("restore bookmark")
		return
	}
	a.restored[node.ID] = created.ID

	for i, child := range node.Children {
		a.restore(ctx, child, created.ID, i)
	}
}

func deleteDescription(snapshots []model.BookmarkNode) string {
	switch len(snapshots) {
	case 0:
		return "Deleted nothing"
	case 1:
		title := snapshots[0].Title
		if title == "" {
			title = "bookmark"
		}
		return fmt.Sprintf(`Deleted "%s"`, title)
	default:
		return fmt.Sprintf("Deleted %d bookmarks", len(snapshots))
	}
}
