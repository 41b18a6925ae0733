package move

import (
	"github.com/nikbrunner/sidebar/internal/dnd"
	"github.com/nikbrunner/sidebar/internal/model"
)

// IsSelfOrDescendant reports whether id is ancestorID or lies below it.
func IsSelfOrDescendant(tree *Tree, id, ancestorID string) bool {
	if id == ancestorID {
		return true
	}
	for _, a := range tree.Ancestors(id) {
		if a == ancestorID {
			return true
		}
	}
	return false
}

// CanDrag reports whether a node may be picked up.
func CanDrag(node model.BookmarkNode) bool {
	return !model.IsProtected(node.ID)
}

// CanDropInto reports whether a node may receive children from a drop.
func CanDropInto(node model.BookmarkNode) bool {
	return node.IsFolder() && node.ID != model.RootID
}

// Roots drops every id that has an ancestor in ids, as well as ids missing
// from tree, and returns the rest in pre-order.
func Roots(tree *Tree, ids []string) []string {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var roots []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := tree.Node(id); !ok {
			continue
		}
		covered := false
		for _, a := range tree.Ancestors(id) {
			if set[a] {
				covered = true
				break
			}
		}
		if !covered {
			roots = append(roots, id)
		}
	}
	tree.SortPreOrder(roots)
	return roots
}

// PlanBookmarkMove plans dropping a bookmark or folder on target. It returns
// nil for a no-op, for drops onto the source or its descendants, for
// protected nodes and for anything missing from tree.
func PlanBookmarkMove(tree *Tree, sourceID, targetID string, pos dnd.Position) *BookmarkPlan {
	plan, _ := planBookmark(tree, sourceID, targetID, pos)
	return plan
}

func planBookmark(tree *Tree, sourceID, targetID string, pos dnd.Position) (*BookmarkPlan, verdict) {
	src, ok := tree.Node(sourceID)
	if !ok {
		return nil, missing
	}
	target, ok := tree.Node(targetID)
	if !ok {
		return nil, missing
	}
	if !CanDrag(src) {
		return nil, invalid
	}
	if sourceID == targetID && !pos.IsInside() {
		return nil, noop
	}
	if IsSelfOrDescendant(tree, targetID, sourceID) {
		return nil, invalid
	}

	var parent model.BookmarkNode
	var base int
	switch pos {
	case dnd.Before, dnd.After:
		parent, ok = tree.Node(target.ParentID)
		if !ok {
			return nil, invalid
		}
		base = target.Index
		if pos == dnd.After {
			base++
		}
	case dnd.Into:
		parent, base = target, len(target.Children)
	case dnd.IntoFirst:
		parent, base = target, 0
	}
	if !CanDropInto(parent) {
		return nil, invalid
	}

	index := base
	if src.ParentID == parent.ID {
		index = compensate(base, src.Index, 1)
		if index == src.Index {
			return nil, noop
		}
	}

	return &BookmarkPlan{
		ID:       src.ID,
		ParentID: parent.ID,
		Index:    index,
		Steps: []Step{{
			Op:         OpMoveBookmark,
			BookmarkID: src.ID,
			ParentID:   parent.ID,
			Index:      index,
		}},
	}, planned
}
