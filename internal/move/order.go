package move

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/nikbrunner/sidebar/internal/model"
)

// TabOrder is a point-in-time snapshot of the tab strip. Planners read it
// instead of the live store, which may change between two calls.
type TabOrder struct {
	Tabs   []model.Tab
	Groups []model.TabGroup
}

// NewTabOrder copies tabs sorted by index.
func NewTabOrder(tabs []model.Tab, groups []model.TabGroup) TabOrder {
	sorted := append([]model.Tab(nil), tabs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })
	return TabOrder{Tabs: sorted, Groups: append([]model.TabGroup(nil), groups...)}
}

// Tab looks a tab up by id.
func (o TabOrder) Tab(id int) (model.Tab, bool) {
	for _, t := range o.Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tab{}, false
}

// Span returns the window range occupied by a group's members. A group with
// no members in the snapshot has no span.
func (o TabOrder) Span(groupID int) (model.GroupSpan, bool) {
	span := model.GroupSpan{First: -1}
	for _, t := range o.Tabs {
		if t.GroupID != groupID {
			continue
		}
		if span.First < 0 {
			span.First = t.Index
		}
		span.Count++
	}
	if span.Count == 0 || groupID == model.GroupNone {
		return model.GroupSpan{}, false
	}
	span.Group = model.TabGroup{ID: groupID}
	for _, g := range o.Groups {
		if g.ID == groupID {
			span.Group = g
			break
		}
	}
	return span, true
}

// Spans returns every group span in window order.
func (o TabOrder) Spans() []model.GroupSpan {
	var spans []model.GroupSpan
	seen := make(map[int]bool)
	for _, t := range o.Tabs {
		if !t.Grouped() || seen[t.GroupID] {
			continue
		}
		seen[t.GroupID] = true
		if span, ok := o.Span(t.GroupID); ok {
			spans = append(spans, span)
		}
	}
	return spans
}

// Members returns the ids of a group's tabs in window order.
func (o TabOrder) Members(groupID int) []int {
	var ids []int
	for _, t := range o.Tabs {
		if t.GroupID == groupID {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// TabTarget is a drop target in the tab list: a tab or a group header.
type TabTarget struct {
	Kind model.Kind // KindTab or KindGroup
	ID   int
}

// TabAt targets a tab.
func TabAt(id int) TabTarget { return TabTarget{Kind: model.KindTab, ID: id} }

// GroupAt targets a group header.
func GroupAt(id int) TabTarget { return TabTarget{Kind: model.KindGroup, ID: id} }

// Key returns the id the drag session uses for the target.
func (t TabTarget) Key() string {
	if t.Kind == model.KindGroup {
		return model.GroupKey(t.ID)
	}
	return strconv.Itoa(t.ID)
}

func (t TabTarget) String() string {
	return t.Key()
}

// ParseTabTarget reverses TabTarget.Key.
func ParseTabTarget(key string) (TabTarget, error) {
	if id, ok := model.ParseGroupKey(key); ok {
		return GroupAt(id), nil
	}
	id, err := strconv.Atoi(key)
	if err != nil {
		return TabTarget{}, fmt.Errorf("invalid tab target %q", key)
	}
	return TabAt(id), nil
}

// Tree is a point-in-time snapshot of the bookmark tree with parent links.
type Tree struct {
	root  model.BookmarkNode
	nodes map[string]*model.BookmarkNode
	order map[string]int
}

// NewTree indexes a deep copy of root.
func NewTree(root model.BookmarkNode) *Tree {
	t := &Tree{
		root:  root.Clone(),
		nodes: make(map[string]*model.BookmarkNode),
		order: make(map[string]int),
	}
	t.index(&t.root)
	return t
}

func (t *Tree) index(n *model.BookmarkNode) {
	t.order[n.ID] = len(t.order)
	t.nodes[n.ID] = n
	for i := range n.Children {
		n.Children[i].ParentID = n.ID
		n.Children[i].Index = i
		t.index(&n.Children[i])
	}
}

// Root returns the snapshot root.
func (t *Tree) Root() model.BookmarkNode {
	return t.root
}

// Node returns a node by id, children included.
func (t *Tree) Node(id string) (model.BookmarkNode, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return model.BookmarkNode{}, false
	}
	return *n, true
}

// Ancestors returns the ids above id, nearest first.
func (t *Tree) Ancestors(id string) []string {
	var ids []string
	n, ok := t.nodes[id]
	for ok && n.ID != t.root.ID {
		n, ok = t.nodes[n.ParentID]
		if ok {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// SortPreOrder sorts ids by their position in a pre-order walk. Unknown ids
// sort last.
func (t *Tree) SortPreOrder(ids []string) {
	rank := func(id string) int {
		if r, ok := t.order[id]; ok {
			return r
		}
		return len(t.order)
	}
	sort.SliceStable(ids, func(i, j int) bool { return rank(ids[i]) < rank(ids[j]) })
}
