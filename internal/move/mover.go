// Package move plans and executes drag-and-drop moves of tabs, tab groups and
// bookmarks. Planners are pure functions over a snapshot; the Mover runs
// their plans against the host store, one item at a time.
package move

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/rs/zerolog"

	"github.com/nikbrunner/sidebar/internal/dnd"
	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/logging"
	"github.com/nikbrunner/sidebar/internal/model"
)

// Outcome counts what happened to each dragged item.
type Outcome struct {
	Moved    int
	Skipped  int // already in place, or gone from the store
	Rejected int // invalid drop, never sent to the store
	Failed   int // the store refused a step
}

func (o Outcome) String() string {
	return fmt.Sprintf("moved %d, skipped %d, rejected %d, failed %d", o.Moved, o.Skipped, o.Rejected, o.Failed)
}

func (o *Outcome) count(v verdict) {
	switch v {
	case noop, missing:
		o.Skipped++
	case invalid:
		o.Rejected++
	}
}

// TabSelection is a multi-selection in the tab list.
type TabSelection struct {
	TabIDs   []int
	GroupIDs []int
}

// Mover executes move plans through the host store.
type Mover struct {
	bookmarks   host.BookmarkStore
	tabs        host.TabStore
	coordinator *host.Coordinator
}

// NewMover creates a Mover. coordinator may be nil.
func NewMover(bookmarks host.BookmarkStore, tabs host.TabStore, coordinator *host.Coordinator) *Mover {
	return &Mover{bookmarks: bookmarks, tabs: tabs, coordinator: coordinator}
}

func (m *Mover) batch(fn func()) {
	if m.coordinator == nil {
		fn()
		return
	}
	m.coordinator.Batch(fn)
}

func (m *Mover) tabOrder(ctx context.Context) (TabOrder, error) {
	tabs, err := m.tabs.QueryTabs(ctx, host.TabFilter{})
	if err != nil {
		return TabOrder{}, fmt.Errorf("query tabs: %w", err)
	}
	groups, err := m.tabs.QueryGroups(ctx, host.GroupFilter{})
	if err != nil {
		return TabOrder{}, fmt.Errorf("query groups: %w", err)
	}
	return NewTabOrder(tabs, groups), nil
}

func (m *Mover) tree(ctx context.Context) (*Tree, error) {
	root, err := m.bookmarks.GetSubtree(ctx, model.RootID)
	if err != nil {
		return nil, fmt.Errorf("load bookmark tree: %w", err)
	}
	return NewTree(root), nil
}

func (m *Mover) apply(ctx context.Context, steps []Step) error {
	for _, s := range steps {
		var err error
		switch s.Op {
		case OpUngroup:
			err = m.tabs.Ungroup(ctx, []int{s.TabID})
		case OpGroup:
			_, err = m.tabs.Group(ctx, []int{s.TabID}, host.Ptr(s.GroupID))
		case OpMoveTab:
			err = m.tabs.MoveTab(ctx, s.TabID, s.Index)
		case OpMoveGroup:
			err = m.tabs.MoveGroup(ctx, s.GroupID, s.Index)
		case OpMoveBookmark:
			err = m.bookmarks.Move(ctx, s.BookmarkID, host.Destination{ParentID: s.ParentID, Index: s.Index})
		default:
			err = fmt.Errorf("unknown op %v", s.Op)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
	}
	return nil
}

// DropTabs drops a selection on target. Items keep their relative window
// order: the first lands at target, every other one right after the one
// before it. Groups mixed with loose tabs are dragged as their member tabs;
// a selection of groups only moves whole groups.
func (m *Mover) DropTabs(ctx context.Context, sel TabSelection, target TabTarget, pos dnd.Position) (Outcome, error) {
	ctx = logging.WithComponent(ctx, "move")
	log := logging.FromContext(ctx)

	order, err := m.tabOrder(ctx)
	if err != nil {
		return Outcome{}, err
	}

	if len(sel.TabIDs) == 0 && len(sel.GroupIDs) > 0 {
		return m.dropGroups(ctx, order, sel.GroupIDs, target, pos)
	}

	ids, gone := expandSelection(order, sel)
	out := Outcome{Skipped: gone}
	if target.Kind == model.KindGroup && slices.Contains(sel.GroupIDs, target.ID) {
		out.Rejected = len(ids)
		log.Debug().Stringer("target", target).Msg("drop onto own selection rejected")
		return out, nil
	}

	m.batch(func() {
		anchor, anchorPos := target, pos
		for i, id := range ids {
			if i > 0 {
				if order, err = m.tabOrder(ctx); err != nil {
					out.Failed += len(ids) - i
					log.Error().Err(err).Msg("refresh tab order")
					return
				}
			}
			plan, v := planTab(order, id, anchor, anchorPos)
			if plan == nil {
				out.count(v)
				if v == noop {
					anchor, anchorPos = TabAt(id), dnd.After
				}
				continue
			}
			if err := m.apply(ctx, plan.Steps); err != nil {
				out.Failed++
				log.Warn().Err(err).Int("tab", id).Msg("tab move failed")
				continue
			}
			out.Moved++
			anchor, anchorPos = TabAt(id), dnd.After
		}
	})

	logOutcome(log, out, "tabs dropped")
	return out, nil
}

func (m *Mover) dropGroups(ctx context.Context, order TabOrder, groupIDs []int, target TabTarget, pos dnd.Position) (Outcome, error) {
	log := logging.FromContext(ctx)

	var out Outcome
	var spans []model.GroupSpan
	for _, id := range dedupInts(groupIDs) {
		span, ok := order.Span(id)
		if !ok {
			out.Skipped++
			continue
		}
		spans = append(spans, span)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].First < spans[j].First })

	for _, s := range spans {
		if target.Kind == model.KindGroup && target.ID == s.Group.ID {
			out.Rejected += len(spans)
			return out, nil
		}
		if t, ok := order.Tab(target.ID); ok && target.Kind == model.KindTab && t.GroupID == s.Group.ID {
			out.Rejected += len(spans)
			return out, nil
		}
	}

	m.batch(func() {
		anchor, anchorPos := target, pos
		for i, s := range spans {
			if i > 0 {
				var err error
				if order, err = m.tabOrder(ctx); err != nil {
					out.Failed += len(spans) - i
					log.Error().Err(err).Msg("refresh tab order")
					return
				}
			}
			plan, v := planGroup(order, s.Group.ID, anchor, anchorPos)
			if plan == nil {
				out.count(v)
				if v == noop {
					anchor, anchorPos = GroupAt(s.Group.ID), dnd.After
				}
				continue
			}
			if err := m.apply(ctx, plan.Steps); err != nil {
				out.Failed++
				log.Warn().Err(err).Int("group", s.Group.ID).Msg("group move failed")
				continue
			}
			out.Moved++
			anchor, anchorPos = GroupAt(s.Group.ID), dnd.After
		}
	})

	logOutcome(log, out, "groups dropped")
	return out, nil
}

// DropBookmarks drops bookmarks and folders on targetID. Nodes inside another
// selected folder travel with it; the rest keep their tree order.
func (m *Mover) DropBookmarks(ctx context.Context, ids []string, targetID string, pos dnd.Position) (Outcome, error) {
	ctx = logging.WithComponent(ctx, "move")
	log := logging.FromContext(ctx)

	tree, err := m.tree(ctx)
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	unique := dedupStrings(ids)
	for _, id := range unique {
		if _, ok := tree.Node(id); !ok {
			out.Skipped++
		}
	}
	roots := Roots(tree, unique)
	if _, ok := tree.Node(targetID); !ok {
		out.Skipped += len(roots)
		return out, nil
	}

	var valid []string
	for _, id := range roots {
		node, _ := tree.Node(id)
		if !CanDrag(node) || intoOwnSubtree(tree, id, targetID, pos) {
			out.Rejected++
			log.Debug().Str("id", id).Str("target", targetID).Msg("bookmark drop rejected")
			continue
		}
		valid = append(valid, id)
	}

	m.batch(func() {
		anchor, anchorPos := targetID, pos
		for i, id := range valid {
			if i > 0 {
				if tree, err = m.tree(ctx); err != nil {
					out.Failed += len(valid) - i
					log.Error().Err(err).Msg("refresh bookmark tree")
					return
				}
			}
			plan, v := planBookmark(tree, id, anchor, anchorPos)
			if plan == nil {
				out.count(v)
				if v == noop {
					anchor, anchorPos = id, dnd.After
				}
				continue
			}
			if err := m.apply(ctx, plan.Steps); err != nil {
				out.Failed++
				log.Warn().Err(err).Str("id", id).Msg("bookmark move failed")
				continue
			}
			out.Moved++
			anchor, anchorPos = id, dnd.After
		}
	})

	logOutcome(log, out, "bookmarks dropped")
	return out, nil
}

func logOutcome(log *zerolog.Logger, out Outcome, msg string) {
	log.Debug().
		Int("moved", out.Moved).
		Int("skipped", out.Skipped).
		Int("rejected", out.Rejected).
		Int("failed", out.Failed).
		Msg(msg)
}

// expandSelection turns groups into their member tabs and returns live tab
// ids in window order, plus the number of selected tabs already gone.
func expandSelection(order TabOrder, sel TabSelection) ([]int, int) {
	ids := append([]int(nil), sel.TabIDs...)
	for _, gid := range sel.GroupIDs {
		ids = append(ids, order.Members(gid)...)
	}
	var live []model.Tab
	gone := 0
	for _, id := range dedupInts(ids) {
		if t, ok := order.Tab(id); ok {
			live = append(live, t)
		} else {
			gone++
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].Index < live[j].Index })
	out := make([]int, len(live))
	for i, t := range live {
		out[i] = t.ID
	}
	return out, gone
}

// intoOwnSubtree reports whether dropping id on targetID would put it inside
// itself. Before or after itself is a no-op, not a rejection.
func intoOwnSubtree(tree *Tree, id, targetID string, pos dnd.Position) bool {
	if id == targetID {
		return pos.IsInside()
	}
	return IsSelfOrDescendant(tree, targetID, id)
}

func dedupInts(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	var out []int
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func dedupStrings(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
