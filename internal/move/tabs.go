package move

import (
	"github.com/nikbrunner/sidebar/internal/dnd"
	"github.com/nikbrunner/sidebar/internal/model"
)

// PlanTabMove plans dropping one tab on target. It returns nil when the drop
// changes nothing, is invalid (into a tab) or names something missing from
// order.
func PlanTabMove(order TabOrder, sourceID int, target TabTarget, pos dnd.Position) *TabPlan {
	plan, _ := planTab(order, sourceID, target, pos)
	return plan
}

func planTab(order TabOrder, sourceID int, target TabTarget, pos dnd.Position) (*TabPlan, verdict) {
	src, ok := order.Tab(sourceID)
	if !ok {
		return nil, missing
	}

	var base, group int
	switch target.Kind {
	case model.KindTab:
		if pos.IsInside() {
			return nil, invalid
		}
		t, ok := order.Tab(target.ID)
		if !ok {
			return nil, missing
		}
		base, group = t.Index, t.GroupID
		if pos == dnd.After {
			base++
		}
	case model.KindGroup:
		span, ok := order.Span(target.ID)
		if !ok {
			return nil, missing
		}
		switch pos {
		case dnd.Before:
			base, group = span.First, model.GroupNone
		case dnd.After:
			base, group = span.Last()+1, model.GroupNone
		case dnd.Into:
			base, group = span.Last()+1, span.Group.ID
		case dnd.IntoFirst:
			base, group = span.First, span.Group.ID
		}
	default:
		return nil, invalid
	}

	index := compensate(base, src.Index, 1)
	regroup, changesGroup := groupStep(src.ID, src.GroupID, group)
	if index == src.Index && !changesGroup {
		return nil, noop
	}

	plan := &TabPlan{TabID: src.ID, Index: index, GroupID: group}
	if changesGroup {
		plan.Steps = append(plan.Steps, regroup)
	}
	plan.Steps = append(plan.Steps, Step{Op: OpMoveTab, TabID: src.ID, Index: index})
	return plan, planned
}

// PlanGroupMove plans dropping a whole group. A grouped tab as target stands
// for its group's boundary; groups never nest, so inside positions and
// targets within the dragged group yield nil.
func PlanGroupMove(order TabOrder, groupID int, target TabTarget, pos dnd.Position) *GroupPlan {
	plan, _ := planGroup(order, groupID, target, pos)
	return plan
}

func planGroup(order TabOrder, groupID int, target TabTarget, pos dnd.Position) (*GroupPlan, verdict) {
	src, ok := order.Span(groupID)
	if !ok {
		return nil, missing
	}
	if pos.IsInside() {
		return nil, invalid
	}

	var base int
	switch target.Kind {
	case model.KindTab:
		t, ok := order.Tab(target.ID)
		if !ok {
			return nil, missing
		}
		if t.GroupID == groupID {
			return nil, invalid
		}
		if t.Grouped() {
			span, _ := order.Span(t.GroupID)
			base = span.First
			if pos == dnd.After {
				base = span.Last() + 1
			}
		} else {
			base = t.Index
			if pos == dnd.After {
				base++
			}
		}
	case model.KindGroup:
		if target.ID == groupID {
			return nil, invalid
		}
		span, ok := order.Span(target.ID)
		if !ok {
			return nil, missing
		}
		base = span.First
		if pos == dnd.After {
			base = span.Last() + 1
		}
	default:
		return nil, invalid
	}

	index := compensate(base, src.First, src.Count)
	if index == src.First {
		return nil, noop
	}
	return &GroupPlan{
		GroupID: groupID,
		Index:   index,
		Steps:   []Step{{Op: OpMoveGroup, GroupID: groupID, Index: index}},
	}, planned
}
