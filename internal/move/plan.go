package move

import (
	"fmt"

	"github.com/nikbrunner/sidebar/internal/model"
)

// Op is a primitive store operation.
type Op int

const (
	OpUngroup Op = iota
	OpGroup
	OpMoveTab
	OpMoveGroup
	OpMoveBookmark
)

func (o Op) String() string {
	switch o {
	case OpUngroup:
		return "ungroup"
	case OpGroup:
		return "group"
	case OpMoveTab:
		return "move-tab"
	case OpMoveGroup:
		return "move-group"
	case OpMoveBookmark:
		return "move-bookmark"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Step is one primitive operation of a plan. Index is always a final index
// in the order with the source already removed.
type Step struct {
	Op         Op
	TabID      int
	GroupID    int
	BookmarkID string
	ParentID   string
	Index      int
}

func (s Step) String() string {
	switch s.Op {
	case OpUngroup:
		return fmt.Sprintf("ungroup tab %d", s.TabID)
	case OpGroup:
		return fmt.Sprintf("group tab %d into %d", s.TabID, s.GroupID)
	case OpMoveTab:
		return fmt.Sprintf("move tab %d to %d", s.TabID, s.Index)
	case OpMoveGroup:
		return fmt.Sprintf("move group %d to %d", s.GroupID, s.Index)
	case OpMoveBookmark:
		return fmt.Sprintf("move bookmark %s to %s[%d]", s.BookmarkID, s.ParentID, s.Index)
	default:
		return s.Op.String()
	}
}

// TabPlan moves one tab. GroupID is the tab's group afterwards.
type TabPlan struct {
	TabID   int
	Index   int
	GroupID int
	Steps   []Step
}

// GroupPlan moves a whole group; Index is where its first member lands.
type GroupPlan struct {
	GroupID int
	Index   int
	Steps   []Step
}

// BookmarkPlan moves one bookmark or folder.
type BookmarkPlan struct {
	ID       string
	ParentID string
	Index    int
	Steps    []Step
}

// verdict says why a planner produced no plan.
type verdict int

const (
	planned verdict = iota
	noop
	invalid
	missing
)

// compensate converts an insertion index in the full order into the final
// index once the source (occupying width slots from sourceIndex) is taken
// out.
func compensate(base, sourceIndex, width int) int {
	if sourceIndex < base {
		return base - width
	}
	return base
}

func groupStep(tabID, from, to int) (Step, bool) {
	switch {
	case from == to:
		return Step{}, false
	case to == model.GroupNone:
		return Step{Op: OpUngroup, TabID: tabID}, true
	default:
		return Step{Op: OpGroup, TabID: tabID, GroupID: to}, true
	}
}
