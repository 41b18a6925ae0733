package dnd

// Rect is the vertical extent of a rendered drop target.
type Rect struct {
	Top    float64
	Height float64
}

// ResolvePosition classifies where pointerY falls on target. Leaves split at
// the midpoint; containers use a 25/50/25 before/into/after split. Zones are
// half-open and scanned top to bottom, so a pointer exactly on a boundary
// belongs to the lower zone.
func ResolvePosition(target Rect, pointerY float64, isContainer bool) Position {
	offset := pointerY - target.Top

	if !isContainer {
		if offset < target.Height/2 {
			return Before
		}
		return After
	}

	switch {
	case offset < target.Height/4:
		return Before
	case offset < target.Height*3/4:
		return Into
	default:
		return After
	}
}

// Refine applies the expanded-container rule: dropping "after" an expanded
// container is indistinguishable from dropping onto its first child, so it
// becomes IntoFirst. Collapsed containers and leaves are left alone.
func Refine(pos Position, isContainer, expanded bool) Position {
	if pos == After && isContainer && expanded {
		return IntoFirst
	}
	return pos
}
