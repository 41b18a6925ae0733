// Package dnd holds the drag-and-drop vocabulary: drop positions, the
// geometry that picks one from a pointer location, and the drag session.
package dnd

import "fmt"

// Position is the relationship of a dragged entity to its hover target.
type Position int

const (
	Before Position = iota
	After
	// Into appends as the last child of the target container.
	Into
	// IntoFirst inserts as the first child of an already expanded container.
	IntoFirst
)

func (p Position) String() string {
	switch p {
	case Before:
		return "before"
	case After:
		return "after"
	case Into:
		return "into"
	case IntoFirst:
		return "intoFirst"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// ParsePosition parses the names used on the command line.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "before":
		return Before, nil
	case "after":
		return After, nil
	case "into":
		return Into, nil
	case "first", "intoFirst", "into-first":
		return IntoFirst, nil
	default:
		return 0, fmt.Errorf("unknown drop position %q", s)
	}
}

// IsInside reports whether the position places the dragged entity inside
// the target container.
func (p Position) IsInside() bool {
	return p == Into || p == IntoFirst
}
