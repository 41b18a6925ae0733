package dnd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nikbrunner/sidebar/internal/dnd"
)

func TestResolvePosition_Leaf(t *testing.T) {
	rect := dnd.Rect{Top: 100, Height: 40}

	tests := []struct {
		name string
		y    float64
		want dnd.Position
	}{
		{"top edge", 100, dnd.Before},
		{"just above midpoint", 119.9, dnd.Before},
		{"exactly midpoint", 120, dnd.After},
		{"bottom edge", 139.9, dnd.After},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dnd.ResolvePosition(rect, tt.y, false))
		})
	}
}

func TestResolvePosition_Container(t *testing.T) {
	rect := dnd.Rect{Top: 0, Height: 40}

	tests := []struct {
		name string
		y    float64
		want dnd.Position
	}{
		{"top", 0, dnd.Before},
		{"inside top quarter", 9.99, dnd.Before},
		{"exactly 25%", 10, dnd.Into},
		{"middle", 20, dnd.Into},
		{"just above 75%", 29.99, dnd.Into},
		{"exactly 75%", 30, dnd.After},
		{"bottom", 39.99, dnd.After},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dnd.ResolvePosition(rect, tt.y, true))
		})
	}
}

// order of zones from top to bottom
func zoneRank(p dnd.Position) int {
	switch p {
	case dnd.Before:
		return 0
	case dnd.Into:
		return 1
	default:
		return 2
	}
}

func TestResolvePosition_Monotonic(t *testing.T) {
	rect := dnd.Rect{Top: 37, Height: 23}

	for _, container := range []bool{false, true} {
		prev := -1
		for y := rect.Top; y < rect.Top+rect.Height; y += 0.25 {
			rank := zoneRank(dnd.ResolvePosition(rect, y, container))
			if rank < prev {
				t.Fatalf("container=%v: position went backwards at y=%v", container, y)
			}
			if !container && rank == 1 {
				t.Fatalf("leaf resolved to into at y=%v", y)
			}
			prev = rank
		}
		assert.Equal(t, 2, prev, "container=%v should end in the after zone", container)
	}
}

func TestRefine(t *testing.T) {
	tests := []struct {
		name      string
		pos       dnd.Position
		container bool
		expanded  bool
		want      dnd.Position
	}{
		{"after expanded container", dnd.After, true, true, dnd.IntoFirst},
		{"after collapsed container", dnd.After, true, false, dnd.After},
		{"after leaf", dnd.After, false, true, dnd.After},
		{"before expanded container", dnd.Before, true, true, dnd.Before},
		{"into expanded container", dnd.Into, true, true, dnd.Into},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dnd.Refine(tt.pos, tt.container, tt.expanded))
		})
	}
}

func TestParsePosition(t *testing.T) {
	for _, p := range []dnd.Position{dnd.Before, dnd.After, dnd.Into, dnd.IntoFirst} {
		got, err := dnd.ParsePosition(p.String())
		assert.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := dnd.ParsePosition("sideways")
	assert.Error(t, err)
}
