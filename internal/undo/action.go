// Package undo wraps destructive operations as actions that snapshot what
// they destroy and can rebuild it later.
package undo

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikbrunner/sidebar/internal/host"
)

// ErrInvalidState is returned by Do or Undo called out of order.
var ErrInvalidState = errors.New("invalid action state")

// State is the lifecycle position of an action: Constructed, then Done, then
// Undone. An undone action is spent; build a new one to repeat it.
type State int

const (
	StateConstructed State = iota
	StateDone
	StateUndone
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateDone:
		return "done"
	case StateUndone:
		return "undone"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Summary reports the outcome of the last Do or Undo.
type Summary struct {
	Roots  int // top-level items the action covers
	Failed int // items the store refused in the last phase
}

// Action is an undoable destructive operation. Per-item store failures are
// logged and counted in Summary, never returned.
type Action interface {
	Do(ctx context.Context) error
	Undo(ctx context.Context) error
	Description() string
	State() State
	Summary() Summary
}

func transition(from *State, want, next State) error {
	if *from != want {
		return fmt.Errorf("%w: %s, want %s", ErrInvalidState, *from, want)
	}
	*from = next
	return nil
}

func batch(c *host.Coordinator, fn func()) {
	if c == nil {
		fn()
		return
	}
	c.Batch(fn)
}
