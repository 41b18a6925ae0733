package undo

import (
	"context"
	"errors"
	"sync"
)

// DefaultHistorySize is how many done actions History keeps.
const DefaultHistorySize = 50

// ErrNothingToUndo is returned by History.Undo on an empty history.
var ErrNothingToUndo = errors.New("nothing to undo")

// History is a bounded stack of done actions. There is no redo: an undone
// action is dropped.
type History struct {
	mu      sync.Mutex
	actions []Action
	maxSize int
}

// NewHistory creates a history holding at most maxSize actions. A
// non-positive size uses DefaultHistorySize.
func NewHistory(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &History{maxSize: maxSize}
}

// Do runs a and records it.
func (h *History) Do(ctx context.Context, a Action) error {
	if err := a.Do(ctx); err != nil {
		return err
	}
	h.Push(a)
	return nil
}

// Push records an action that is already done. Anything else is ignored.
func (h *History) Push(a Action) {
	if a.State() != StateDone {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = append(h.actions, a)
	if len(h.actions) > h.maxSize {
		h.actions = h.actions[len(h.actions)-h.maxSize:]
	}
}

// Peek returns the action Undo would revert.
func (h *History) Peek() (Action, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.actions) == 0 {
		return nil, false
	}
	return h.actions[len(h.actions)-1], true
}

// Undo reverts the most recent action and drops it.
func (h *History) Undo(ctx context.Context) (Action, error) {
	h.mu.Lock()
	if len(h.actions) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	a := h.actions[len(h.actions)-1]
	h.actions = h.actions[:len(h.actions)-1]
	h.mu.Unlock()

	if err := a.Undo(ctx); err != nil {
		return a, err
	}
	return a, nil
}

// Len returns the number of undoable actions.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.actions)
}

// Clear forgets every action.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = nil
}
