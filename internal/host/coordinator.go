package host

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a refresh is delivered.
const DefaultDebounce = 50 * time.Millisecond

// Coordinator suppresses refreshes while a multi-step mutation is in flight.
// Store notifications arriving inside a batch only mark it dirty; once the
// outermost batch ends a single debounced refresh reaches the subscribers.
// Batches nest. Overlapping batches from unrelated callers are not kept
// apart: at most one bulk operation is expected at a time.
type Coordinator struct {
	mu         sync.Mutex
	depth      int
	dirty      bool
	debounce   time.Duration
	timer      *time.Timer
	generation uint64

	subs   map[int]func()
	nextID int
}

// NewCoordinator creates a coordinator. A negative debounce uses DefaultDebounce.
func NewCoordinator(debounce time.Duration) *Coordinator {
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	return &Coordinator{
		debounce: debounce,
		subs:     make(map[int]func()),
	}
}

// BeginBatch enters a batch.
func (c *Coordinator) BeginBatch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.depth++
	c.stopLocked()
}

// EndBatch leaves a batch. Leaving the outermost batch schedules the refresh
// that notifications received meanwhile asked for.
func (c *Coordinator) EndBatch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.depth > 0 {
		c.depth--
	}
	if c.depth == 0 && c.dirty {
		c.scheduleLocked()
	}
}

// Batch runs fn inside a batch.
func (c *Coordinator) Batch(fn func()) {
	c.BeginBatch()
	defer c.EndBatch()
	fn()
}

// InBatch returns true while at least one batch is open.
func (c *Coordinator) InBatch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.depth > 0
}

// Notify records a store change.
func (c *Coordinator) Notify(Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = true
	if c.depth > 0 {
		return
	}
	c.scheduleLocked()
}

// Subscribe registers fn to run on every delivered refresh.
func (c *Coordinator) Subscribe(fn func()) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Pump forwards events into Notify until ctx is done or events closes.
func (c *Coordinator) Pump(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.Notify(ev)
		}
	}
}

// scheduleLocked (re)starts the debounce timer.
func (c *Coordinator) scheduleLocked() {
	c.stopLocked()
	c.generation++
	gen := c.generation
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(gen) })
}

func (c *Coordinator) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.depth > 0 {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.dirty = false
	subs := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
