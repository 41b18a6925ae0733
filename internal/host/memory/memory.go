// Package memory is an in-process host store. It keeps indices dense, emits
// change events and destroys groups that lose their last member, which is
// everything the sidebar relies on from a real browser.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/model"
)

const subscriberBuffer = 256

var groupColors = []model.Color{
	model.ColorGrey, model.ColorBlue, model.ColorRed, model.ColorYellow, model.ColorGreen,
	model.ColorPink, model.ColorPurple, model.ColorCyan, model.ColorOrange,
}

type node struct {
	data     model.BookmarkNode // Children and Index are derived, never stored
	parent   *node
	children []*node
}

func (n *node) index() int {
	if n.parent == nil {
		return 0
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Host is a thread-safe in-memory implementation of host.Store.
type Host struct {
	mu sync.Mutex

	root  *node
	nodes map[string]*node

	tabs        []model.Tab
	groups      map[int]*model.TabGroup
	nextTabID   int
	nextGroupID int

	subs    map[int]chan host.Event
	nextSub int

	newID func() string
	now   func() time.Time
}

var _ host.Store = (*Host)(nil)

// Option configures a Host.
type Option func(*Host)

// WithIDGenerator sets the bookmark id generator (default model.GenerateUUID).
func WithIDGenerator(fn func() string) Option {
	return func(h *Host) { h.newID = fn }
}

// WithSpace seeds the host with a saved space.
func WithSpace(space *model.Space) Option {
	return func(h *Host) { h.load(space) }
}

// New creates a host holding an empty tree and no tabs.
func New(opts ...Option) *Host {
	h := &Host{
		subs:  make(map[int]chan host.Event),
		newID: model.GenerateUUID,
		now:   time.Now,
	}
	h.load(model.NewSpace(""))
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) load(space *model.Space) {
	space.Normalize()

	h.nodes = make(map[string]*node)
	h.root = h.buildNode(space.Bookmarks, nil)

	h.tabs = append([]model.Tab(nil), space.Tabs...)
	h.groups = make(map[int]*model.TabGroup)
	h.nextTabID, h.nextGroupID = 1, 1
	for _, g := range space.Groups {
		g := g
		h.groups[g.ID] = &g
		if g.ID >= h.nextGroupID {
			h.nextGroupID = g.ID + 1
		}
	}
	for _, t := range h.tabs {
		if t.ID >= h.nextTabID {
			h.nextTabID = t.ID + 1
		}
	}
	h.dropEmptyGroupsLocked()
}

func (h *Host) buildNode(data model.BookmarkNode, parent *node) *node {
	n := &node{parent: parent}
	n.data = data
	n.data.Children = nil
	if parent != nil {
		n.data.ParentID = parent.data.ID
	}
	h.nodes[data.ID] = n
	for _, child := range data.Children {
		n.children = append(n.children, h.buildNode(child, n))
	}
	return n
}

// Replace swaps the whole state for space, as when another process rewrote
// the saved space, and emits EventReset.
func (h *Host) Replace(space *model.Space) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.load(space)
	h.emitLocked(host.EventReset, "")
}

// Space exports the current state. Associations are not the host's concern
// and are left empty.
func (h *Host) Space(name string) *model.Space {
	h.mu.Lock()
	defer h.mu.Unlock()
	space := model.NewSpace(name)
	space.Bookmarks = h.subtreeLocked(h.root)
	space.Tabs = append([]model.Tab(nil), h.tabs...)
	space.Groups = h.groupsInOrderLocked()
	return space
}

// Subscribe implements host.EventSource.
func (h *Host) Subscribe() (<-chan host.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	ch := make(chan host.Event, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// emitLocked never blocks: a full subscriber already has a refresh pending.
func (h *Host) emitLocked(t host.EventType, id string) {
	ev := host.Event{Type: t, ID: id}
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, host.ErrNotFound)
}
