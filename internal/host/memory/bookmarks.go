package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/model"
)

func (h *Host) snapshotLocked(n *node) model.BookmarkNode {
	data := n.data
	data.Index = n.index()
	data.Children = nil
	return data
}

func (h *Host) subtreeLocked(n *node) model.BookmarkNode {
	data := h.snapshotLocked(n)
	if len(n.children) > 0 {
		data.Children = make([]model.BookmarkNode, len(n.children))
		for i, c := range n.children {
			data.Children[i] = h.subtreeLocked(c)
		}
	}
	return data
}

func (h *Host) lookupLocked(id string) (*node, error) {
	n, ok := h.nodes[id]
	if !ok {
		return nil, notFound("bookmark", id)
	}
	return n, nil
}

// GetNode implements host.BookmarkStore.
func (h *Host) GetNode(ctx context.Context, id string) (model.BookmarkNode, error) {
	if err := ctx.Err(); err != nil {
		return model.BookmarkNode{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.lookupLocked(id)
	if err != nil {
		return model.BookmarkNode{}, err
	}
	return h.snapshotLocked(n), nil
}

// GetChildren implements host.BookmarkStore.
func (h *Host) GetChildren(ctx context.Context, parentID string) ([]model.BookmarkNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.lookupLocked(parentID)
	if err != nil {
		return nil, err
	}
	children := make([]model.BookmarkNode, len(n.children))
	for i, c := range n.children {
		children[i] = h.snapshotLocked(c)
	}
	return children, nil
}

// GetSubtree implements host.BookmarkStore.
func (h *Host) GetSubtree(ctx context.Context, id string) (model.BookmarkNode, error) {
	if err := ctx.Err(); err != nil {
		return model.BookmarkNode{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.lookupLocked(id)
	if err != nil {
		return model.BookmarkNode{}, err
	}
	return h.subtreeLocked(n), nil
}

// folderLocked resolves a parent that may receive children.
func (h *Host) folderLocked(id string) (*node, error) {
	parent, err := h.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	if parent == h.root {
		return nil, fmt.Errorf("create under root: %w", host.ErrProtected)
	}
	if !parent.data.IsFolder() {
		return nil, fmt.Errorf("parent %s is a bookmark: %w", id, host.ErrInvalidParent)
	}
	return parent, nil
}

// Create implements host.BookmarkStore.
func (h *Host) Create(ctx context.Context, params host.CreateBookmark) (model.BookmarkNode, error) {
	if err := ctx.Err(); err != nil {
		return model.BookmarkNode{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	parent, err := h.folderLocked(params.ParentID)
	if err != nil {
		return model.BookmarkNode{}, err
	}

	index := len(parent.children)
	if params.Index != nil {
		index = *params.Index
		if index < 0 || index > len(parent.children) {
			return model.BookmarkNode{}, fmt.Errorf("create at %d of %d in %s: %w",
				index, len(parent.children), params.ParentID, host.ErrIndexOutOfRange)
		}
	}

	kind := model.KindBookmark
	if params.Kind == model.KindFolder {
		kind = model.KindFolder
	}
	n := &node{parent: parent}
	n.data = model.BookmarkNode{
		ID:        h.newID(),
		ParentID:  parent.data.ID,
		Title:     params.Title,
		URL:       params.URL,
		Kind:      kind,
		CreatedAt: h.now(),
	}
	if kind == model.KindFolder {
		n.data.URL = ""
	}
	h.nodes[n.data.ID] = n
	parent.children = slices.Insert(parent.children, index, n)

	h.emitLocked(host.EventBookmarkCreated, n.data.ID)
	return h.snapshotLocked(n), nil
}

// Move implements host.BookmarkStore.
func (h *Host) Move(ctx context.Context, id string, dest host.Destination) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	n, err := h.lookupLocked(id)
	if err != nil {
		return err
	}
	if model.IsProtected(id) {
		return fmt.Errorf("move %s: %w", id, host.ErrProtected)
	}
	parent, err := h.folderLocked(dest.ParentID)
	if err != nil {
		return err
	}
	for p := parent; p != nil; p = p.parent {
		if p == n {
			return fmt.Errorf("move %s into its own subtree: %w", id, host.ErrInvalidParent)
		}
	}

	limit := len(parent.children)
	if parent == n.parent {
		limit--
	}
	if dest.Index < 0 || dest.Index > limit {
		return fmt.Errorf("move %s to %d of %d: %w", id, dest.Index, limit, host.ErrIndexOutOfRange)
	}

	h.detachLocked(n)
	n.parent = parent
	n.data.ParentID = parent.data.ID
	parent.children = slices.Insert(parent.children, dest.Index, n)

	h.emitLocked(host.EventBookmarkMoved, id)
	return nil
}

func (h *Host) detachLocked(n *node) {
	siblings := n.parent.children
	if i := n.index(); i >= 0 {
		n.parent.children = slices.Delete(siblings, i, i+1)
	}
}

// Remove implements host.BookmarkStore.
func (h *Host) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	n, err := h.lookupLocked(id)
	if err != nil {
		return err
	}
	if model.IsProtected(id) {
		return fmt.Errorf("remove %s: %w", id, host.ErrProtected)
	}
	if len(n.children) > 0 {
		return fmt.Errorf("remove %s: %w", id, host.ErrNotEmpty)
	}
	h.detachLocked(n)
	delete(h.nodes, id)

	h.emitLocked(host.EventBookmarkRemoved, id)
	return nil
}

// RemoveTree implements host.BookmarkStore.
func (h *Host) RemoveTree(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	n, err := h.lookupLocked(id)
	if err != nil {
		return err
	}
	if model.IsProtected(id) {
		return fmt.Errorf("remove tree %s: %w", id, host.ErrProtected)
	}
	h.detachLocked(n)
	h.forgetLocked(n)

	h.emitLocked(host.EventBookmarkRemoved, id)
	return nil
}

func (h *Host) forgetLocked(n *node) {
	delete(h.nodes, n.data.ID)
	for _, c := range n.children {
		h.forgetLocked(c)
	}
}
