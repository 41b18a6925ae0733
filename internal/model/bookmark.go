package model

import "time"

// BookmarkNode is a bookmark or folder in the bookmark tree. Kind is the only
// discriminant; an empty URL does not make a node a folder.
type BookmarkNode struct {
	ID        string         `json:"id"`
	ParentID  string         `json:"parentId"`
	Index     int            `json:"index"`
	Title     string         `json:"title"`
	URL       string         `json:"url,omitempty"`
	Kind      Kind           `json:"kind"`
	CreatedAt time.Time      `json:"createdAt"`
	Children  []BookmarkNode `json:"children,omitempty"`
}

// NewBookmarkParams holds parameters for creating a new bookmark node.
type NewBookmarkParams struct {
	ParentID string
	Title    string
	URL      string
}

// NewBookmark creates a bookmark leaf with a generated UUID.
func NewBookmark(params NewBookmarkParams) BookmarkNode {
	return BookmarkNode{
		ID:        GenerateUUID(),
		ParentID:  params.ParentID,
		Title:     params.Title,
		URL:       params.URL,
		Kind:      KindBookmark,
		CreatedAt: time.Now(),
	}
}

// IsFolder returns true if the node can own children.
func (n BookmarkNode) IsFolder() bool {
	return n.Kind == KindFolder
}

// Clone returns a deep copy that shares no memory with n.
func (n BookmarkNode) Clone() BookmarkNode {
	c := n
	c.Children = nil
	if len(n.Children) > 0 {
		c.Children = make([]BookmarkNode, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n BookmarkNode) Walk(fn func(BookmarkNode) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// IDs returns the ids of n and every descendant in pre-order.
func (n BookmarkNode) IDs() []string {
	var ids []string
	n.Walk(func(node BookmarkNode) bool {
		ids = append(ids, node.ID)
		return true
	})
	return ids
}

// Find returns the node with the given id from the subtree rooted at n.
func (n BookmarkNode) Find(id string) (BookmarkNode, bool) {
	var found BookmarkNode
	ok := false
	n.Walk(func(node BookmarkNode) bool {
		if ok {
			return false
		}
		if node.ID == id {
			found, ok = node, true
			return false
		}
		return true
	})
	return found, ok
}

// Count returns the number of nodes in the subtree rooted at n, n included.
func (n BookmarkNode) Count() int {
	count := 0
	n.Walk(func(BookmarkNode) bool {
		count++
		return true
	})
	return count
}

func (n BookmarkNode) EntityKind() Kind { return n.Kind }
func (n BookmarkNode) Key() string      { return n.ID }
func (n BookmarkNode) Owner() string    { return n.ParentID }
func (n BookmarkNode) Position() int    { return n.Index }
