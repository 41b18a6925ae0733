// Package host is the boundary to the store that owns tabs, tab groups and
// bookmarks. The store mutates on its own schedule; everything here treats it
// as a remote service reached through blocking, context-bound calls.
package host

import (
	"context"
	"errors"

	"github.com/nikbrunner/sidebar/internal/model"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrProtected       = errors.New("node is protected")
	ErrNotEmpty        = errors.New("folder is not empty")
	ErrInvalidParent   = errors.New("invalid parent")
)

// CreateBookmark describes a node to create. A nil Index appends.
type CreateBookmark struct {
	ParentID string
	Title    string
	URL      string
	Kind     model.Kind
	Index    *int
}

// Destination is where Move puts a node. Index is the final index among the
// new parent's children after the node has been taken out; the store does
// not compensate for the removal.
type Destination struct {
	ParentID string
	Index    int
}

// BookmarkStore is the bookmark half of the host store.
type BookmarkStore interface {
	GetNode(ctx context.Context, id string) (model.BookmarkNode, error)
	GetChildren(ctx context.Context, parentID string) ([]model.BookmarkNode, error)
	// GetSubtree returns the node with Children populated recursively.
	GetSubtree(ctx context.Context, id string) (model.BookmarkNode, error)
	Create(ctx context.Context, params CreateBookmark) (model.BookmarkNode, error)
	Move(ctx context.Context, id string, dest Destination) error
	// Remove deletes a bookmark or an empty folder.
	Remove(ctx context.Context, id string) error
	RemoveTree(ctx context.Context, id string) error
}

// TabFilter narrows QueryTabs. Zero value matches every tab.
type TabFilter struct {
	IDs     []int
	GroupID *int
}

// GroupFilter narrows QueryGroups. Zero value matches every group.
type GroupFilter struct {
	IDs   []int
	Title *string
}

// CreateTab describes a tab to open. A nil Index appends.
type CreateTab struct {
	URL    string
	Title  string
	Pinned bool
	Index  *int
}

// GroupUpdate changes group properties; nil fields are left alone.
type GroupUpdate struct {
	Title     *string
	Color     *model.Color
	Collapsed *bool
}

// TabStore is the tab half of the host store. Tab indices are window-global.
type TabStore interface {
	// QueryTabs returns matching tabs ordered by index.
	QueryTabs(ctx context.Context, filter TabFilter) ([]model.Tab, error)
	QueryGroups(ctx context.Context, filter GroupFilter) ([]model.TabGroup, error)
	CreateTab(ctx context.Context, params CreateTab) (model.Tab, error)
	// MoveTab moves a tab to its final window index. Group membership is kept.
	MoveTab(ctx context.Context, id int, index int) error
	// MoveGroup moves every member so the first lands on index.
	MoveGroup(ctx context.Context, groupID int, index int) error
	// CloseTabs closes the tabs; groups left without members are destroyed.
	CloseTabs(ctx context.Context, ids []int) error
	// Group adds tabs to groupID, or to a new group when groupID is nil, and
	// returns the group id.
	Group(ctx context.Context, ids []int, groupID *int) (int, error)
	Ungroup(ctx context.Context, ids []int) error
	UpdateGroup(ctx context.Context, groupID int, update GroupUpdate) error
}

// Store combines both halves with the change stream.
type Store interface {
	BookmarkStore
	TabStore
	EventSource
}

// Ptr returns a pointer to v, for the optional fields above.
func Ptr[T any](v T) *T {
	return &v
}
