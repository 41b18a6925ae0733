package host

import (
	"context"
	"time"

	"github.com/nikbrunner/sidebar/internal/model"
)

// DefaultTimeout bounds a single store call. The store has no timeouts of its own.
const DefaultTimeout = 5 * time.Second

func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// WithBookmarkTimeout bounds every call on inner by d.
func WithBookmarkTimeout(inner BookmarkStore, d time.Duration) BookmarkStore {
	return &timeoutBookmarks{inner: inner, d: d}
}

type timeoutBookmarks struct {
	inner BookmarkStore
	d     time.Duration
}

func (t *timeoutBookmarks) GetNode(ctx context.Context, id string) (model.BookmarkNode, error) {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.GetNode(ctx, id)
}

func (t *timeoutBookmarks) GetChildren(ctx context.Context, parentID string) ([]model.BookmarkNode, error) {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.GetChildren(ctx, parentID)
}

func (t *timeoutBookmarks) GetSubtree(ctx context.Context, id string) (model.BookmarkNode, error) {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.GetSubtree(ctx, id)
}

func (t *timeoutBookmarks) Create(ctx context.Context, params CreateBookmark) (model.BookmarkNode, error) {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.Create(ctx, params)
}

func (t *timeoutBookmarks) Move(ctx context.Context, id string, dest Destination) error {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.Move(ctx, id, dest)
}

func (t *timeoutBookmarks) Remove(ctx context.Context, id string) error {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.Remove(ctx, id)
}

func (t *timeoutBookmarks) RemoveTree(ctx context.Context, id string) error {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.RemoveTree(ctx, id)
}

// WithTabTimeout bounds every call on inner by d.
func WithTabTimeout(inner TabStore, d time.Duration) TabStore {
	return &timeoutTabs{inner: inner, d: d}
}

type timeoutTabs struct {
	inner TabStore
	d     time.Duration
}

func (t *timeoutTabs) QueryTabs(ctx context.Context, filter TabFilter) ([]model.Tab, error) {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.QueryTabs(ctx, filter)
}

func (t *timeoutTabs) QueryGroups(ctx context.Context, filter GroupFilter) ([]model.TabGroup, error) {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.QueryGroups(ctx, filter)
}

func (t *timeoutTabs) CreateTab(ctx context.Context, params CreateTab) (model.Tab, error) {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.CreateTab(ctx, params)
}

func (t *timeoutTabs) MoveTab(ctx context.Context, id int, index int) error {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.MoveTab(ctx, id, index)
}

func (t *timeoutTabs) MoveGroup(ctx context.Context, groupID int, index int) error {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.MoveGroup(ctx, groupID, index)
}

func (t *timeoutTabs) CloseTabs(ctx context.Context, ids []int) error {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.CloseTabs(ctx, ids)
}

func (t *timeoutTabs) Group(ctx context.Context, ids []int, groupID *int) (int, error) {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.Group(ctx, ids, groupID)
}

func (t *timeoutTabs) Ungroup(ctx context.Context, ids []int) error {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.Ungroup(ctx, ids)
}

func (t *timeoutTabs) UpdateGroup(ctx context.Context, groupID int, update GroupUpdate) error {
	ctx, cancel := bound(ctx, t.d)
	defer cancel()
	return t.inner.UpdateGroup(ctx, groupID, update)
}
