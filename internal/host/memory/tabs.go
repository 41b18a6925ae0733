package memory

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/model"
)

func (h *Host) reindexLocked() {
	for i := range h.tabs {
		h.tabs[i].Index = i
	}
}

func (h *Host) tabPosLocked(id int) int {
	for i, t := range h.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// groupsInOrderLocked lists groups in the order their members appear.
func (h *Host) groupsInOrderLocked() []model.TabGroup {
	seen := make(map[int]bool)
	groups := []model.TabGroup{}
	for _, t := range h.tabs {
		if !t.Grouped() || seen[t.GroupID] {
			continue
		}
		seen[t.GroupID] = true
		if g, ok := h.groups[t.GroupID]; ok {
			groups = append(groups, *g)
		}
	}
	return groups
}

// dropEmptyGroupsLocked destroys groups without members, as the browser does.
func (h *Host) dropEmptyGroupsLocked() {
	live := make(map[int]bool)
	for _, t := range h.tabs {
		if t.Grouped() {
			live[t.GroupID] = true
		}
	}
	for id := range h.groups {
		if !live[id] {
			delete(h.groups, id)
			h.emitLocked(host.EventGroupRemoved, model.GroupKey(id))
		}
	}
}

// QueryTabs implements host.TabStore.
func (h *Host) QueryTabs(ctx context.Context, filter host.TabFilter) ([]model.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	tabs := []model.Tab{}
	for _, t := range h.tabs {
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, t.ID) {
			continue
		}
		if filter.GroupID != nil && t.GroupID != *filter.GroupID {
			continue
		}
		tabs = append(tabs, t)
	}
	return tabs, nil
}

// QueryGroups implements host.TabStore.
func (h *Host) QueryGroups(ctx context.Context, filter host.GroupFilter) ([]model.TabGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	groups := []model.TabGroup{}
	for _, g := range h.groupsInOrderLocked() {
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, g.ID) {
			continue
		}
		if filter.Title != nil && g.Title != *filter.Title {
			continue
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// CreateTab implements host.TabStore.
func (h *Host) CreateTab(ctx context.Context, params host.CreateTab) (model.Tab, error) {
	if err := ctx.Err(); err != nil {
		return model.Tab{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	index := len(h.tabs)
	if params.Index != nil {
		index = *params.Index
		if index < 0 || index > len(h.tabs) {
			return model.Tab{}, fmt.Errorf("create tab at %d of %d: %w", index, len(h.tabs), host.ErrIndexOutOfRange)
		}
	}

	tab := model.Tab{
		ID:      h.nextTabID,
		GroupID: model.GroupNone,
		URL:     params.URL,
		Title:   params.Title,
		Pinned:  params.Pinned,
	}
	h.nextTabID++
	h.tabs = slices.Insert(h.tabs, index, tab)
	h.reindexLocked()

	h.emitLocked(host.EventTabCreated, strconv.Itoa(tab.ID))
	return h.tabs[index], nil
}

// MoveTab implements host.TabStore.
func (h *Host) MoveTab(ctx context.Context, id int, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	pos := h.tabPosLocked(id)
	if pos < 0 {
		return notFound("tab", id)
	}
	if index < 0 || index > len(h.tabs)-1 {
		return fmt.Errorf("move tab %d to %d of %d: %w", id, index, len(h.tabs)-1, host.ErrIndexOutOfRange)
	}

	tab := h.tabs[pos]
	h.tabs = slices.Delete(h.tabs, pos, pos+1)
	h.tabs = slices.Insert(h.tabs, index, tab)
	h.reindexLocked()

	h.emitLocked(host.EventTabMoved, strconv.Itoa(id))
	return nil
}

// MoveGroup implements host.TabStore.
func (h *Host) MoveGroup(ctx context.Context, groupID int, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.groups[groupID]; !ok {
		return notFound("group", groupID)
	}

	var members, rest []model.Tab
	for _, t := range h.tabs {
		if t.GroupID == groupID {
			members = append(members, t)
		} else {
			rest = append(rest, t)
		}
	}
	if index < 0 || index > len(rest) {
		return fmt.Errorf("move group %d to %d of %d: %w", groupID, index, len(rest), host.ErrIndexOutOfRange)
	}

	h.tabs = slices.Insert(rest, index, members...)
	h.reindexLocked()

	h.emitLocked(host.EventGroupUpdated, model.GroupKey(groupID))
	return nil
}

// CloseTabs implements host.TabStore. Tabs that exist are closed even when
// some ids are unknown; the unknown ones are reported as ErrNotFound.
func (h *Host) CloseTabs(ctx context.Context, ids []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var missing []int
	for _, id := range ids {
		pos := h.tabPosLocked(id)
		if pos < 0 {
			missing = append(missing, id)
			continue
		}
		h.tabs = slices.Delete(h.tabs, pos, pos+1)
		h.emitLocked(host.EventTabRemoved, strconv.Itoa(id))
	}
	h.reindexLocked()
	h.dropEmptyGroupsLocked()

	if len(missing) > 0 {
		return notFound("tabs", missing)
	}
	return nil
}

// Group implements host.TabStore. Tabs joining an existing group are placed
// after its last member; a new group forms where the first listed tab is.
func (h *Host) Group(ctx context.Context, ids []int, groupID *int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(ids) == 0 {
		return 0, fmt.Errorf("group: no tabs given: %w", host.ErrNotFound)
	}
	for _, id := range ids {
		if h.tabPosLocked(id) < 0 {
			return 0, notFound("tab", id)
		}
	}

	var gid int
	if groupID != nil {
		if _, ok := h.groups[*groupID]; !ok {
			return 0, notFound("group", *groupID)
		}
		gid = *groupID
	} else {
		gid = h.nextGroupID
		h.nextGroupID++
		h.groups[gid] = &model.TabGroup{
			ID:    gid,
			Color: groupColors[(gid-1)%len(groupColors)],
		}
		h.emitLocked(host.EventGroupCreated, model.GroupKey(gid))
	}

	// anchor: after the last member that is not being (re)grouped, or where
	// the earliest listed tab sits for a new group
	var moving, rest []model.Tab
	for _, t := range h.tabs {
		if slices.Contains(ids, t.ID) {
			t.GroupID = gid
			moving = append(moving, t)
		} else {
			rest = append(rest, t)
		}
	}
	anchor := -1
	for i, t := range rest {
		if t.GroupID == gid {
			anchor = i + 1
		}
	}
	if anchor < 0 {
		first := h.tabPosLocked(moving[0].ID)
		anchor = 0
		for i, t := range h.tabs {
			if i >= first {
				break
			}
			if !slices.Contains(ids, t.ID) {
				anchor++
			}
		}
	}

	h.tabs = slices.Insert(rest, anchor, moving...)
	h.reindexLocked()
	h.dropEmptyGroupsLocked()

	for _, t := range moving {
		h.emitLocked(host.EventTabUpdated, strconv.Itoa(t.ID))
	}
	return gid, nil
}

// Ungroup implements host.TabStore. A tab leaving the middle of a group is
// moved past the remaining members so groups stay contiguous.
func (h *Host) Ungroup(ctx context.Context, ids []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, id := range ids {
		pos := h.tabPosLocked(id)
		if pos < 0 {
			return notFound("tab", id)
		}
		tab := h.tabs[pos]
		if !tab.Grouped() {
			continue
		}
		gid := tab.GroupID
		tab.GroupID = model.GroupNone

		h.tabs = slices.Delete(h.tabs, pos, pos+1)
		target := pos
		for i := pos; i < len(h.tabs); i++ {
			if h.tabs[i].GroupID == gid {
				target = i + 1
			}
		}
		h.tabs = slices.Insert(h.tabs, target, tab)
		h.reindexLocked()
		h.emitLocked(host.EventTabUpdated, strconv.Itoa(id))
	}
	h.dropEmptyGroupsLocked()
	return nil
}

// UpdateGroup implements host.TabStore.
func (h *Host) UpdateGroup(ctx context.Context, groupID int, update host.GroupUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.groups[groupID]
	if !ok {
		return notFound("group", groupID)
	}
	if update.Title != nil {
		g.Title = *update.Title
	}
	if update.Color != nil {
		g.Color = *update.Color
	}
	if update.Collapsed != nil {
		g.Collapsed = *update.Collapsed
	}

	h.emitLocked(host.EventGroupUpdated, model.GroupKey(groupID))
	return nil
}
