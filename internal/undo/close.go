package undo

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/logging"
	"github.com/nikbrunner/sidebar/internal/model"
)

// CloseTabsParams configures a CloseTabs action.
type CloseTabsParams struct {
	Store       host.TabStore
	Coordinator *host.Coordinator
	IDs         []int
	// Association returns the key of the bookmark or pinned entry a tab is
	// tied to. Optional.
	Association func(tabID int) (string, bool)
	// Reassociate ties a reopened tab to the key its predecessor had. Optional.
	Reassociate func(newTabID int, key string)
	// Dissociate forgets a closed tab. Optional.
	Dissociate func(tabID int)
}

// TabSnapshot is what CloseTabs remembers about a closed tab.
type TabSnapshot struct {
	TabID          int
	URL            string
	Title          string
	Index          int
	Pinned         bool
	GroupID        int
	GroupTitle     string
	GroupColor     model.Color
	AssociationKey string
}

// CloseTabs closes tabs. Undo reopens them in their original order, rebuilds
// their groups under new ids and hands associations to Reassociate.
type CloseTabs struct {
	params CloseTabsParams

	mu             sync.Mutex
	state          State
	snapshots      []TabSnapshot
	description    string
	summary        Summary
	reassociations map[int]string
	reopened       map[int]int
}

var _ Action = (*CloseTabs)(nil)

// NewCloseTabs creates the action; nothing happens until Do.
func NewCloseTabs(params CloseTabsParams) *CloseTabs {
	return &CloseTabs{params: params}
}

func (a *CloseTabs) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *CloseTabs) Description() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.description
}

func (a *CloseTabs) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary
}

// Snapshots returns the recorded tabs in window order.
func (a *CloseTabs) Snapshots() []TabSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]TabSnapshot(nil), a.snapshots...)
}

// Reassociations maps reopened tab ids to the association keys they took
// over. It is filled by Undo.
func (a *CloseTabs) Reassociations() map[int]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[int]string, len(a.reassociations))
	for k, v := range a.reassociations {
		out[k] = v
	}
	return out
}

// Reopened maps closed tab ids to the ids of their replacements.
func (a *CloseTabs) Reopened() map[int]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[int]int, len(a.reopened))
	for k, v := range a.reopened {
		out[k] = v
	}
	return out
}

// Do snapshots the tabs still open and closes them in one call.
func (a *CloseTabs) Do(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := transition(&a.state, StateConstructed, StateDone); err != nil {
		return err
	}

	ctx = logging.WithComponent(ctx, "undo")
	log := logging.FromContext(ctx)

	batch(a.params.Coordinator, func() {
		if len(a.params.IDs) == 0 {
			return
		}
		tabs, err := a.params.Store.QueryTabs(ctx, host.TabFilter{IDs: a.params.IDs})
		if err != nil {
			log.Warn().Err(err).Msg("query tabs to close")
			a.summary.Failed = len(a.params.IDs)
			return
		}
		groups, err := a.params.Store.QueryGroups(ctx, host.GroupFilter{})
		if err != nil {
			log.Warn().Err(err).Msg("query groups of tabs to close")
		}
		byID := make(map[int]model.TabGroup, len(groups))
		for _, g := range groups {
			byID[g.ID] = g
		}

		sort.Slice(tabs, func(i, j int) bool { return tabs[i].Index < tabs[j].Index })
		ids := make([]int, len(tabs))
		for i, t := range tabs {
			ids[i] = t.ID
			snap := TabSnapshot{
				TabID:   t.ID,
				URL:     t.URL,
				Title:   t.Title,
				Index:   t.Index,
				Pinned:  t.Pinned,
				GroupID: t.GroupID,
			}
			if g, ok := byID[t.GroupID]; ok && t.Grouped() {
				snap.GroupTitle, snap.GroupColor = g.Title, g.Color
			}
			if a.params.Association != nil {
				if key, ok := a.params.Association(t.ID); ok {
					snap.AssociationKey = key
				}
			}
			a.snapshots = append(a.snapshots, snap)
		}
		a.description = closeDescription(a.snapshots)
		a.summary.Roots = len(a.snapshots)

		if len(ids) == 0 {
			return
		}
		closed := ids
		if err := a.params.Store.CloseTabs(ctx, ids); err != nil {
			log.Warn().Err(err).Ints("tabs", ids).Msg("close tabs")
			still, qerr := a.params.Store.QueryTabs(ctx, host.TabFilter{IDs: ids})
			if qerr != nil {
				a.summary.Failed = len(ids)
				return
			}
			a.summary.Failed = len(still)
			closed = slices.DeleteFunc(slices.Clone(ids), func(id int) bool {
				return slices.ContainsFunc(still, func(t model.Tab) bool { return t.ID == id })
			})
		}
		if a.params.Dissociate != nil {
			for _, id := range closed {
				a.params.Dissociate(id)
			}
		}
	})

	log.Info().Str("description", a.description).Int("failed", a.summary.Failed).Msg("tabs closed")
	return nil
}

// Undo reopens the closed tabs in ascending index order and regroups them.
func (a *CloseTabs) Undo(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := transition(&a.state, StateDone, StateUndone); err != nil {
		return err
	}

	ctx = logging.WithComponent(ctx, "undo")
	log := logging.FromContext(ctx)

	a.summary.Failed = 0
	a.reassociations = make(map[int]string)
	a.reopened = make(map[int]int)

	batch(a.params.Coordinator, func() {
		open, err := a.params.Store.QueryTabs(ctx, host.TabFilter{})
		if err != nil {
			log.Warn().Err(err).Msg("query open tabs")
			a.summary.Failed = len(a.snapshots)
			return
		}
		count := len(open)

		// original group id -> reopened members, in order of first appearance
		var groupOrder []int
		members := make(map[int][]int)
		first := make(map[int]TabSnapshot)

		for _, snap := range a.snapshots {
			tab, err := a.params.Store.CreateTab(ctx, host.CreateTab{
				URL:    snap.URL,
				Title:  snap.Title,
				Pinned: snap.Pinned,
				Index:  host.Ptr(min(snap.Index, count)),
			})
			if err != nil {
				a.summary.Failed++
				log.Warn().Err(err).Str("url", snap.URL).Msg("reopen tab")
				continue
			}
			count++
			a.reopened[snap.TabID] = tab.ID

			if snap.GroupID != model.GroupNone {
				if _, ok := members[snap.GroupID]; !ok {
					groupOrder = append(groupOrder, snap.GroupID)
					first[snap.GroupID] = snap
				}
				members[snap.GroupID] = append(members[snap.GroupID], tab.ID)
			}
			if snap.AssociationKey != "" {
				a.reassociations[tab.ID] = snap.AssociationKey
				if a.params.Reassociate != nil {
					a.params.Reassociate(tab.ID, snap.AssociationKey)
				}
			}
		}

		for _, old := range groupOrder {
			ids := members[old]
			gid, err := a.params.Store.Group(ctx, ids, nil)
			if err != nil {
				a.summary.Failed += len(ids)
				log.Warn().Err(err).Ints("tabs", ids).Msg("regroup tabs")
				continue
			}
			snap := first[old]
			update := host.GroupUpdate{Title: host.Ptr(snap.GroupTitle)}
			if snap.GroupColor != "" {
				update.Color = host.Ptr(snap.GroupColor)
			}
			if err := a.params.Store.UpdateGroup(ctx, gid, update); err != nil {
				log.Warn().Err(err).Int("group", gid).Msg("restore group title")
			}
		}
	})

	log.Info().Str("description", a.description).Int("failed", a.summary.Failed).Msg("tabs reopened")
	return nil
}

func closeDescription(snapshots []TabSnapshot) string {
	switch len(snapshots) {
	case 0:
		return "Closed nothing"
	case 1:
		title := snapshots[0].Title
		if title == "" {
			title = "tab"
		}
		return fmt.Sprintf(`Closed "%s"`, title)
	default:
		return fmt.Sprintf("Closed %d tabs", len(snapshots))
	}
}
