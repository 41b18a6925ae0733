// Package assoc records which open tabs belong to a bookmark or a pinned
// site. An associated tab is persistent: closing and reopening it keeps the
// link.
package assoc

import (
	"slices"
	"strings"
	"sync"

	"github.com/nikbrunner/sidebar/internal/model"
)

const (
	bookmarkPrefix = "bookmark:"
	pinnedPrefix   = "pinned:"
)

// BookmarkKey returns the association key of a bookmark.
func BookmarkKey(bookmarkID string) string {
	return bookmarkPrefix + bookmarkID
}

// PinnedKey returns the association key of a pinned site.
func PinnedKey(url string) string {
	return pinnedPrefix + url
}

// BookmarkID extracts the bookmark id from a bookmark key.
func BookmarkID(key string) (string, bool) {
	return strings.CutPrefix(key, bookmarkPrefix)
}

// Registry maps tab ids to association keys. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byTab map[int]string
	moved map[string]string // rekeyed bookmark key -> its successor
}

// New creates a registry seeded with a saved mapping.
func New(initial map[int]string) *Registry {
	r := &Registry{
		byTab: make(map[int]string, len(initial)),
		moved: make(map[string]string),
	}
	for tab, key := range initial {
		r.byTab[tab] = key
	}
	return r
}

// Associate ties tabID to key, replacing any earlier association. A key of a
// bookmark that was since recreated resolves to the recreated bookmark.
func (r *Registry) Associate(tabID int, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTab[tabID] = r.resolveLocked(key)
}

// Reassociate is Associate under the name undo callers expect.
func (r *Registry) Reassociate(newTabID int, key string) {
	r.Associate(newTabID, key)
}

// Rekey moves the associations of a bookmark to the id it was recreated
// under. Keys recorded before the move keep resolving to the new bookmark.
// It returns how many tabs were relinked.
func (r *Registry) Rekey(oldBookmarkID, newBookmarkID string) int {
	oldKey, newKey := BookmarkKey(oldBookmarkID), BookmarkKey(newBookmarkID)
	if oldKey == newKey {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moved[oldKey] = newKey
	n := 0
	for tab, key := range r.byTab {
		if key == oldKey {
			r.byTab[tab] = newKey
			n++
		}
	}
	return n
}

// resolveLocked follows rekeyed bookmarks to the current key.
func (r *Registry) resolveLocked(key string) string {
	for n := len(r.moved); n > 0; n-- {
		next, ok := r.moved[key]
		if !ok {
			break
		}
		key = next
	}
	return key
}

// LinkPinned ties every pinned tab without an association to its site, so
// closing and reopening it keeps it pinned to the same entry. It returns how
// many tabs were linked.
func (r *Registry) LinkPinned(tabs []model.Tab) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range tabs {
		if !t.Pinned || t.URL == "" {
			continue
		}
		if _, ok := r.byTab[t.ID]; ok {
			continue
		}
		r.byTab[t.ID] = PinnedKey(t.URL)
		n++
	}
	return n
}

// Dissociate forgets tabID.
func (r *Registry) Dissociate(tabID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byTab, tabID)
}

// Association returns the key tabID is tied to.
func (r *Registry) Association(tabID int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.byTab[tabID]
	return key, ok
}

// TabsForBookmark returns the tabs associated with a bookmark, ascending.
func (r *Registry) TabsForBookmark(bookmarkID string) []int {
	return r.TabsForKey(BookmarkKey(bookmarkID))
}

// TabsForKey returns the tabs tied to key, ascending.
func (r *Registry) TabsForKey(key string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tabs []int
	for tab, k := range r.byTab {
		if k == key {
			tabs = append(tabs, tab)
		}
	}
	slices.Sort(tabs)
	return tabs
}

// Prune drops associations of tabs not in live and returns how many went.
func (r *Registry) Prune(live []int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for tab := range r.byTab {
		if !slices.Contains(live, tab) {
			delete(r.byTab, tab)
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the mapping for persistence.
func (r *Registry) Snapshot() map[int]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int]string, len(r.byTab))
	for tab, key := range r.byTab {
		out[tab] = key
	}
	return out
}

// Replace swaps the whole mapping, as when the saved space was reloaded.
func (r *Registry) Replace(mapping map[int]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTab = make(map[int]string, len(mapping))
	for tab, key := range mapping {
		r.byTab[tab] = key
	}
}
