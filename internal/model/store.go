package model

import "sort"

// Space is a saved workspace: the bookmark tree, the open tabs and groups,
// and the tab associations that make tabs persistent.
type Space struct {
	Name         string         `json:"name"`
	Bookmarks    BookmarkNode   `json:"bookmarks"`
	Tabs         []Tab          `json:"tabs"`
	Groups       []TabGroup     `json:"groups"`
	Associations map[int]string `json:"associations"`
}

// NewSpace creates an empty Space with initialized fields.
func NewSpace(name string) *Space {
	return &Space{
		Name:         name,
		Bookmarks:    NewRootTree(),
		Tabs:         []Tab{},
		Groups:       []TabGroup{},
		Associations: map[int]string{},
	}
}

// Normalize fills nil collections, orders tabs by index and makes tab
// indices dense again.
func (s *Space) Normalize() {
	if s.Bookmarks.ID == "" {
		s.Bookmarks = NewRootTree()
	}
	if s.Tabs == nil {
		s.Tabs = []Tab{}
	}
	if s.Groups == nil {
		s.Groups = []TabGroup{}
	}
	if s.Associations == nil {
		s.Associations = map[int]string{}
	}
	sort.SliceStable(s.Tabs, func(i, j int) bool { return s.Tabs[i].Index < s.Tabs[j].Index })
	for i := range s.Tabs {
		s.Tabs[i].Index = i
	}
	reindex(&s.Bookmarks)
}

func reindex(n *BookmarkNode) {
	for i := range n.Children {
		n.Children[i].Index = i
		n.Children[i].ParentID = n.ID
		reindex(&n.Children[i])
	}
}

// GetTabByID finds a tab by ID, returns nil if not found.
func (s *Space) GetTabByID(id int) *Tab {
	for i := range s.Tabs {
		if s.Tabs[i].ID == id {
			return &s.Tabs[i]
		}
	}
	return nil
}

// GetGroupByID finds a group by ID, returns nil if not found.
func (s *Space) GetGroupByID(id int) *TabGroup {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return &s.Groups[i]
		}
	}
	return nil
}

// TabsInGroup returns the members of a group in window order.
func (s *Space) TabsInGroup(groupID int) []Tab {
	var result []Tab
	for _, t := range s.Tabs {
		if t.GroupID == groupID {
			result = append(result, t)
		}
	}
	return result
}
