package model

import "time"

// Well-known ids of the nodes every bookmark tree starts with. They are
// protected: never moved, never deleted, and the root accepts no drops.
const (
	RootID  = "0"
	BarID   = "1"
	OtherID = "2"
)

// IsProtected reports whether id names one of the built-in nodes.
func IsProtected(id string) bool {
	return id == RootID || id == BarID || id == OtherID
}

// NewFolderParams holds parameters for creating a new folder node.
type NewFolderParams struct {
	ParentID string
	Title    string
}

// NewFolder creates an empty folder with a generated UUID.
func NewFolder(params NewFolderParams) BookmarkNode {
	return BookmarkNode{
		ID:        GenerateUUID(),
		ParentID:  params.ParentID,
		Title:     params.Title,
		Kind:      KindFolder,
		CreatedAt: time.Now(),
	}
}

// NewRootTree returns the empty tree: the root with the bookmarks bar and the
// other-bookmarks folder.
func NewRootTree() BookmarkNode {
	return BookmarkNode{
		ID:    RootID,
		Title: "",
		Kind:  KindFolder,
		Children: []BookmarkNode{
			{ID: BarID, ParentID: RootID, Index: 0, Title: "Bookmarks Bar", Kind: KindFolder},
			{ID: OtherID, ParentID: RootID, Index: 1, Title: "Other Bookmarks", Kind: KindFolder},
		},
	}
}
