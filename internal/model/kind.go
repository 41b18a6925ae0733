package model

import "fmt"

// Kind discriminates the entities the sidebar orders: tabs and tab groups in
// the tab strip, bookmarks and folders in the bookmark tree.
type Kind int

const (
	KindTab Kind = iota
	KindGroup
	KindBookmark
	KindFolder
)

var kindNames = map[Kind]string{
	KindTab:      "tab",
	KindGroup:    "group",
	KindBookmark: "bookmark",
	KindFolder:   "folder",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsContainer reports whether entities of this kind own ordered children.
func (k Kind) IsContainer() bool {
	return k == KindGroup || k == KindFolder
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", string(text))
}

// Entity is the capability shared by everything the planners order: it has a
// kind, a stable key, an owner (parent folder or group) and a dense position
// among its siblings.
type Entity interface {
	EntityKind() Kind
	Key() string
	Owner() string
	Position() int
}
