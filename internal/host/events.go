package host

import "fmt"

// EventType names what changed in the store.
type EventType int

const (
	EventBookmarkCreated EventType = iota
	EventBookmarkMoved
	EventBookmarkRemoved
	EventTabCreated
	EventTabMoved
	EventTabRemoved
	EventTabUpdated
	EventGroupCreated
	EventGroupUpdated
	EventGroupRemoved
	// EventReset means the whole state was replaced out of band.
	EventReset
)

func (t EventType) String() string {
	switch t {
	case EventBookmarkCreated:
		return "bookmark.created"
	case EventBookmarkMoved:
		return "bookmark.moved"
	case EventBookmarkRemoved:
		return "bookmark.removed"
	case EventTabCreated:
		return "tab.created"
	case EventTabMoved:
		return "tab.moved"
	case EventTabRemoved:
		return "tab.removed"
	case EventTabUpdated:
		return "tab.updated"
	case EventGroupCreated:
		return "group.created"
	case EventGroupUpdated:
		return "group.updated"
	case EventGroupRemoved:
		return "group.removed"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is one change notification. ID is the bookmark id, tab id or group
// key of the affected entity.
type Event struct {
	Type EventType
	ID   string
}

// EventSource emits change notifications. The returned cancel function
// unsubscribes and closes the channel.
type EventSource interface {
	Subscribe() (<-chan Event, func())
}
