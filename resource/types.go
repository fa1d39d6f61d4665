package resource

import "github.com/wippyai/bindgen/wire"

// ID is the resource id carried by handle values on the wire. 0 is never
// issued.
type ID = wire.ResourceID

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventBorrowed
	EventBorrowReturned
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow-returned"
	}
	return "unknown"
}

// Event describes one change to a table entry.
type Event struct {
	Value any
	Kind  string
	ID    ID
	Type  EventType
}

// Observer receives lifecycle events. It is called with no table lock
// held, after the change is visible.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Dropper is optionally implemented by values that need cleanup when
// their entry is removed.
type Dropper interface {
	Drop()
}
