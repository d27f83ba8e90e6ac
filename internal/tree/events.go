package tree

import "github.com/google/uuid"

// EventBookmarksChanged is the name of the event published after every
// successful mutation.
const EventBookmarksChanged = "bookmarks-changed"

// Event is a change notification. Payload is the nested JSON export of the
// tree at the configured notify depth.
type Event struct {
	ID      string
	Name    string
	Op      string
	Payload string
}

// Notifier receives change events. Implementations decide how to forward
// them; the tree itself knows no transport.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(e Event) { f(e) }

func newEvent(op, payload string) Event {
	return Event{
		ID:      uuid.NewString(),
		Name:    EventBookmarksChanged,
		Op:      op,
		Payload: payload,
	}
}
