package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventHistory delivers a room's message history to a client upon join.
	EventHistory EventKind = iota
	// EventMessage notifies room members about a stored chat message.
	EventMessage
	// EventTyping delivers the room's current set of typing authors.
	EventTyping
	// EventError reports a per-connection protocol error to the sender only.
	EventError
)

// Event is sent to clients to describe what happened in a room.
type Event struct {
	Kind      EventKind
	Room      string
	Message   Message
	Messages  []Message // for EventHistory, oldest first
	Typing    []string  // for EventTyping
	ErrorCode string    // for EventError
}
