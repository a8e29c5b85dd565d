package core

import "sync/atomic"

// Client is one live connection as seen by the core layer. The transport owns
// the socket; the core only needs an event queue, an open/closed flag, and the
// connection's rate-limiter state.
type Client struct {
	ID      string
	Events  chan *Event
	Limiter *Limiter

	closed atomic.Bool
}

// NewClient constructs a client with an initialized event queue and a fresh
// rate limiter. Limiter state is per connection and never persisted.
func NewClient(id string, limits LimiterConfig) *Client {
	return &Client{
		ID:      id,
		Events:  make(chan *Event, 32),
		Limiter: NewLimiter(limits),
	}
}

// Open reports whether the transport can still deliver frames to this peer.
// Broadcasts skip peers for which this is false.
func (c *Client) Open() bool {
	return !c.closed.Load()
}

// Close marks the client unreachable. Idempotent.
func (c *Client) Close() {
	c.closed.Store(true)
}

// send queues an event without blocking. Closed peers and slow consumers with
// a full queue lose the event; their own close handling cleans them up.
func (c *Client) send(ev *Event) bool {
	if !c.Open() {
		return false
	}
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
