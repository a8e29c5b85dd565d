package core

import (
	"sync"
	"time"
)

// DefaultTypingTTL is how long one typing signal keeps its author in the
// room's typing set before the scheduled expiry removes it again.
const DefaultTypingTTL = 2 * time.Second

// Hub executes protocol operations against the shared Store and fans the
// resulting events out to room members. One Hub is shared by every
// connection handler in the process.
type Hub struct {
	store     *Store
	typingTTL time.Duration

	mu     sync.Mutex
	gen    uint64
	timers map[uint64]*time.Timer
	closed bool
}

// NewHub constructs a hub around the given store. A non-positive typingTTL
// selects DefaultTypingTTL.
func NewHub(store *Store, typingTTL time.Duration) *Hub {
	if typingTTL <= 0 {
		typingTTL = DefaultTypingTTL
	}
	return &Hub{
		store:     store,
		typingTTL: typingTTL,
		timers:    make(map[uint64]*time.Timer),
	}
}

// Store exposes the underlying room registry.
func (h *Hub) Store() *Store {
	return h.store
}

// Join registers the client in the room and replies with the room's current
// history. Nothing is broadcast to other members; joins are silent.
func (h *Hub) Join(c *Client, roomID string) {
	h.store.AddClient(roomID, c)
	history := h.store.History(roomID)
	if history == nil {
		history = []Message{}
	}
	c.send(&Event{Kind: EventHistory, Room: roomID, Messages: history})
}

// PostMessage validates, stores, and broadcasts a chat message. Rate-limited
// and empty messages produce an error event for the sender only. The sender
// receives the broadcast too, as a room member like any other.
func (h *Hub) PostMessage(c *Client, roomID, text, author string) {
	if !c.Limiter.Allow(FrameMessage) {
		c.send(&Event{Kind: EventError, Room: roomID, ErrorCode: ErrCodeRateLimited})
		return
	}
	if text == "" {
		c.send(&Event{Kind: EventError, Room: roomID, ErrorCode: ErrCodeInvalidPayload})
		return
	}
	msg := h.store.AppendMessage(roomID, text, author)
	h.Broadcast(roomID, &Event{Kind: EventMessage, Room: roomID, Message: msg})
}

// Typing records a typing signal, broadcasts the room's typing set, and
// schedules an expiry for this one signal. Rate-limited or authorless signals
// are dropped without a reply; typing is best effort.
func (h *Hub) Typing(c *Client, roomID, author string) {
	if !c.Limiter.Allow(FrameTyping) {
		return
	}
	if author == "" {
		return
	}
	h.store.AddTyping(roomID, author)
	h.broadcastTyping(roomID)
	h.scheduleExpiry(roomID, author)
}

// Disconnect marks the client closed and removes it from every room. Safe to
// call for clients that never joined anything.
func (h *Hub) Disconnect(c *Client) {
	c.Close()
	h.store.RemoveClientEverywhere(c)
}

// Broadcast delivers an event to a snapshot of the room's membership. Peers
// that are no longer open, or whose queue is full, are skipped.
func (h *Hub) Broadcast(roomID string, ev *Event) {
	for _, peer := range h.store.Clients(roomID) {
		peer.send(ev)
	}
}

func (h *Hub) broadcastTyping(roomID string) {
	typing := h.store.Typing(roomID)
	if typing == nil {
		typing = []string{}
	}
	h.Broadcast(roomID, &Event{Kind: EventTyping, Room: roomID, Typing: typing})
}

// scheduleExpiry arms an independent removal for one typing signal.
// Overlapping signals from the same author each get their own timer; removal
// is idempotent, so the set converges even when an older timer fires after a
// newer signal re-added the author. The indicator may blink off early in that
// case, which is accepted for a best-effort presence signal.
func (h *Hub) scheduleExpiry(roomID, author string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	h.gen++
	id := h.gen
	h.timers[id] = time.AfterFunc(h.typingTTL, func() {
		h.mu.Lock()
		delete(h.timers, id)
		closed := h.closed
		h.mu.Unlock()
		if closed {
			return
		}
		h.store.RemoveTyping(roomID, author)
		h.broadcastTyping(roomID)
	})
}

// Shutdown stops outstanding typing-expiry timers. Best effort: a timer that
// already fired runs to completion.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, t := range h.timers {
		t.Stop()
		delete(h.timers, id)
	}
}
