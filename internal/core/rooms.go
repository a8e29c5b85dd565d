package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// room holds the per-conversation state: membership, bounded history, and the
// set of authors currently typing.
type room struct {
	clients map[*Client]struct{}
	history []Message
	typing  map[string]struct{}
	lastTS  int64
}

func newRoom() *room {
	return &room{
		clients: make(map[*Client]struct{}),
		typing:  make(map[string]struct{}),
	}
}

// Store is the authoritative in-memory registry of rooms, shared by all
// connection handlers. Rooms are created lazily on first reference and live
// for the process lifetime; empty rooms are not purged. Construct isolated
// instances with NewStore rather than sharing a package global, so tests can
// reset state between runs.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*room
	now   func() time.Time
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*room),
		now:   time.Now,
	}
}

// room returns the named room, creating it if absent. Caller holds s.mu.
func (s *Store) room(id string) *room {
	r, ok := s.rooms[id]
	if !ok {
		r = newRoom()
		s.rooms[id] = r
	}
	return r
}

// AddClient registers the client in the room. Adding an already registered
// client is a no-op.
func (s *Store) AddClient(roomID string, c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room(roomID).clients[c] = struct{}{}
}

// Clients returns a snapshot of the room's membership, safe to iterate while
// the room is concurrently mutated. Unknown rooms yield an empty slice.
func (s *Store) Clients(roomID string) []*Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}

// RemoveClientEverywhere deregisters the client from every room. No-op for
// clients that never joined anything. O(rooms).
func (s *Store) RemoveClientEverywhere(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		delete(r.clients, c)
	}
}

// AppendMessage sanitizes, stores, and returns a message. Text is truncated
// to MaxTextLen runes, the author to MaxAuthorLen, and an empty author
// becomes DefaultAuthor. Timestamps are clamped so per-room insertion order
// stays non-decreasing even if the wall clock steps backwards.
func (s *Store) AppendMessage(roomID, text, author string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if author == "" {
		author = DefaultAuthor
	}
	r := s.room(roomID)

	ts := s.now().UnixMilli()
	if ts < r.lastTS {
		ts = r.lastTS
	}
	r.lastTS = ts

	msg := Message{
		ID:             uuid.NewString(),
		Text:           truncate(text, MaxTextLen),
		Author:         truncate(author, MaxAuthorLen),
		ConversationID: roomID,
		Timestamp:      ts,
	}

	r.history = append(r.history, msg)
	if len(r.history) > MaxHistory {
		copy(r.history, r.history[1:])
		r.history = r.history[:MaxHistory]
	}
	return msg
}

// History returns a snapshot of the room's messages, oldest first. Unknown
// rooms yield an empty slice.
func (s *Store) History(roomID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	return append([]Message(nil), r.history...)
}

// AddTyping records the author as typing in the room.
func (s *Store) AddTyping(roomID, author string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room(roomID).typing[author] = struct{}{}
}

// RemoveTyping removes the author from the room's typing set. Idempotent.
func (s *Store) RemoveTyping(roomID, author string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[roomID]; ok {
		delete(r.typing, author)
	}
}

// Typing returns a snapshot of the authors currently typing in the room.
func (s *Store) Typing(roomID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	authors := make([]string, 0, len(r.typing))
	for a := range r.typing {
		authors = append(authors, a)
	}
	return authors
}
