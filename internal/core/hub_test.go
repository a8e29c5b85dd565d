package core

import (
	"testing"
	"time"
)

func newTestHub(typingTTL time.Duration) *Hub {
	return NewHub(NewStore(), typingTTL)
}

func TestHubJoinRepliesWithHistory(t *testing.T) {
	hub := newTestHub(0)
	hub.Store().AppendMessage("general", "earlier", "alice")

	bob := NewClient("b", DefaultLimiterConfig())
	hub.Join(bob, "general")

	ev := mustEvent(t, bob.Events, EventHistory)
	if ev.Room != "general" {
		t.Fatalf("history room = %q, want general", ev.Room)
	}
	if len(ev.Messages) != 1 || ev.Messages[0].Text != "earlier" {
		t.Fatalf("unexpected history: %+v", ev.Messages)
	}
}

func TestHubJoinFreshRoomRepliesWithEmptyHistory(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", DefaultLimiterConfig())
	hub.Join(alice, "fresh")

	ev := mustEvent(t, alice.Events, EventHistory)
	if ev.Messages == nil || len(ev.Messages) != 0 {
		t.Fatalf("fresh room history = %#v, want empty non-nil slice", ev.Messages)
	}
}

func TestHubPostMessageBroadcastsToRoomIncludingSender(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", DefaultLimiterConfig())
	bob := NewClient("b", DefaultLimiterConfig())
	outsider := NewClient("c", DefaultLimiterConfig())
	hub.Join(alice, "general")
	hub.Join(bob, "general")
	hub.Join(outsider, "elsewhere")
	mustEvent(t, outsider.Events, EventHistory)

	hub.PostMessage(alice, "general", "hi", "alice")

	for _, c := range []*Client{alice, bob} {
		ev := mustEvent(t, c.Events, EventMessage)
		if ev.Message.Text != "hi" || ev.Message.Author != "alice" {
			t.Fatalf("unexpected message event for %s: %+v", c.ID, ev.Message)
		}
	}
	noEvent(t, outsider.Events, 50*time.Millisecond)
}

func TestHubPostMessageRateLimited(t *testing.T) {
	hub := newTestHub(0)

	limits := LimiterConfig{Capacity: 1, RefillPerSec: 0, CostMessage: 1, CostTyping: 0.2}
	alice := NewClient("a", limits)
	bob := NewClient("b", limits)
	hub.Join(alice, "general")
	hub.Join(bob, "general")

	hub.PostMessage(alice, "general", "first", "alice")
	hub.PostMessage(alice, "general", "second", "alice")

	ev := mustEvent(t, alice.Events, EventError)
	if ev.ErrorCode != ErrCodeRateLimited {
		t.Fatalf("error code = %q, want %q", ev.ErrorCode, ErrCodeRateLimited)
	}

	// The denied message was never stored or broadcast.
	if got := len(hub.Store().History("general")); got != 1 {
		t.Fatalf("history length = %d, want 1", got)
	}
	mustEvent(t, bob.Events, EventMessage)
	noEvent(t, bob.Events, 50*time.Millisecond)
}

func TestHubPostMessageEmptyTextInvalid(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", DefaultLimiterConfig())
	bob := NewClient("b", DefaultLimiterConfig())
	hub.Join(alice, "general")
	hub.Join(bob, "general")
	mustEvent(t, bob.Events, EventHistory)

	hub.PostMessage(alice, "general", "", "alice")

	ev := mustEvent(t, alice.Events, EventError)
	if ev.ErrorCode != ErrCodeInvalidPayload {
		t.Fatalf("error code = %q, want %q", ev.ErrorCode, ErrCodeInvalidPayload)
	}
	if got := len(hub.Store().History("general")); got != 0 {
		t.Fatalf("history length = %d, want 0", got)
	}
	noEvent(t, bob.Events, 50*time.Millisecond)
}

func TestHubTypingBroadcastsAndExpires(t *testing.T) {
	hub := newTestHub(30 * time.Millisecond)
	defer hub.Shutdown()

	alice := NewClient("a", DefaultLimiterConfig())
	bob := NewClient("b", DefaultLimiterConfig())
	hub.Join(alice, "general")
	hub.Join(bob, "general")

	hub.Typing(alice, "general", "alice")

	ev := mustEvent(t, bob.Events, EventTyping)
	if !hasAuthor(ev.Typing, "alice") {
		t.Fatalf("typing set %v does not include alice", ev.Typing)
	}

	// The scheduled expiry re-broadcasts the shrunken set.
	ev = mustEvent(t, bob.Events, EventTyping)
	if hasAuthor(ev.Typing, "alice") {
		t.Fatalf("typing set %v still includes alice after expiry", ev.Typing)
	}
	if hasAuthor(hub.Store().Typing("general"), "alice") {
		t.Fatal("store typing set still includes alice after expiry")
	}
}

func TestHubTypingRateLimitedIsSilent(t *testing.T) {
	hub := newTestHub(0)

	limits := LimiterConfig{Capacity: 0, RefillPerSec: 0, CostMessage: 1, CostTyping: 0.2}
	alice := NewClient("a", limits)
	hub.Join(alice, "general")
	mustEvent(t, alice.Events, EventHistory)

	hub.Typing(alice, "general", "alice")

	// Denied typing produces no error reply and no typing broadcast.
	noEvent(t, alice.Events, 50*time.Millisecond)
	if len(hub.Store().Typing("general")) != 0 {
		t.Fatal("typing set mutated by a denied signal")
	}
}

func TestHubTypingWithoutAuthorIgnored(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", DefaultLimiterConfig())
	hub.Join(alice, "general")
	mustEvent(t, alice.Events, EventHistory)

	hub.Typing(alice, "general", "")

	noEvent(t, alice.Events, 50*time.Millisecond)
}

func TestHubBroadcastSkipsClosedClients(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", DefaultLimiterConfig())
	bob := NewClient("b", DefaultLimiterConfig())
	hub.Join(alice, "general")
	hub.Join(bob, "general")
	mustEvent(t, bob.Events, EventHistory)

	// Bob's transport went away but its close handling has not run yet.
	bob.Close()

	hub.PostMessage(alice, "general", "hi", "alice")

	mustEvent(t, alice.Events, EventMessage)
	noEvent(t, bob.Events, 50*time.Millisecond)
}

func TestHubDisconnectRemovesFromAllRooms(t *testing.T) {
	hub := newTestHub(0)

	alice := NewClient("a", DefaultLimiterConfig())
	bob := NewClient("b", DefaultLimiterConfig())
	hub.Join(alice, "one")
	hub.Join(alice, "two")
	hub.Join(bob, "one")

	hub.Disconnect(alice)

	if alice.Open() {
		t.Fatal("disconnected client still open")
	}
	for _, roomID := range []string{"one", "two"} {
		for _, c := range hub.Store().Clients(roomID) {
			if c == alice {
				t.Fatalf("alice still registered in %q", roomID)
			}
		}
	}
	if got := len(hub.Store().Clients("one")); got != 1 {
		t.Fatalf("room one clients = %d, want 1", got)
	}
}

func TestHubShutdownStopsPendingExpiries(t *testing.T) {
	hub := newTestHub(50 * time.Millisecond)

	alice := NewClient("a", DefaultLimiterConfig())
	hub.Join(alice, "general")
	mustEvent(t, alice.Events, EventHistory)

	hub.Typing(alice, "general", "alice")
	mustEvent(t, alice.Events, EventTyping)

	hub.Shutdown()

	// The expiry timer was stopped; no second typing broadcast arrives.
	noEvent(t, alice.Events, 120*time.Millisecond)
}
