package core

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAppendMessageCapsHistory(t *testing.T) {
	store := NewStore()

	for i := 0; i < 1200; i++ {
		store.AppendMessage("general", fmt.Sprintf("msg%d", i), fmt.Sprintf("u%d", i))
	}

	hist := store.History("general")
	if len(hist) != MaxHistory {
		t.Fatalf("history length = %d, want %d", len(hist), MaxHistory)
	}
	// The retained tail is the last MaxHistory messages, in order.
	if hist[0].Text != "msg200" {
		t.Fatalf("oldest retained = %q, want msg200", hist[0].Text)
	}
	if hist[len(hist)-1].Text != "msg1199" {
		t.Fatalf("newest retained = %q, want msg1199", hist[len(hist)-1].Text)
	}
}

func TestAppendMessageTruncatesAndDefaults(t *testing.T) {
	store := NewStore()

	msg := store.AppendMessage("t2", strings.Repeat("x", 5000), strings.Repeat("a", 500))
	if got := len([]rune(msg.Text)); got > MaxTextLen {
		t.Fatalf("text length = %d, want <= %d", got, MaxTextLen)
	}
	if got := len([]rune(msg.Author)); got > MaxAuthorLen {
		t.Fatalf("author length = %d, want <= %d", got, MaxAuthorLen)
	}

	msg = store.AppendMessage("t2", "hi", "")
	if msg.Author != DefaultAuthor {
		t.Fatalf("author = %q, want %q", msg.Author, DefaultAuthor)
	}
	if msg.ID == "" {
		t.Fatal("expected a generated message id")
	}
	if msg.ConversationID != "t2" {
		t.Fatalf("conversation id = %q, want t2", msg.ConversationID)
	}
}

func TestAppendMessageTimestampsNonDecreasing(t *testing.T) {
	store := NewStore()

	// Drive the clock backwards between appends; stored order must not.
	base := time.Now()
	times := []time.Time{base, base.Add(-time.Second), base.Add(time.Second)}
	i := 0
	store.now = func() time.Time {
		ts := times[i%len(times)]
		i++
		return ts
	}

	var prev int64
	for j := 0; j < 6; j++ {
		msg := store.AppendMessage("mono", "tick", "clock")
		if msg.Timestamp < prev {
			t.Fatalf("timestamp went backwards: %d after %d", msg.Timestamp, prev)
		}
		prev = msg.Timestamp
	}
}

func TestHistorySnapshotIsCopy(t *testing.T) {
	store := NewStore()
	store.AppendMessage("snap", "one", "alice")

	hist := store.History("snap")
	store.AppendMessage("snap", "two", "alice")

	if len(hist) != 1 {
		t.Fatalf("snapshot grew to %d entries", len(hist))
	}
	if got := store.History("unknown"); len(got) != 0 {
		t.Fatalf("unknown room history = %v, want empty", got)
	}
}

func TestClientMembership(t *testing.T) {
	store := NewStore()
	limits := DefaultLimiterConfig()
	c1 := NewClient("c1", limits)
	c2 := NewClient("c2", limits)

	store.AddClient("t3", c1)
	store.AddClient("t3", c1) // duplicate add is a no-op
	store.AddClient("t3", c2)
	store.AddClient("other", c1)

	if got := len(store.Clients("t3")); got != 2 {
		t.Fatalf("t3 clients = %d, want 2", got)
	}

	store.RemoveClientEverywhere(c1)
	for _, roomID := range []string{"t3", "other"} {
		for _, c := range store.Clients(roomID) {
			if c == c1 {
				t.Fatalf("c1 still present in %q", roomID)
			}
		}
	}
	if got := len(store.Clients("t3")); got != 1 {
		t.Fatalf("t3 clients after removal = %d, want 1", got)
	}

	// Removing a client that was never added is a no-op.
	store.RemoveClientEverywhere(NewClient("ghost", limits))
	if got := len(store.Clients("t3")); got != 1 {
		t.Fatalf("t3 clients after ghost removal = %d, want 1", got)
	}
}

func TestTypingSet(t *testing.T) {
	store := NewStore()

	store.AddTyping("t4", "alice")
	store.AddTyping("t4", "bob")

	typing := store.Typing("t4")
	if !hasAuthor(typing, "alice") || !hasAuthor(typing, "bob") {
		t.Fatalf("typing = %v, want alice and bob", typing)
	}

	store.RemoveTyping("t4", "alice")
	typing = store.Typing("t4")
	if hasAuthor(typing, "alice") || !hasAuthor(typing, "bob") {
		t.Fatalf("typing after removal = %v, want bob only", typing)
	}

	// Idempotent removal, including rooms that do not exist.
	store.RemoveTyping("t4", "alice")
	store.RemoveTyping("nowhere", "alice")
}
