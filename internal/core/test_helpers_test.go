package core

import (
	"testing"
	"time"
)

// mustEvent drains the channel until an event of the wanted kind arrives.
func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// noEvent asserts that nothing arrives on the channel within the window.
func noEvent(t *testing.T, ch <-chan *Event, window time.Duration) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(window):
	}
}

func hasAuthor(typing []string, author string) bool {
	for _, a := range typing {
		if a == author {
			return true
		}
	}
	return false
}
