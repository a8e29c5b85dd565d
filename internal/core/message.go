package core

const (
	// MaxHistory bounds per-room message retention. The oldest entry is
	// evicted once the bound is exceeded.
	MaxHistory = 1000

	// MaxTextLen and MaxAuthorLen bound message fields. Longer input is
	// truncated, never rejected.
	MaxTextLen   = 2000
	MaxAuthorLen = 100

	// DefaultAuthor is attached to messages that carry no author.
	DefaultAuthor = "Guest"
)

// Message is the domain model for a chat message. Never mutated after it is
// appended to a room's history.
type Message struct {
	ID             string
	Text           string
	Author         string
	ConversationID string
	Timestamp      int64 // epoch milliseconds, assigned server-side
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
