package core

// Error codes surfaced to clients in error frames.
const (
	// ErrCodeRateLimited is sent when a message frame exceeds the
	// connection's token budget. Typing frames are dropped without a reply.
	ErrCodeRateLimited = "rate_limited"
	// ErrCodeInvalidPayload is sent when a message frame carries no text.
	ErrCodeInvalidPayload = "invalid_payload"
)
