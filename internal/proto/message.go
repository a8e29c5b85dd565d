// Package proto defines the JSON frames exchanged over the websocket.
package proto

import "encoding/json"

// Frame types accepted from clients.
const (
	InboundTypeJoin    = "join"
	InboundTypeMessage = "message"
	InboundTypeTyping  = "typing"
)

// Frame types sent to clients.
const (
	OutboundTypeHistory = "history"
	OutboundTypeMessage = "message"
	OutboundTypeTyping  = "typing"
	OutboundTypeError   = "error"
)

// DefaultConversation is used when a frame names no conversation.
const DefaultConversation = "general"

// Inbound is the envelope for frames coming from the client. Join frames
// carry the conversation id at the top level; message and typing frames carry
// it inside their payload.
type Inbound struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversationId,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// MessagePayload is the body of an inbound message frame.
type MessagePayload struct {
	Text           string `json:"text"`
	Author         string `json:"author,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// TypingPayload is the body of an inbound typing frame.
type TypingPayload struct {
	Author         string `json:"author"`
	ConversationID string `json:"conversationId,omitempty"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Message is the wire shape of a stored chat message.
type Message struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	Author         string `json:"author"`
	ConversationID string `json:"conversationId"`
	Timestamp      int64  `json:"timestamp"`
}

// ErrorPayload is the body of an outbound error frame.
type ErrorPayload struct {
	Message string `json:"message"`
}
