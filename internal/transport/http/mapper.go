package http

import (
	"github.com/avolkov/chatrelay-server/internal/core"
	"github.com/avolkov/chatrelay-server/internal/proto"
)

func wireMessage(m core.Message) proto.Message {
	return proto.Message{
		ID:             m.ID,
		Text:           m.Text,
		Author:         m.Author,
		ConversationID: m.ConversationID,
		Timestamp:      m.Timestamp,
	}
}

func outboundFromEvent(ev *core.Event) proto.Outbound {
	switch ev.Kind {
	case core.EventHistory:
		// Empty history must serialize as [], not null.
		messages := make([]proto.Message, 0, len(ev.Messages))
		for _, m := range ev.Messages {
			messages = append(messages, wireMessage(m))
		}
		return proto.Outbound{Type: proto.OutboundTypeHistory, Payload: messages}
	case core.EventMessage:
		return proto.Outbound{Type: proto.OutboundTypeMessage, Payload: wireMessage(ev.Message)}
	case core.EventTyping:
		typing := ev.Typing
		if typing == nil {
			typing = []string{}
		}
		return proto.Outbound{Type: proto.OutboundTypeTyping, Payload: typing}
	case core.EventError:
		return proto.Outbound{Type: proto.OutboundTypeError, Payload: proto.ErrorPayload{Message: ev.ErrorCode}}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Payload: proto.ErrorPayload{Message: "unknown"}}
	}
}
