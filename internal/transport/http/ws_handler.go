package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avolkov/chatrelay-server/internal/core"
	"github.com/avolkov/chatrelay-server/internal/proto"
)

// WSHandler upgrades HTTP connections and runs the per-connection protocol
// loop against the hub.
type WSHandler struct {
	hub      *core.Hub
	limits   core.LimiterConfig
	origins  []string
	allowAll bool
	log      *zerolog.Logger
}

// NewWSHandler builds a websocket handler. Origins is the configured origin
// allowlist; "*" disables the origin check.
func NewWSHandler(hub *core.Hub, limits core.LimiterConfig, origins []string, logger *zerolog.Logger) *WSHandler {
	patterns, allowAll := originHostPatterns(origins)
	return &WSHandler{
		hub:      hub,
		limits:   limits,
		origins:  patterns,
		allowAll: allowAll,
		log:      logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     h.origins,
		InsecureSkipVerify: h.allowAll,
	})
	if err != nil {
		h.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString(), h.limits)
	h.log.Debug().Str("client_id", client.ID).Msg("ws connection open")
	defer h.hub.Disconnect(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	h.log.Debug().Str("client_id", client.ID).Msg("ws connection closed")
	conn.Close(status, reason)
}

// readLoop consumes frames until the transport fails. A frame that cannot be
// parsed is logged and dropped; it never terminates the connection.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		h.handleFrame(client, data)
	}
}

func (h *WSHandler) handleFrame(client *core.Client, data []byte) {
	var frame proto.Inbound
	if err := json.Unmarshal(data, &frame); err != nil {
		h.log.Debug().Err(err).Str("client_id", client.ID).Msg("dropping malformed frame")
		return
	}

	switch frame.Type {
	case proto.InboundTypeJoin:
		h.hub.Join(client, conversationOrDefault(frame.ConversationID))

	case proto.InboundTypeMessage:
		var payload proto.MessagePayload
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("dropping message frame with bad payload")
			return
		}
		h.hub.PostMessage(client, conversationOrDefault(payload.ConversationID), payload.Text, payload.Author)

	case proto.InboundTypeTyping:
		var payload proto.TypingPayload
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("dropping typing frame with bad payload")
			return
		}
		h.hub.Typing(client, conversationOrDefault(payload.ConversationID), payload.Author)

	default:
		h.log.Debug().Str("client_id", client.ID).Str("type", frame.Type).Msg("ignoring unknown frame type")
	}
}

// writeLoop is the sole socket writer; it drains the client's event queue.
func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case ev, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(ev)); err != nil {
				h.log.Warn().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func conversationOrDefault(id string) string {
	if id == "" {
		return proto.DefaultConversation
	}
	return id
}
