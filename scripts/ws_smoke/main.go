// Command ws_smoke exercises a running relay end to end: join a room, post a
// message, signal typing, and print every frame the server sends back.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/avolkov/chatrelay-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "general", "conversation id to join")
	author := flag.String("author", "smoke", "author name for the message")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoin, ConversationID: *room}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	msgPayload, err := json.Marshal(proto.MessagePayload{Text: *text, Author: *author, ConversationID: *room})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeMessage, Payload: msgPayload}); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	typingPayload, err := json.Marshal(proto.TypingPayload{Author: *author, ConversationID: *room})
	if err != nil {
		return fmt.Errorf("marshal typing: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeTyping, Payload: typingPayload}); err != nil {
		return fmt.Errorf("send typing: %w", err)
	}

	// Print frames until the deadline; the typing expiry should arrive last.
	for {
		var frame map[string]any
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		pretty, _ := json.Marshal(frame)
		fmt.Println(string(pretty))
	}
}
