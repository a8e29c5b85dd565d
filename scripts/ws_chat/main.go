// Command ws_chat is a tiny terminal client for a running relay: it joins a
// room, prints incoming frames, and sends each stdin line as a message.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/avolkov/chatrelay-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	author := flag.String("author", "cli-user", "author name")
	room := flag.String("room", "general", "conversation id to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoin, ConversationID: *room}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Printf("Connected to %s as %s in room %s\n", *addr, *author, *room)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, *room, *author)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var frame struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch frame.Type {
		case proto.OutboundTypeMessage:
			var msg proto.Message
			if err := json.Unmarshal(frame.Payload, &msg); err != nil {
				log.Printf("unmarshal message: %v", err)
				continue
			}
			fmt.Printf("[%s] %s: %s\n", msg.ConversationID, msg.Author, msg.Text)
		case proto.OutboundTypeHistory:
			var history []proto.Message
			if err := json.Unmarshal(frame.Payload, &history); err != nil {
				log.Printf("unmarshal history: %v", err)
				continue
			}
			for _, msg := range history {
				fmt.Printf("[%s] %s: %s\n", msg.ConversationID, msg.Author, msg.Text)
			}
		case proto.OutboundTypeTyping:
			var typing []string
			if err := json.Unmarshal(frame.Payload, &typing); err != nil {
				log.Printf("unmarshal typing: %v", err)
				continue
			}
			if len(typing) > 0 {
				fmt.Printf("typing: %s\n", strings.Join(typing, ", "))
			}
		case proto.OutboundTypeError:
			var errPayload proto.ErrorPayload
			if err := json.Unmarshal(frame.Payload, &errPayload); err != nil {
				log.Printf("unmarshal error: %v", err)
				continue
			}
			fmt.Printf("server error: %s\n", errPayload.Message)
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, room, author string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		payload, err := json.Marshal(proto.MessagePayload{Text: text, Author: author, ConversationID: room})
		if err != nil {
			log.Printf("marshal message: %v", err)
			continue
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeMessage, Payload: payload}); err != nil {
			log.Printf("send: %v", err)
			return
		}
	}
}
