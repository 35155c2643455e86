package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/wirechess-server/internal/proto"
)

type rawOutbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3001/ws", "WebSocket address")
	clientID := flag.String("client", "smoke-tester", "client id to declare")
	move := flag.String("move", "e2e4", "opening move to play as white (empty to skip)")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr+"?clientId="+*clientID, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundRoomCreate}); err != nil {
		return fmt.Errorf("send create: %w", err)
	}
	state, err := readState(ctx, conn)
	if err != nil {
		return err
	}
	printState(state)

	if len(*move) < 4 {
		return nil
	}
	payload, err := json.Marshal(proto.MoveData{RoomID: state.RoomID, From: (*move)[:2], To: (*move)[2:4], Promotion: (*move)[4:]})
	if err != nil {
		return fmt.Errorf("marshal move: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundMoveMake, Data: payload}); err != nil {
		return fmt.Errorf("send move: %w", err)
	}
	state, err = readState(ctx, conn)
	if err != nil {
		return err
	}
	printState(state)
	return nil
}

// readState waits for the next room state, failing on a rejection.
func readState(ctx context.Context, conn *websocket.Conn) (proto.RoomState, error) {
	for {
		var outbound rawOutbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return proto.RoomState{}, fmt.Errorf("read: %w", err)
		}
		switch outbound.Type {
		case proto.OutboundRoomState:
			var state proto.RoomState
			if err := json.Unmarshal(outbound.Data, &state); err != nil {
				return proto.RoomState{}, fmt.Errorf("decode state: %w", err)
			}
			return state, nil
		case proto.OutboundRejected:
			var rejected proto.Rejected
			_ = json.Unmarshal(outbound.Data, &rejected)
			return proto.RoomState{}, fmt.Errorf("rejected: %s (%s)", rejected.Reason, rejected.Code)
		default:
			fmt.Printf("Received outbound: type=%s data=%s\n", outbound.Type, outbound.Data)
		}
	}
}

func printState(s proto.RoomState) {
	fmt.Printf("room=%s status=%s turn=%s you=%s\n  %s\n  fen=%s\n", s.RoomID, s.RoomStatus, s.Turn, s.YouAre, s.Status, s.FEN)
}
