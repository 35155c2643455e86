package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	InboundRoomCreate   = "room:create"
	InboundRoomJoin     = "room:join"
	InboundQueueJoin    = "queue:join"
	InboundQueueLeave   = "queue:leave"
	InboundMoveMake     = "move:make"
	InboundSyncRequest  = "sync:request"
	InboundGameResign   = "game:resign"
	InboundGameRematch  = "game:rematch"
	InboundMovesRequest = "moves:request"

	OutboundRoomState   = "room:state"
	OutboundRejected    = "move:rejected"
	OutboundQueueStatus = "queue:status"
	OutboundMatchFound  = "match:found"
	OutboundGameEnded   = "game:ended"
	OutboundMovesList   = "moves:list"
)

// RoomData addresses a room. Used by join, sync, resign and rematch.
type RoomData struct {
	RoomID string `json:"roomId"`
}

// MoveData requests a move in coordinate form, e.g. e2 to e4.
type MoveData struct {
	RoomID    string `json:"roomId"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// MovesData asks for the legal destinations of the piece on Square.
type MovesData struct {
	RoomID string `json:"roomId"`
	Square string `json:"square"`
}

// Players lists the client ids seated at each color.
type Players struct {
	White string `json:"white,omitempty"`
	Black string `json:"black,omitempty"`
}

// RoomState is the full snapshot a connection receives after every change.
type RoomState struct {
	RoomID     string  `json:"roomId"`
	RoomStatus string  `json:"roomStatus"`
	FEN        string  `json:"fen"`
	PGN        string  `json:"pgn"`
	Turn       string  `json:"turn"`
	Status     string  `json:"status"`
	Players    Players `json:"players"`
	YouAre     string  `json:"youAre"`
}

// Rejected tells the sender why its request had no effect.
type Rejected struct {
	Reason string `json:"reason"`
	Code   string `json:"code,omitempty"`
}

type QueueStatus struct {
	Searching bool `json:"searching"`
}

type MatchFound struct {
	RoomID string `json:"roomId"`
}

type GameEnded struct {
	Result string `json:"result"`
	Reason string `json:"reason"`
}

type LegalMoves struct {
	RoomID  string   `json:"roomId"`
	Square  string   `json:"square"`
	Targets []string `json:"targets"`
}
