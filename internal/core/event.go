package core

import (
	"time"

	"github.com/vovakirdan/wirechess-server/internal/game"
)

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomState carries a full room snapshot for one recipient.
	EventRoomState EventKind = iota
	// EventRejected tells the originating connection its command failed.
	EventRejected
	// EventQueueStatus reports whether the connection is searching.
	EventQueueStatus
	// EventMatchFound announces the room a queued pair was placed in.
	EventMatchFound
	// EventGameEnded announces a finished game to the whole room.
	EventGameEnded
	// EventLegalMoves answers a legal move query.
	EventLegalMoves
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind      EventKind
	RoomID    string
	State     *RoomState   // EventRoomState
	Error     *CoreError   // EventRejected
	Searching bool         // EventQueueStatus
	Result    *game.Result // EventGameEnded
	Square    string       // EventLegalMoves
	Targets   []string     // EventLegalMoves
}

// RoomState is the recipient-specific projection of a room.
type RoomState struct {
	RoomID     string
	RoomStatus Status
	FEN        string
	PGN        string
	Turn       game.Color
	StatusText string
	Players    Players
	YouAre     Role
}

// RoomSummary is a read-only copy of a room for out-of-loop readers.
type RoomSummary struct {
	RoomID       string
	Status       Status
	Players      Players
	FEN          string
	Occupants    int
	CreatedAt    time.Time
	LastActiveAt time.Time
}
