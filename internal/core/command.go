package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom opens a new room with the caller as white.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom seats the caller in a room or makes them a spectator.
	CommandJoinRoom
	// CommandJoinQueue puts the caller in the matchmaking queue.
	CommandJoinQueue
	// CommandLeaveQueue removes the caller from the matchmaking queue.
	CommandLeaveQueue
	// CommandMakeMove plays a move.
	CommandMakeMove
	// CommandSyncRequest re-broadcasts a room without changing it.
	CommandSyncRequest
	// CommandResign concedes the game.
	CommandResign
	// CommandRematch resets the board for another game.
	CommandRematch
	// CommandLegalMoves asks for the legal targets of one square.
	CommandLegalMoves
)

var commandNames = map[CommandKind]string{
	CommandCreateRoom:  "create_room",
	CommandJoinRoom:    "join_room",
	CommandJoinQueue:   "join_queue",
	CommandLeaveQueue:  "leave_queue",
	CommandMakeMove:    "make_move",
	CommandSyncRequest: "sync_request",
	CommandResign:      "resign",
	CommandRematch:     "rematch",
	CommandLegalMoves:  "legal_moves",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command represents an action requested by a client.
type Command struct {
	Kind   CommandKind
	RoomID string
	Move   Move
	Square string
}
