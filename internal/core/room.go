package core

import (
	"time"

	"github.com/vovakirdan/wirechess-server/internal/game"
)

// Status is the lifecycle state of a room.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

// Role is a connection's part in a room. It is always derived from the
// players map, never stored.
type Role string

const (
	RoleWhite     Role = Role(game.White)
	RoleBlack     Role = Role(game.Black)
	RoleSpectator Role = "spectator"
)

// Players holds the client ids seated at each color. Empty means free.
type Players struct {
	White string
	Black string
}

// Move is a move request in coordinate form.
type Move struct {
	From      string
	To        string
	Promotion string
}

// Room is the authoritative state of one match.
type Room struct {
	ID           string
	Board        game.Engine
	Players      Players
	Status       Status
	CreatedAt    time.Time
	LastActiveAt time.Time

	now func() time.Time
}

func newRoom(id, creator string, board game.Engine, now func() time.Time) *Room {
	ts := now()
	return &Room{
		ID:           id,
		Board:        board,
		Players:      Players{White: creator},
		Status:       StatusWaiting,
		CreatedAt:    ts,
		LastActiveAt: ts,
		now:          now,
	}
}

// Touch records activity.
func (r *Room) Touch() {
	r.LastActiveAt = r.now()
}

// RoleOf derives the role of a client id.
func (r *Room) RoleOf(clientID string) Role {
	switch {
	case clientID == "":
		return RoleSpectator
	case r.Players.White == clientID:
		return RoleWhite
	case r.Players.Black == clientID:
		return RoleBlack
	default:
		return RoleSpectator
	}
}

// Full reports whether both seats are taken.
func (r *Room) Full() bool {
	return r.Players.White != "" && r.Players.Black != ""
}

func (r *Room) occupancyStatus() Status {
	if r.Full() {
		return StatusActive
	}
	return StatusWaiting
}

// Join seats the client in the first free slot, white first. A client that
// already holds a seat keeps it, and a full room turns joiners into
// spectators.
func (r *Room) Join(clientID string) Role {
	if role := r.RoleOf(clientID); role != RoleSpectator || clientID == "" {
		return role
	}
	var role Role
	switch {
	case r.Players.White == "":
		r.Players.White = clientID
		role = RoleWhite
	case r.Players.Black == "":
		r.Players.Black = clientID
		role = RoleBlack
	default:
		return RoleSpectator
	}
	if r.Status != StatusEnded {
		r.Status = r.occupancyStatus()
	}
	r.Touch()
	return role
}

// SetPlayers seats a matched pair and starts the game.
func (r *Room) SetPlayers(white, black string) {
	r.Players = Players{White: white, Black: black}
	r.Status = StatusActive
	r.Touch()
}

// ApplyMove plays a move for the acting client. On rejection the board is
// untouched. A non-nil result means the move concluded the game.
func (r *Room) ApplyMove(clientID string, mv Move) (*game.Result, error) {
	role := r.RoleOf(clientID)
	if role == RoleSpectator {
		return nil, ErrNotAPlayer
	}
	if r.Status == StatusEnded {
		return nil, ErrGameOver
	}
	if game.Color(role) != r.Board.Turn() {
		return nil, ErrNotYourTurn
	}
	if err := r.Board.Move(mv.From, mv.To, mv.Promotion); err != nil {
		return nil, ErrIllegalMove
	}

	r.Status = r.occupancyStatus()
	r.Touch()

	result := game.Outcome(r.Board)
	if result != nil {
		r.Status = StatusEnded
	}
	return result, nil
}

// Resign ends the game in favor of the other color.
func (r *Room) Resign(clientID string) (game.Result, error) {
	role := r.RoleOf(clientID)
	if role == RoleSpectator {
		return game.Result{}, ErrNotAPlayer
	}
	if r.Status == StatusEnded {
		return game.Result{}, ErrGameOver
	}
	r.Status = StatusEnded
	r.Touch()
	return game.Resignation(game.Color(role)), nil
}

// Rematch resets the board keeping seats and colors.
func (r *Room) Rematch(clientID string) error {
	if r.RoleOf(clientID) == RoleSpectator {
		return ErrNotAPlayer
	}
	r.Board.Reset()
	r.Status = r.occupancyStatus()
	r.Touch()
	return nil
}

// HasPlayer reports whether the client holds either seat.
func (r *Room) HasPlayer(clientID string) bool {
	return r.RoleOf(clientID) != RoleSpectator
}
