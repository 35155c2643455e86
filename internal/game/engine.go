// Package game adapts a chess rules library to the narrow contract the room
// state machine depends on.
package game

import "errors"

// Color identifies the side to move. Values match the wire encoding.
type Color string

const (
	White Color = "w"
	Black Color = "b"
)

// Opposite returns the other side.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// Label returns the capitalized color name used in status texts and results.
func (c Color) Label() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// ErrIllegalMove is returned by Engine.Move for any move the rules reject,
// including malformed squares and promotion pieces.
var ErrIllegalMove = errors.New("illegal move")

// Engine is the rules-engine collaborator. Implementations own the full game
// state and never panic on bad input.
type Engine interface {
	// Turn reports the side to move.
	Turn() Color
	InCheck() bool
	IsCheckmate() bool
	IsStalemate() bool
	// IsDraw reports a drawn position by any standard rule, stalemate included.
	IsDraw() bool

	// Move plays from→to. Promotion is one of q, r, b, n or empty.
	// A rejected move leaves the state untouched.
	Move(from, to, promotion string) error
	// LegalDestinations lists target squares for the piece on square, sorted.
	LegalDestinations(square string) []string

	FEN() string
	PGN() string
	LoadFEN(fen string) error
	LoadPGN(pgn string) error
	Reset()
}

// Factory builds a fresh engine in the initial position.
type Factory func() Engine
