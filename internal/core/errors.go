package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeRoomNotFound  = "room_not_found"
	ErrCodeNotYourTurn   = "not_your_turn"
	ErrCodeIllegalMove   = "illegal_move"
	ErrCodeNotAPlayer    = "not_a_player"
	ErrCodeEmptyRoomCode = "empty_room_code"
	ErrCodeBadRequest    = "bad_request"
	ErrCodeRateLimited   = "rate_limited"
	ErrCodeInternal      = "internal"
)

// Rejections reported to the originating connection. They are compared by
// identity, so errors.Is works on them.
var (
	ErrRoomNotFound  = coreError(ErrCodeRoomNotFound, "Room not found")
	ErrNotYourTurn   = coreError(ErrCodeNotYourTurn, "Not your turn")
	ErrIllegalMove   = coreError(ErrCodeIllegalMove, "Illegal move")
	ErrGameOver      = coreError(ErrCodeIllegalMove, "Game is over")
	ErrNotAPlayer    = coreError(ErrCodeNotAPlayer, "Not a player in this room")
	ErrEmptyRoomCode = coreError(ErrCodeEmptyRoomCode, "Room code is required")
	errInternal      = coreError(ErrCodeInternal, "Internal error")
)

var (
	// ErrRoomExists is returned by Registry.Create on an id collision.
	ErrRoomExists = errors.New("room already exists")
	// ErrHubStopped is returned when the hub loop is no longer running.
	ErrHubStopped = errors.New("hub stopped")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// NewError builds a rejection outside the core taxonomy, e.g. for malformed
// transport payloads.
func NewError(code, msg string) *CoreError {
	return coreError(code, msg)
}

// asCoreError maps any error to a rejection, falling back to a generic one.
func asCoreError(err error) *CoreError {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce
	}
	return errInternal
}
