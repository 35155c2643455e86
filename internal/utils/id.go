package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// RoomCodeLength is the number of characters in a room code.
const RoomCodeLength = 6

// NewRoomCode returns RoomCodeLength uppercase hex characters derived from
// random bytes. Uniqueness is the registry's job, not the generator's.
func NewRoomCode() string {
	buf := make([]byte, RoomCodeLength)
	if _, err := rand.Read(buf); err == nil {
		return strings.ToUpper(hex.EncodeToString(buf)[:RoomCodeLength])
	}

	// Fallback to timestamp if crypto/rand is unavailable.
	ts := strconv.FormatInt(time.Now().UnixNano(), 16)
	return strings.ToUpper(ts[len(ts)-RoomCodeLength:])
}

// NormalizeRoomCode trims and upper-cases a user supplied code.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
