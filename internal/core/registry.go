package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/vovakirdan/wirechess-server/internal/game"
	"github.com/vovakirdan/wirechess-server/internal/utils"
)

// maxCodeAttempts bounds CreateUnique. With 16^6 codes it is only reached
// when the code generator is broken.
const maxCodeAttempts = 1024

// Registry owns the live rooms keyed by room code.
// Not safe for concurrent use; the hub loop owns it.
type Registry struct {
	rooms     map[string]*Room
	newEngine game.Factory
	newCode   func() string
	now       func() time.Time
}

// NewRegistry builds an empty registry. Nil arguments fall back to the chess
// engine, random room codes and the wall clock.
func NewRegistry(newEngine game.Factory, newCode func() string, now func() time.Time) *Registry {
	if newEngine == nil {
		newEngine = game.NewChessEngine
	}
	if newCode == nil {
		newCode = utils.NewRoomCode
	}
	if now == nil {
		now = time.Now
	}
	return &Registry{
		rooms:     make(map[string]*Room),
		newEngine: newEngine,
		newCode:   newCode,
		now:       now,
	}
}

// Create allocates a room with the creator as white.
func (r *Registry) Create(roomID, creatorClientID string) (*Room, error) {
	if _, exists := r.rooms[roomID]; exists {
		return nil, fmt.Errorf("create room %s: %w", roomID, ErrRoomExists)
	}
	room := newRoom(roomID, creatorClientID, r.newEngine(), r.now)
	r.rooms[roomID] = room
	return room, nil
}

// CreateUnique picks fresh codes until one is free, then creates the room.
func (r *Registry) CreateUnique(creatorClientID string) (*Room, error) {
	for range maxCodeAttempts {
		code := r.newCode()
		if _, taken := r.rooms[code]; taken {
			continue
		}
		return r.Create(code, creatorClientID)
	}
	return nil, fmt.Errorf("no free room code after %d attempts", maxCodeAttempts)
}

// Get looks a room up by code.
func (r *Registry) Get(roomID string) (*Room, bool) {
	room, ok := r.rooms[roomID]
	return room, ok
}

// Remove evicts a room. Returns true if it existed.
func (r *Registry) Remove(roomID string) bool {
	if _, ok := r.rooms[roomID]; !ok {
		return false
	}
	delete(r.rooms, roomID)
	return true
}

// List returns live rooms, oldest first.
func (r *Registry) List() []*Room {
	out := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Touch records activity on a room.
func (r *Registry) Touch(room *Room) {
	room.Touch()
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	return len(r.rooms)
}
