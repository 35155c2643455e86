package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechess-server/internal/core"
	"github.com/vovakirdan/wirechess-server/internal/proto"
	"github.com/vovakirdan/wirechess-server/internal/utils"
)

// RoomHandlers provides read-only HTTP handlers over the live rooms.
type RoomHandlers struct {
	hub Broker
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub Broker, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		hub: hub,
		log: logger,
	}
}

// RoomURI binds the room code path parameter.
type RoomURI struct {
	ID string `uri:"id" binding:"required,len=6,hexadecimal"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	RoomID       string        `json:"roomId"`
	RoomStatus   string        `json:"roomStatus"`
	Players      proto.Players `json:"players"`
	FEN          string        `json:"fen"`
	Occupants    int           `json:"occupants"`
	CreatedAt    string        `json:"createdAt"`
	LastActiveAt string        `json:"lastActiveAt"`
}

// ListRooms handles listing live rooms.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.hub.Rooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list rooms")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "hub unavailable"})
		return
	}

	response := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, roomResponse(room))
	}

	h.log.Debug().Int("room_count", len(rooms)).Msg("rooms listed")
	c.JSON(http.StatusOK, response)
}

// GetRoom handles fetching a single room by code.
// GET /api/rooms/:id
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	var uri RoomURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.log.Debug().Err(err).Msg("invalid room code")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room code"})
		return
	}

	room, err := h.hub.Room(c.Request.Context(), utils.NormalizeRoomCode(uri.ID))
	switch {
	case errors.Is(err, core.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrRoomNotFound.Message})
		return
	case err != nil:
		h.log.Error().Err(err).Str("room_id", uri.ID).Msg("failed to get room")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "hub unavailable"})
		return
	}

	c.JSON(http.StatusOK, roomResponse(room))
}

func roomResponse(room core.RoomSummary) RoomResponse {
	return RoomResponse{
		RoomID:       room.RoomID,
		RoomStatus:   string(room.Status),
		Players:      proto.Players{White: room.Players.White, Black: room.Players.Black},
		FEN:          room.FEN,
		Occupants:    room.Occupants,
		CreatedAt:    room.CreatedAt.Format(time.RFC3339),
		LastActiveAt: room.LastActiveAt.Format(time.RFC3339),
	}
}
