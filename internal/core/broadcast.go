package core

import "github.com/vovakirdan/wirechess-server/internal/game"

func (h *Hub) subscribe(c *Client, roomID string) {
	members, ok := h.channels[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		h.channels[roomID] = members
	}
	members[c] = struct{}{}
	c.rooms[roomID] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, roomID string) {
	delete(c.rooms, roomID)
	members, ok := h.channels[roomID]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.channels, roomID)
	}
}

// occupants snapshots the connections subscribed to a room. Callers read room
// state after taking the snapshot, so every delivery is a fresh full state.
func (h *Hub) occupants(roomID string) []*Client {
	members := h.channels[roomID]
	out := make([]*Client, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

// broadcastRoom sends every subscribed connection its own view of the room.
func (h *Hub) broadcastRoom(room *Room) {
	for _, c := range h.occupants(room.ID) {
		h.send(c, &Event{Kind: EventRoomState, RoomID: room.ID, State: stateFor(room, c.ClientID)})
	}
}

// emitRoom sends the same event to every subscribed connection.
func (h *Hub) emitRoom(roomID string, ev *Event) {
	for _, c := range h.occupants(roomID) {
		h.send(c, ev)
	}
}

func (h *Hub) send(c *Client, ev *Event) {
	if !c.Deliver(ev) {
		h.log.Warn().Str("conn_id", c.ID).Str("room_id", ev.RoomID).Msg("event buffer full, dropping event")
	}
}

func (h *Hub) reject(c *Client, err *CoreError) {
	h.log.Debug().Str("conn_id", c.ID).Str("code", err.Code).Msg(err.Message)
	h.send(c, &Event{Kind: EventRejected, Error: err})
}

// stateFor projects a room for one recipient.
func stateFor(room *Room, clientID string) *RoomState {
	return &RoomState{
		RoomID:     room.ID,
		RoomStatus: room.Status,
		FEN:        room.Board.FEN(),
		PGN:        room.Board.PGN(),
		Turn:       room.Board.Turn(),
		StatusText: game.StatusText(room.Board),
		Players:    room.Players,
		YouAre:     room.RoleOf(clientID),
	}
}
