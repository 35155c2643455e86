package core

import "time"

// reap evicts rooms nobody is connected to that have been idle longer than
// the TTL. Watched rooms are kept no matter how long they idle.
func (h *Hub) reap(now time.Time) []string {
	var removed []string
	for _, room := range h.registry.List() {
		if len(h.channels[room.ID]) > 0 {
			continue
		}
		if now.Sub(room.LastActiveAt) <= h.ttl {
			continue
		}
		h.registry.Remove(room.ID)
		delete(h.channels, room.ID)
		removed = append(removed, room.ID)
	}
	if len(removed) > 0 {
		h.log.Info().Strs("room_ids", removed).Int("live_rooms", h.registry.Len()).Msg("reaped idle rooms")
	}
	return removed
}
