package handler

import (
	"github.com/kmcrae/warfront/api/internal/room"
)

var _ room.Broadcaster = (*Hub)(nil)

// BroadcastToRoom sends an event to every connection watching a room.
func (h *Hub) BroadcastToRoom(roomID string, e room.Event) {
	data, ok := marshalEvent(e)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		h.push(c, data)
	}
}

// SendToSession sends an event to all of one session's connections.
// Used for private payloads: sanitized state views, card awards, pact
// proposals, and action errors.
func (h *Hub) SendToSession(sessionID string, e room.Event) {
	data, ok := marshalEvent(e)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.sessions[sessionID] {
		h.push(c, data)
	}
}
