package handler

import (
	"net/http"

	"github.com/kmcrae/warfront/api/internal/room"
)

// RoomsHandler exposes the lobby browser.
type RoomsHandler struct {
	registry *room.Registry
}

// NewRoomsHandler creates a RoomsHandler.
func NewRoomsHandler(registry *room.Registry) *RoomsHandler {
	return &RoomsHandler{registry: registry}
}

type roomsResponse struct {
	Rooms []room.LobbyState `json:"rooms"`
}

// HandleList handles GET /rooms — lists joinable and running rooms.
func (h *RoomsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ids := h.registry.RoomIDs()
	rooms := make([]room.LobbyState, 0, len(ids))
	for _, id := range ids {
		if rm, ok := h.registry.Room(id); ok {
			rooms = append(rooms, rm.LobbySnapshot())
		}
	}
	writeJSON(w, http.StatusOK, roomsResponse{Rooms: rooms})
}
