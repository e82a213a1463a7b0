package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/kmcrae/warfront/api/internal/room"
)

// ClientMessage is the envelope for actions sent from the client. Data
// holds the action-specific payload and is decoded by the room
// registry.
type ClientMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// WSConn wraps a WebSocket connection with its session and outbound
// queue. One session may hold several connections (multiple tabs).
type WSConn struct {
	conn      *websocket.Conn
	sessionID string
	name      string
	send      chan []byte
}

// Hub tracks live connections and which room each one watches. It
// implements room.Broadcaster, so rooms never touch sockets directly.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
	sessions    map[string]map[*WSConn]bool // sessionID -> connections
	rooms       map[string]map[*WSConn]bool // roomID -> connections
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*WSConn]bool),
		sessions:    make(map[string]map[*WSConn]bool),
		rooms:       make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
	if h.sessions[c.sessionID] == nil {
		h.sessions[c.sessionID] = make(map[*WSConn]bool)
	}
	h.sessions[c.sessionID][c] = true
}

// Unregister removes a connection from the hub and any room it watches.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, c)
	if conns, ok := h.sessions[c.sessionID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.sessions, c.sessionID)
		}
	}
	for roomID, conns := range h.rooms {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
	close(c.send)
}

// SessionConnected reports whether a session still has live
// connections.
func (h *Hub) SessionConnected(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID]) > 0
}

// WatchRoom subscribes a connection to a room's broadcasts.
func (h *Hub) WatchRoom(c *WSConn, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*WSConn]bool)
	}
	h.rooms[roomID][c] = true
}

// UnwatchRooms drops a connection's room subscriptions.
func (h *Hub) UnwatchRooms(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID, conns := range h.rooms {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// RoomWatcherCount returns the number of connections watching a room.
func (h *Hub) RoomWatcherCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func marshalEvent(e room.Event) ([]byte, bool) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("type", e.Type).Msg("Failed to marshal WebSocket event")
		return nil, false
	}
	return data, true
}

func (h *Hub) push(c *WSConn, data []byte) {
	select {
	case c.send <- data:
	default:
		log.Warn().Str("sessionId", c.sessionID).Msg("Dropping WebSocket message, buffer full")
	}
}
