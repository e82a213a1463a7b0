package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/kmcrae/warfront/api/internal/auth"
	"github.com/kmcrae/warfront/api/internal/room"
	"github.com/kmcrae/warfront/api/pkg/risk"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS handled by middleware; tighten in production
	},
}

// WSHandler handles WebSocket connections and feeds client actions to
// the room registry.
type WSHandler struct {
	hub      *Hub
	jwtMgr   *auth.JWTManager
	registry *room.Registry
}

// NewWSHandler creates a WSHandler.
func NewWSHandler(hub *Hub, jwtMgr *auth.JWTManager, registry *room.Registry) *WSHandler {
	return &WSHandler{hub: hub, jwtMgr: jwtMgr, registry: registry}
}

// ServeWS handles GET /ws — upgrades to WebSocket.
// Auth via ?token= query parameter (WebSocket can't send headers).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, `{"error":"missing token parameter"}`, http.StatusUnauthorized)
		return
	}

	claims, err := h.jwtMgr.ValidateToken(tokenStr)
	if err != nil {
		http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSConn{
		conn:      conn,
		sessionID: claims.SessionID,
		name:      claims.Name,
		send:      make(chan []byte, sendBufSize),
	}
	h.hub.Register(client)

	// A reconnecting session may already be seated in a room; resume
	// its broadcasts.
	if rm, ok := h.registry.RoomOf(claims.SessionID); ok {
		h.hub.WatchRoom(client, rm.ID)
	}

	welcome, _ := json.Marshal(room.Event{
		Type: "connected",
		Data: map[string]string{"session_id": claims.SessionID, "name": claims.Name},
	})
	client.send <- welcome

	go h.writePump(client)
	go h.readPump(client)

	log.Info().Str("sessionId", claims.SessionID).Int("total", h.hub.ConnectionCount()).Msg("WebSocket client connected")
}

// readPump reads client actions and routes them to the registry. A
// rejected action only ever errors back to the acting session.
func (h *WSHandler) readPump(c *WSConn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		if !h.hub.SessionConnected(c.sessionID) {
			h.registry.HandleDisconnect(c.sessionID)
		}
		log.Info().Str("sessionId", c.sessionID).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("sessionId", c.sessionID).Msg("WebSocket unexpected close")
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.Action == "" {
			continue
		}

		h.dispatch(c, msg)
	}
}

// dispatch runs one action and maintains the connection's room
// subscription around membership changes.
func (h *WSHandler) dispatch(c *WSConn, msg ClientMessage) {
	if err := h.registry.HandleAction(c.sessionID, msg.Action, msg.Data); err != nil {
		h.sendError(c, err)
		return
	}

	switch msg.Action {
	case room.ActionCreate, room.ActionJoin:
		if rm, ok := h.registry.RoomOf(c.sessionID); ok {
			h.hub.WatchRoom(c, rm.ID)
			// Late joiners need the lobby they just walked into.
			h.hub.SendToSession(c.sessionID, room.Event{Type: room.EventLobbyUpdate, Data: rm.LobbySnapshot()})
		}
	case room.ActionLeave:
		h.hub.UnwatchRooms(c)
	}
}

// sendError reports a rejected action back to its sender only.
func (h *WSHandler) sendError(c *WSConn, err error) {
	ev := room.Event{Type: room.EventError}
	if re, ok := risk.IsRuleError(err); ok {
		ev.Data = room.ErrorEvent{Code: string(re.Code), Message: re.Message}
	} else {
		ev.Data = room.ErrorEvent{Message: err.Error()}
	}
	data, ok := marshalEvent(ev)
	if !ok {
		return
	}
	h.push(c, data)
}

func (h *WSHandler) push(c *WSConn, data []byte) {
	h.hub.push(c, data)
}

// writePump writes messages to the WebSocket connection.
func (h *WSHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same write
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
