package room

// Broadcaster delivers events to connected clients. The websocket hub
// implements it; rooms never talk to connections directly.
type Broadcaster interface {
	// BroadcastToRoom sends an event to every connection in the room.
	BroadcastToRoom(roomID string, event Event)
	// SendToSession sends an event to one connection.
	SendToSession(sessionID string, event Event)
}

// NoopBroadcaster drops everything. Used in tests and offline runs.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastToRoom(string, Event) {}
func (NoopBroadcaster) SendToSession(string, Event)   {}
