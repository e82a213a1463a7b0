package handler

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/kmcrae/warfront/api/internal/room"
)

func newTestConn(sessionID string) *WSConn {
	return &WSConn{
		conn:      nil, // no real connection for hub tests
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("sess-1")

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}
	if !hub.SessionConnected("sess-1") {
		t.Error("expected session to be connected")
	}

	hub.Unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
	if hub.SessionConnected("sess-1") {
		t.Error("expected session to be disconnected")
	}
}

func TestHubWatchUnwatchRoom(t *testing.T) {
	hub := NewHub()
	c := newTestConn("sess-1")
	hub.Register(c)
	defer hub.Unregister(c)

	hub.WatchRoom(c, "WAR-AAAA-1")
	if hub.RoomWatcherCount("WAR-AAAA-1") != 1 {
		t.Errorf("expected 1 watcher, got %d", hub.RoomWatcherCount("WAR-AAAA-1"))
	}

	hub.UnwatchRooms(c)
	if hub.RoomWatcherCount("WAR-AAAA-1") != 0 {
		t.Errorf("expected 0 watchers, got %d", hub.RoomWatcherCount("WAR-AAAA-1"))
	}
}

func TestHubBroadcastToRoom(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("sess-1")
	c2 := newTestConn("sess-2")
	c3 := newTestConn("sess-3") // not watching

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)
	defer hub.Unregister(c3)

	hub.WatchRoom(c1, "WAR-AAAA-1")
	hub.WatchRoom(c2, "WAR-AAAA-1")

	hub.BroadcastToRoom("WAR-AAAA-1", room.Event{
		Type: room.EventChatMessage,
		Data: room.ChatEvent{PlayerID: "player-0", Message: "hello"},
	})

	// c1 and c2 should receive, c3 should not
	select {
	case msg := <-c1.send:
		var event room.Event
		json.Unmarshal(msg, &event)
		if event.Type != room.EventChatMessage {
			t.Errorf("expected chat:message, got %s", event.Type)
		}
	case <-time.After(time.Second):
		t.Error("c1 did not receive broadcast")
	}

	select {
	case <-c2.send:
		// ok
	case <-time.After(time.Second):
		t.Error("c2 did not receive broadcast")
	}

	select {
	case <-c3.send:
		t.Error("c3 should not have received broadcast")
	default:
		// ok
	}
}

func TestHubSendToSession(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("sess-1")
	c2 := newTestConn("sess-1") // same session, two tabs
	c3 := newTestConn("sess-2")

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)
	defer hub.Unregister(c3)

	hub.SendToSession("sess-1", room.Event{
		Type: room.EventCardAwarded,
		Data: room.CardAwardedEvent{PlayerID: "player-0"},
	})

	// Both c1 and c2 should receive (same session), c3 should not
	for _, c := range []*WSConn{c1, c2} {
		select {
		case <-c.send:
			// ok
		case <-time.After(time.Second):
			t.Errorf("connection for sess-1 did not receive event")
		}
	}

	select {
	case <-c3.send:
		t.Error("sess-2 should not have received sess-1's event")
	default:
		// ok
	}
}

func TestHubUnregisterCleansUpWatches(t *testing.T) {
	hub := NewHub()
	c := newTestConn("sess-1")
	hub.Register(c)
	hub.WatchRoom(c, "WAR-AAAA-1")
	hub.WatchRoom(c, "WAR-BBBB-2")

	hub.Unregister(c)

	if hub.RoomWatcherCount("WAR-AAAA-1") != 0 {
		t.Errorf("expected 0 watchers for WAR-AAAA-1 after unregister")
	}
	if hub.RoomWatcherCount("WAR-BBBB-2") != 0 {
		t.Errorf("expected 0 watchers for WAR-BBBB-2 after unregister")
	}
}

func TestHubSessionConnectedMultipleTabs(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("sess-1")
	c2 := newTestConn("sess-1")
	hub.Register(c1)
	hub.Register(c2)

	hub.Unregister(c1)
	if !hub.SessionConnected("sess-1") {
		t.Error("session should stay connected while one tab remains")
	}

	hub.Unregister(c2)
	if hub.SessionConnected("sess-1") {
		t.Error("session should disconnect when the last tab closes")
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	// Concurrently register, watch, broadcast, unregister
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c := newTestConn("sess")
			hub.Register(c)
			hub.WatchRoom(c, "WAR-AAAA-1")
			hub.BroadcastToRoom("WAR-AAAA-1", room.Event{Type: "test"})
			hub.UnwatchRooms(c)
			hub.Unregister(c)
		}(i)
	}

	wg.Wait()
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after concurrent test, got %d", hub.ConnectionCount())
	}
}

func TestClientMessageSerialization(t *testing.T) {
	msg := ClientMessage{Action: room.ActionAttack, Data: json.RawMessage(`{"from_id":"alaska","to_id":"kamchatka","dice":3}`)}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed ClientMessage
	json.Unmarshal(data, &parsed)
	if parsed.Action != room.ActionAttack {
		t.Errorf("expected %s, got %s", room.ActionAttack, parsed.Action)
	}
	var payload struct {
		FromID string `json:"from_id"`
	}
	if err := json.Unmarshal(parsed.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.FromID != "alaska" {
		t.Errorf("expected alaska, got %s", payload.FromID)
	}
}
