package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kmcrae/warfront/api/internal/auth"
	"github.com/kmcrae/warfront/api/internal/room"
	"github.com/kmcrae/warfront/api/pkg/risk"
)

func TestHandleGuestIssuesToken(t *testing.T) {
	mgr := auth.NewJWTManager("test-secret")
	h := NewAuthHandler(mgr)

	req := httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(`{"name":"Alice"}`))
	rec := httptest.NewRecorder()
	h.HandleGuest(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp struct {
		Token     string `json:"token"`
		SessionID string `json:"session_id"`
		Name      string `json:"name"`
		ExpiresIn int    `json:"expires_in"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected non-empty token")
	}
	if !strings.HasPrefix(resp.SessionID, "sess-") {
		t.Errorf("unexpected session id %s", resp.SessionID)
	}
	if resp.Name != "Alice" {
		t.Errorf("expected name=Alice, got %s", resp.Name)
	}
	if resp.ExpiresIn != 86400 {
		t.Errorf("expected expires_in=86400, got %d", resp.ExpiresIn)
	}

	claims, err := mgr.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.SessionID != resp.SessionID || claims.Name != "Alice" {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestHandleGuestRejectsBadInput(t *testing.T) {
	h := NewAuthHandler(auth.NewJWTManager("test-secret"))

	tests := []struct {
		name string
		body string
	}{
		{"empty name", `{"name":""}`},
		{"whitespace name", `{"name":"   "}`},
		{"malformed json", `{"name":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleGuest(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleGuestTruncatesLongName(t *testing.T) {
	h := NewAuthHandler(auth.NewJWTManager("test-secret"))

	longName := strings.Repeat("x", 50)
	req := httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(`{"name":"`+longName+`"}`))
	rec := httptest.NewRecorder()
	h.HandleGuest(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp struct {
		Name string `json:"name"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Name) != maxNameLength {
		t.Errorf("expected name truncated to %d chars, got %d", maxNameLength, len(resp.Name))
	}
}

func TestHandleListRooms(t *testing.T) {
	reg := room.NewRegistry(room.Options{GameConfig: risk.DefaultConfig()}, nil, nil)
	h := NewRoomsHandler(reg)

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Rooms []room.LobbyState `json:"rooms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Rooms) != 0 {
		t.Errorf("expected no rooms, got %d", len(resp.Rooms))
	}

	if _, err := reg.CreateRoom("sess-1", "Alice", ""); err != nil {
		t.Fatalf("create room: %v", err)
	}

	rec = httptest.NewRecorder()
	h.HandleList(rec, req)
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(resp.Rooms))
	}
	if len(resp.Rooms[0].Players) != 1 || resp.Rooms[0].Players[0].Name != "Alice" {
		t.Errorf("unexpected lobby: %+v", resp.Rooms[0])
	}
}

func TestDispatchSendsErrorToSender(t *testing.T) {
	hub := NewHub()
	reg := room.NewRegistry(room.Options{GameConfig: risk.DefaultConfig()}, hub, nil)
	h := NewWSHandler(hub, auth.NewJWTManager("test-secret"), reg)

	c := newTestConn("sess-1")
	hub.Register(c)
	defer hub.Unregister(c)

	// Acting outside a room is rejected with a resource violation.
	h.dispatch(c, ClientMessage{Action: room.ActionReady})

	select {
	case msg := <-c.send:
		var ev room.Event
		json.Unmarshal(msg, &ev)
		if ev.Type != room.EventError {
			t.Fatalf("expected error event, got %s", ev.Type)
		}
		raw, _ := json.Marshal(ev.Data)
		var errEv room.ErrorEvent
		json.Unmarshal(raw, &errEv)
		if errEv.Code != string(risk.ViolationResource) {
			t.Errorf("expected resource code, got %s", errEv.Code)
		}
	default:
		t.Fatal("expected an error event on the sender's connection")
	}
}

func TestDispatchCreateWatchesRoom(t *testing.T) {
	hub := NewHub()
	reg := room.NewRegistry(room.Options{GameConfig: risk.DefaultConfig()}, hub, nil)
	h := NewWSHandler(hub, auth.NewJWTManager("test-secret"), reg)

	c := newTestConn("sess-1")
	c.name = "Alice"
	hub.Register(c)
	defer hub.Unregister(c)

	h.dispatch(c, ClientMessage{Action: room.ActionCreate, Data: json.RawMessage(`{"player_name":"Alice"}`)})

	rm, ok := reg.RoomOf("sess-1")
	if !ok {
		t.Fatal("session not seated after create")
	}
	if hub.RoomWatcherCount(rm.ID) != 1 {
		t.Errorf("expected connection watching its room, got %d", hub.RoomWatcherCount(rm.ID))
	}

	h.dispatch(c, ClientMessage{Action: room.ActionLeave})
	if hub.RoomWatcherCount(rm.ID) != 0 {
		t.Errorf("expected watch dropped after leave, got %d", hub.RoomWatcherCount(rm.ID))
	}
}
