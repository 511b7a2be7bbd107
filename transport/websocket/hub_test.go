package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/ghostmaze/game/engine"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if cap(hub.broadcast) != engine.WebSocketBufferSize {
		t.Errorf("broadcast buffer = %d, want %d", cap(hub.broadcast), engine.WebSocketBufferSize)
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("Hub register channels are nil")
	}
}

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, engine.WebSocketBufferSize),
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if len(hub.sessions["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Expected the client's send channel to be closed")
	}

	// unregistering twice must not close the channel again
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := newTestClient(hub, sessionID)
	client2 := newTestClient(hub, sessionID)
	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.sessions[sessionID]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions[sessionID]))
	}

	hub.unregisterClient(client1)

	if len(hub.sessions[sessionID]) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", len(hub.sessions[sessionID]))
	}
	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	sessionID := "broadcast-test"

	client := newTestClient(hub, sessionID)
	other := newTestClient(hub, "other-session")
	hub.registerClient(client)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{
		SessionID: sessionID,
		Event:     EventState,
		GameState: &engine.GameState{PlayerPos: engine.Position{X: 5, Y: 3}, Score: 100},
	})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.SessionID != sessionID {
			t.Errorf("Expected sessionID %s, got %s", sessionID, message.SessionID)
		}
		if message.Event != EventState {
			t.Errorf("Expected event %q, got %s", EventState, message.Event)
		}
		if message.GameState.PlayerPos.X != 5 || message.GameState.PlayerPos.Y != 3 {
			t.Error("GameState not correctly transmitted")
		}
	default:
		t.Fatal("No message queued for the session's client")
	}

	if len(other.send) != 0 {
		t.Error("Clients of other sessions should not receive the broadcast")
	}
}

func TestHubSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, sessionID: "slow", send: make(chan []byte, 1)}
	hub.registerClient(client)

	for i := 0; i < 3; i++ {
		hub.broadcastMessage(&Message{SessionID: "slow", Event: "tick"})
	}

	if _, exists := hub.sessions["slow"]; exists {
		t.Error("A client with a full buffer should be unregistered")
	}
}

func TestHubBroadcastStateNeverBlocks(t *testing.T) {
	hub := NewHub()

	// nothing drains the queue; extra updates are dropped
	done := make(chan struct{})
	go func() {
		for i := 0; i < engine.WebSocketBufferSize+10; i++ {
			hub.BroadcastState("s", engine.EventGhostMove, &engine.GameState{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastState blocked with a full queue")
	}
	if len(hub.broadcast) != engine.WebSocketBufferSize {
		t.Errorf("queued %d messages, want %d", len(hub.broadcast), engine.WebSocketBufferSize)
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()
	hub.BroadcastEvent("event-test", "custom-event", "test-data")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" {
			t.Errorf("Expected sessionID 'event-test', got %s", message.SessionID)
		}
		if message.Event != "custom-event" {
			t.Errorf("Expected event 'custom-event', got %s", message.Event)
		}
		if message.Data != "test-data" {
			t.Errorf("Expected data 'test-data', got %v", message.Data)
		}
	default:
		t.Fatal("No broadcast message queued")
	}
}

// startHub runs a hub behind a test server that subscribes to ?sessionId=
func startHub(t *testing.T, opts ...Option) (*Hub, string) {
	t.Helper()
	hub := NewHub(opts...)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("sessionId")
		if sessionID == "" {
			sessionID = "default"
		}
		hub.ServeWS(w, r, sessionID, &engine.GameState{ConfigName: "initial"})
	}))
	t.Cleanup(func() {
		server.Close()
		cancel()
		<-stopped
	})
	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return message
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients(sessionID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients in %s, got %d", want, sessionID, hub.Clients(sessionID))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocketLifecycle(t *testing.T) {
	hub, url := startHub(t)

	conn := dial(t, url+"?sessionId=ws-test")
	if msg := readMessage(t, conn); msg.GameState == nil || msg.GameState.ConfigName != "initial" {
		t.Fatalf("first message should carry the initial state, got %+v", msg)
	}
	waitForClients(t, hub, "ws-test", 1)

	conn.Close()
	waitForClients(t, hub, "ws-test", 0)
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub, url := startHub(t)

	conn := dial(t, url+"?sessionId=msg-test")
	readMessage(t, conn)
	waitForClients(t, hub, "msg-test", 1)

	hub.BroadcastState("msg-test", engine.EventMove, &engine.GameState{
		PlayerPos: engine.Position{X: 10, Y: 15},
		Score:     200,
	})

	message := readMessage(t, conn)
	if message.SessionID != "msg-test" || message.Event != string(engine.EventMove) {
		t.Errorf("unexpected message %+v", message)
	}
	if message.GameState.PlayerPos.X != 10 || message.GameState.PlayerPos.Y != 15 || message.GameState.Score != 200 {
		t.Error("GameState not correctly received")
	}
}

func TestWebSocketCommands(t *testing.T) {
	handler := func(ctx context.Context, sessionID string, cmd Command) (any, error) {
		if cmd.Action != "move" {
			return nil, errors.New("unknown action " + cmd.Action)
		}
		return map[string]string{"session": sessionID, "direction": cmd.Direction}, nil
	}
	_, url := startHub(t, WithCommandHandler(handler))

	conn := dial(t, url+"?sessionId=cmd-test")
	readMessage(t, conn)

	if err := conn.WriteJSON(Command{Action: "move", Direction: "left"}); err != nil {
		t.Fatal(err)
	}
	reply := readMessage(t, conn)
	data, _ := reply.Data.(map[string]any)
	if reply.Event != EventResult || data["direction"] != "left" || data["session"] != "cmd-test" {
		t.Errorf("unexpected reply %+v", reply)
	}

	if err := conn.WriteJSON(Command{Action: "fly"}); err != nil {
		t.Fatal(err)
	}
	if reply := readMessage(t, conn); reply.Event != EventError || reply.Data != "unknown action fly" {
		t.Errorf("unexpected error reply %+v", reply)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if reply := readMessage(t, conn); reply.Event != EventError {
		t.Errorf("expected an error for malformed input, got %+v", reply)
	}
}

func TestHubStopsOnContextCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if n := hub.Clients("any"); n != 0 {
		t.Errorf("Clients() after stop = %d", n)
	}
}
