package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/society/internal/events"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, entities ...string) *Client {
	return NewClient(hub, nil, entities)
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)
	// Should not panic
	hub.Unregister(c2)
	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	hub.Broadcast(events.NewMessage(events.EntityPayment, events.ActionUpdated, "42", map[string]any{"status": "paid"}))

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got events.Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "payment_updated" {
				t.Errorf("type = %q, want payment_updated", got.Type)
			}
			if got.ID != "42" {
				t.Errorf("id = %q, want 42", got.ID)
			}
			if got.Extra["status"] != "paid" {
				t.Errorf("extra = %v", got.Extra)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
}

func TestBroadcastRespectsEntityFilter(t *testing.T) {
	hub := NewHub(slog.Default())

	all := mockClient(hub)
	payments := mockClient(hub, events.EntityPayment)
	hub.Register(all)
	hub.Register(payments)

	hub.Broadcast(events.NewMessage(events.EntityHouse, events.ActionCreated, "h1", nil))
	hub.Broadcast(events.NewMessage(events.EntityPayment, events.ActionGenerated, "", nil))

	if got := len(all.send); got != 2 {
		t.Errorf("unfiltered client queued %d, want 2", got)
	}
	if got := len(payments.send); got != 1 {
		t.Fatalf("payment client queued %d, want 1", got)
	}
	var got events.Message
	if err := json.Unmarshal(<-payments.send, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "payment_generated" {
		t.Errorf("type = %q, want payment_generated", got.Type)
	}

	st := hub.Stats()
	if st.Delivered != 3 || st.Filtered != 1 || st.Dropped != 0 {
		t.Errorf("stats = %+v, want 3 delivered, 1 filtered", st)
	}
}

func TestParseEntities(t *testing.T) {
	got, bad := parseEntities(" payment, house ,")
	if bad != "" || len(got) != 2 || got[0] != "payment" || got[1] != "house" {
		t.Errorf("parseEntities = %v, %q", got, bad)
	}
	if _, bad := parseEntities("payment,chores"); bad != "chores" {
		t.Errorf("bad = %q, want chores", bad)
	}
	if got, bad := parseEntities(""); got != nil || bad != "" {
		t.Errorf("empty = %v, %q", got, bad)
	}
}

func TestHandleWebSocketRejectsUnknownEntity(t *testing.T) {
	h := HandleWebSocket(NewHub(slog.Default()), []string{"*"}, slog.Default())
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/api/ws?entities=groceries", nil))
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub)
	hub.Register(c)

	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(events.NewMessage("test", "fill", "", nil))
	}
	// Dropped, not blocking
	hub.Broadcast(events.NewMessage("test", "dropped", "", nil))

	if got := len(c.send); got != sendBufferSize {
		t.Errorf("buffered = %d, want %d", got, sendBufferSize)
	}
	if got := hub.Dropped(); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}

	hub.Unregister(c)
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub)
			hub.Register(c)
			hub.Broadcast(events.NewMessage("test", "concurrent", "", nil))
			hub.Unregister(c)
		}()
	}
	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}

func TestHandleWebSocketDeliversBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())
	srv := httptest.NewServer(HandleWebSocket(hub, []string{"*"}, slog.Default()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws://"+strings.TrimPrefix(srv.URL, "http://")+"?entities=house", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast(events.NewMessage(events.EntityPayment, events.ActionCreated, "7", nil))
	hub.Broadcast(events.NewMessage(events.EntityHouse, events.ActionCreated, "abc", nil))

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got events.Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "house_created" || got.ID != "abc" {
		t.Errorf("got %+v", got)
	}
}

func TestOriginHosts(t *testing.T) {
	got := originHosts([]string{"https://app.example.com", "localhost:5173"})
	if len(got) != 2 || got[0] != "app.example.com" {
		t.Errorf("originHosts = %v", got)
	}
}
