package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/todostack/todostack/internal/todo"
	wsHub "github.com/todostack/todostack/internal/ws"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

func newStore(titles ...string) *todo.Store {
	st := todo.NewStore()
	for _, title := range titles {
		st.Create(title)
	}
	return st
}

// startHub starts a test HTTP server with the hub as its handler.
// The hub's Run loop is started with a cancellable context.
// Returns the ws:// URL, the hub, and a cancel function.
func startHub(t *testing.T, st *todo.Store) (wsURL string, hub *wsHub.Hub, cancel func()) {
	t.Helper()

	hub = wsHub.New(st, testInterval)
	ctx, cancelFn := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancelFn()
		srv.Close()
	})

	wsURL = "ws" + strings.TrimPrefix(srv.URL, "http")
	return wsURL, hub, cancelFn
}

// dial connects a WebSocket client to wsURL and returns the connection.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage reads one text message from conn with a short deadline.
func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var m wsHub.Message
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, raw)
	}
	return m
}

// readUntil keeps reading broadcasts until cond is satisfied or the deadline
// passes. Intermediate messages (e.g. a tick that fired before a mutation)
// are discarded.
func readUntil(t *testing.T, conn *websocket.Conn, cond func(wsHub.Message) bool) wsHub.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m := readMessage(t, conn)
		if cond(m) {
			return m
		}
	}
	t.Fatal("no matching broadcast before deadline")
	return wsHub.Message{}
}

// waitForCount polls hub.Count until it reaches want or the deadline passes.
// Registration and disconnect detection run on the hub's goroutines, so a
// fixed sleep is not enough.
func waitForCount(t *testing.T, hub *wsHub.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Count() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Count: got %d, want %d", hub.Count(), want)
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesImmediateList(t *testing.T) {
	wsURL, _, _ := startHub(t, newStore("write tests"))

	conn := dial(t, wsURL)
	m := readMessage(t, conn)

	if m.Event != "todos" {
		t.Errorf("event: got %q, want todos", m.Event)
	}
	if len(m.Data) != 1 {
		t.Fatalf("data: got %d items, want 1", len(m.Data))
	}
	if m.Data[0].Title != "write tests" {
		t.Errorf("title: got %q, want %q", m.Data[0].Title, "write tests")
	}
}

func TestHub_EmptyStore_EmptyList(t *testing.T) {
	wsURL, _, _ := startHub(t, newStore())
	conn := dial(t, wsURL)

	m := readMessage(t, conn)
	if len(m.Data) != 0 {
		t.Errorf("data: got %d items, want 0", len(m.Data))
	}
}

func TestHub_PublishTriggersBroadcast(t *testing.T) {
	st := newStore()
	wsURL, hub, _ := startHub(t, st)

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume immediate (empty) list

	created := st.Create("pushed")
	hub.Publish("created", created)

	m := readUntil(t, conn, func(m wsHub.Message) bool { return len(m.Data) == 1 })
	if m.Data[0].ID != created.ID {
		t.Errorf("id: got %q, want %q", m.Data[0].ID, created.ID)
	}
}

func TestHub_ReceivesBroadcastOnTick(t *testing.T) {
	st := newStore()
	wsURL, _, _ := startHub(t, st)

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume immediate list

	// Mutate without a Publish wakeup; a later tick carries the change.
	st.Create("tick")

	m := readUntil(t, conn, func(m wsHub.Message) bool { return len(m.Data) == 1 })
	if m.Data[0].Title != "tick" {
		t.Errorf("title: got %q, want tick", m.Data[0].Title)
	}
}

func TestHub_CountClients(t *testing.T) {
	wsURL, hub, _ := startHub(t, newStore())

	for i := 0; i < 3; i++ {
		conn := dial(t, wsURL)
		readMessage(t, conn) // consume initial message
	}

	waitForCount(t, hub, 3)
}

func TestHub_CountDecreasesOnDisconnect(t *testing.T) {
	wsURL, hub, _ := startHub(t, newStore())

	conn := dial(t, wsURL)
	readMessage(t, conn)
	waitForCount(t, hub, 1)

	conn.Close()
	waitForCount(t, hub, 0) // readPump detects the close
}

func TestHub_AllClientsReceiveBroadcast(t *testing.T) {
	wsURL, _, _ := startHub(t, newStore("shared"))

	conns := make([]*websocket.Conn, 3)
	for i := 0; i < 3; i++ {
		conns[i] = dial(t, wsURL)
	}

	for i, conn := range conns {
		m := readMessage(t, conn)
		if m.Event != "todos" {
			t.Errorf("client %d: event: got %q, want todos", i, m.Event)
		}
		if len(m.Data) != 1 {
			t.Errorf("client %d: data: got %d items, want 1", i, len(m.Data))
		}
	}
}

func TestHub_CancelContextClosesConnections(t *testing.T) {
	wsURL, hub, cancel := startHub(t, newStore())

	conn := dial(t, wsURL)
	readMessage(t, conn)
	waitForCount(t, hub, 1)

	cancel() // signal shutdown
	waitForCount(t, hub, 0)
}

func TestHub_SetInterval_AppliesToRunningLoop(t *testing.T) {
	st := newStore("slow")
	// An hour between ticks: without SetInterval no tick broadcast arrives.
	hub := wsHub.New(st, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http"))
	readMessage(t, conn) // consume immediate list

	hub.SetInterval(testInterval)
	st.Create("fast")

	m := readUntil(t, conn, func(m wsHub.Message) bool { return len(m.Data) == 2 })
	if m.Event != "todos" {
		t.Errorf("event: got %q, want todos", m.Event)
	}
}

func TestHub_NonWebSocketRequest_Returns400(t *testing.T) {
	hub := wsHub.New(newStore(), testInterval)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}
