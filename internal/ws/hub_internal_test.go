package ws

import (
	"sync"
	"testing"
	"time"

	"github.com/todostack/todostack/internal/todo"
)

// A client registered before shutdown may still be on its way to the initial
// send when closeAll runs. The send must notice the client is gone instead of
// writing to a closed channel.
func TestShutdownBeforeInitialSend(t *testing.T) {
	h := New(todo.NewStore(), time.Second)
	c := &client{send: make(chan []byte, sendBufSize)}

	h.register(c)
	h.closeAll() // shutdown wins the race; c.send is now closed

	data, err := h.buildMessage()
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	if ok := h.trySend(c, data); !ok {
		t.Error("trySend to a departed client: got false, want true (no-op)")
	}
	if n := h.Count(); n != 0 {
		t.Errorf("Count after closeAll: got %d, want 0", n)
	}
}

// Broadcasts racing client disconnects must never hit a closed send channel.
func TestBroadcastDuringDisconnect(t *testing.T) {
	st := todo.NewStore()
	st.Create("x")
	h := New(st, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		c := &client{send: make(chan []byte, 1)}
		h.register(c)

		wg.Add(2)
		go func(c *client) {
			defer wg.Done()
			h.unregister(c)
		}(c)
		go func() {
			defer wg.Done()
			h.broadcast()
		}()
	}
	wg.Wait()

	if n := h.Count(); n != 0 {
		t.Errorf("Count after churn: got %d, want 0", n)
	}
}

// A second unregister of the same client is a no-op, not a double close.
func TestUnregisterTwice(t *testing.T) {
	h := New(todo.NewStore(), time.Second)
	c := &client{send: make(chan []byte, 1)}

	h.register(c)
	h.unregister(c)
	h.unregister(c)

	if n := h.Count(); n != 0 {
		t.Errorf("Count: got %d, want 0", n)
	}
}
