package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fleetlive/fleetlive/pkg/dashboard"
)

func TestStreamBroadcastDeliversReducedModel(t *testing.T) {
	hub := NewStreamHub(nil)

	client := &streamClient{send: make(chan []byte, streamSendBuffer)}
	hub.add(client)

	hub.Broadcast(dashboard.ViewModel{UnreadTotal: 3})

	var decoded map[string]any
	if err := json.Unmarshal(<-client.send, &decoded); err != nil {
		t.Fatalf("broadcast payload is not json: %v", err)
	}
	if decoded["UnreadTotal"] != float64(3) {
		t.Errorf("expected UnreadTotal 3 in payload, got %v", decoded["UnreadTotal"])
	}
}

func TestStreamBroadcastNeverBlocksOnSlowClients(t *testing.T) {
	hub := NewStreamHub(nil)

	slow := &streamClient{send: make(chan []byte, 1)}
	slow.send <- []byte("stale")
	hub.add(slow)

	live := &streamClient{send: make(chan []byte, 1)}
	hub.add(live)

	// Broadcast runs on the engine loop goroutine, so it must return even
	// when a client stopped draining its buffer
	done := make(chan struct{})
	go func() {
		hub.Broadcast(dashboard.ViewModel{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a client that is not draining")
	}

	if payload, open := <-live.send; !open || len(payload) == 0 {
		t.Error("expected the draining client to still receive the model")
	}

	<-slow.send
	if _, open := <-slow.send; open {
		t.Error("expected the slow client send channel to be closed")
	}

	hub.mu.Lock()
	_, registered := hub.clients[slow]
	hub.mu.Unlock()
	if registered {
		t.Error("expected the slow client to be unregistered")
	}

	// both pumps may observe the disconnect; a second remove must be a no-op
	hub.remove(slow)
}
