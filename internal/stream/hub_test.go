package stream

import (
	"sync"
	"testing"

	"inputhub/internal/logging"
)

// TestHubEvictionDuringCount checks that evicting slow subscribers is
// safe against concurrent subscriber counts, as happens when a health
// check lands mid broadcast.
func TestHubEvictionDuringCount(t *testing.T) {
	h := newHub(logging.NewTestLogger(t))

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				h.subscriberCount()
			}
		}
	}()

	for i := 0; i < 100; i++ {
		// An unbuffered channel with no reader forces the eviction
		// branch on every broadcast.
		c := &wsClient{hub: h, send: make(chan []byte), ip: "test"}
		h.clientsMu.Lock()
		h.clients[c] = true
		h.clientsMu.Unlock()

		h.broadcastMessage(Message{Type: TypePing})
	}
	close(done)
	wg.Wait()

	if got := h.subscriberCount(); got != 0 {
		t.Errorf("subscribers after evictions = %d, want 0", got)
	}
}

// TestHubBroadcastDelivers checks that a subscriber with buffer space
// receives the broadcast and stays registered.
func TestHubBroadcastDelivers(t *testing.T) {
	h := newHub(logging.NewTestLogger(t))
	c := &wsClient{hub: h, send: make(chan []byte, 1), ip: "test"}
	h.clientsMu.Lock()
	h.clients[c] = true
	h.clientsMu.Unlock()

	h.broadcastMessage(Message{Type: TypePing})

	select {
	case msg := <-c.send:
		if len(msg) == 0 {
			t.Error("empty broadcast payload")
		}
	default:
		t.Fatal("no message delivered to subscriber")
	}
	if got := h.subscriberCount(); got != 1 {
		t.Errorf("subscribers = %d, want 1", got)
	}
}
