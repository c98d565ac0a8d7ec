package feed

import (
	"sync"
	"sync/atomic"
)

// SubscriberBuffer is how many events a subscriber may fall behind before
// new events are dropped for it.
const SubscriberBuffer = 16

// Subscription receives published events on C until it is unsubscribed.
type Subscription struct {
	C       <-chan AttemptEvent
	ch      chan AttemptEvent
	dropped atomic.Int64
}

// Dropped is the number of events skipped because C was full.
func (s *Subscription) Dropped() int64 { return s.dropped.Load() }

// Hub fans events out to subscribers. Publish never blocks.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber. On a closed hub the returned
// channel is already closed.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan AttemptEvent, SubscriberBuffer)
	sub := &Subscription{C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes its channel. Calling it twice is safe.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.ch)
	}
}

// Publish delivers ev to every subscriber with room in its buffer.
func (h *Hub) Publish(ev AttemptEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			sub.dropped.Add(1)
		}
	}
}

// Len is the current subscriber count.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close unsubscribes everyone. Later Publish calls are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
	}
	clear(h.subs)
}
