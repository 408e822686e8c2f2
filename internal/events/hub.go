package events

import (
	"context"
	"sync"
)

// Hub is an in-process topic fan-out. Subscribers get a buffered channel;
// slow subscribers drop events rather than block a publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string][]chan Event
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string][]chan Event)}
}

// Publish delivers the event to every subscriber of the topic.
// At-most-once: a full subscriber buffer loses the event.
func (h *Hub) Publish(ctx context.Context, topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a listener on a topic and returns the event channel
// plus an unsubscribe function.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.subs[topic] = append(h.subs[topic], ch)
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			listeners := h.subs[topic]
			for i, c := range listeners {
				if c == ch {
					h.subs[topic] = append(listeners[:i], listeners[i+1:]...)
					break
				}
			}
			if len(h.subs[topic]) == 0 {
				delete(h.subs, topic)
			}
			close(ch)
		})
	}
	return ch, unsubscribe
}
