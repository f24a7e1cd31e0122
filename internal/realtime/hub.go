// Package realtime fans newly persisted chat messages out to live viewers
// of a request. Delivery is best-effort; viewers reconcile with the polled
// message list by message id.
package realtime

import (
	"sync"

	"github.com/google/uuid"
	"staffing_bridge/internal/domain"
)

const subscriberBuffer = 16

type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan *domain.Message]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[chan *domain.Message]struct{}),
	}
}

// Subscribe registers a viewer for one request and returns the delivery
// channel plus an unsubscribe func. The channel is closed on unsubscribe.
func (h *Hub) Subscribe(requestID uuid.UUID) (<-chan *domain.Message, func()) {
	ch := make(chan *domain.Message, subscriberBuffer)

	h.mu.Lock()
	subs, ok := h.subscribers[requestID]
	if !ok {
		subs = make(map[chan *domain.Message]struct{})
		h.subscribers[requestID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			if subs, ok := h.subscribers[requestID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, requestID)
				}
			}
			// Closed under the write lock so Publish can never send on a
			// closed channel.
			close(ch)
			h.mu.Unlock()
		})
	}

	return ch, unsubscribe
}

// Publish delivers a message to every current subscriber of its request.
// A subscriber that cannot keep up is skipped rather than blocked on; it
// will catch up through the polling fallback.
func (h *Hub) Publish(message *domain.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[message.RequestID] {
		select {
		case ch <- message:
		default:
		}
	}
}

// SubscriberCount reports how many viewers are attached to a request.
func (h *Hub) SubscriberCount(requestID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[requestID])
}
