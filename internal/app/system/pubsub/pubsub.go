// internal/app/system/pubsub/pubsub.go

// Package pubsub fans persisted events out to currently-connected viewers.
// Topics are project ids; payloads are pre-encoded JSON.
//
// Delivery is best-effort: persistence is the source of truth and happens
// before Publish, so a dropped broadcast loses nothing durable.
package pubsub

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// Subscription is one live listener on a topic. Close unsubscribes; the
// channel is closed afterwards.
type Subscription struct {
	C     <-chan []byte
	close func()
	once  sync.Once
}

// Close removes the subscription from its bus. Safe to call more than once.
func (s *Subscription) Close() { s.once.Do(s.close) }

// Bus is the fan-out service. The in-memory Hub serves single-instance
// deployments; RedisBus serves multi-instance ones.
type Bus interface {
	Subscribe(ctx context.Context, topic string) (*Subscription, error)
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Hub is the in-process Bus: a map of topic -> subscriber set. Empty sets
// are pruned on unsubscribe. A subscriber whose buffer is full misses that
// event rather than blocking the publisher.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[*hubSub]struct{}
}

type hubSub struct {
	ch chan []byte
}

// NewHub creates an empty in-memory hub.
func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[*hubSub]struct{})}
}

// Subscribe adds a listener to topic.
func (h *Hub) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	sub := &hubSub{ch: make(chan []byte, subscriberBuffer)}

	h.mu.Lock()
	set, ok := h.topics[topic]
	if !ok {
		set = make(map[*hubSub]struct{})
		h.topics[topic] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	return &Subscription{
		C: sub.ch,
		close: func() {
			// The channel close happens under the same lock Publish sends
			// under, so a concurrent Publish can never send on a closed
			// channel.
			h.mu.Lock()
			if set, ok := h.topics[topic]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(h.topics, topic)
				}
			}
			close(sub.ch)
			h.mu.Unlock()
		},
	}, nil
}

// Publish delivers payload to every current subscriber of topic. The sends
// stay under the hub lock: they are non-blocking, and holding the lock is
// what makes unsubscribe safe against in-flight publishes.
func (h *Hub) Publish(ctx context.Context, topic string, payload []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.topics[topic] {
		select {
		case s.ch <- payload:
		default:
			// Slow consumer: drop this event for this subscriber.
		}
	}
	return nil
}

// SubscriberCount reports the current number of listeners on a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}
