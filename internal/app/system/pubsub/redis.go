// internal/app/system/pubsub/redis.go
package pubsub

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// channelPrefix namespaces our topics inside a shared Redis.
const channelPrefix = "webstack:fanout:"

// RedisBus is the Bus backed by Redis pub/sub, for deployments running more
// than one instance. Each Subscribe opens a dedicated Redis subscription;
// Publish goes through Redis so every instance's subscribers see it.
type RedisBus struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewRedisBus wraps an existing Redis client.
func NewRedisBus(rdb *redis.Client, logger *zap.Logger) *RedisBus {
	return &RedisBus{rdb: rdb, log: logger}
}

// Subscribe opens a Redis subscription on the topic channel and pumps
// messages into the returned Subscription until it is closed.
func (b *RedisBus) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	ps := b.rdb.Subscribe(ctx, channelPrefix+topic)
	// Confirm the subscription before returning so a Publish immediately
	// after Subscribe is not lost.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	out := make(chan []byte, subscriberBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		ch := ps.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
					// Slow consumer: drop this event for this subscriber.
				}
			}
		}
	}()

	return &Subscription{
		C: out,
		close: func() {
			close(done)
			if err := ps.Close(); err != nil && b.log != nil {
				b.log.Warn("redis unsubscribe failed", zap.Error(err), zap.String("topic", topic))
			}
		},
	}, nil
}

// Publish sends payload to the topic channel.
func (b *RedisBus) Publish(ctx context.Context, topic string, payload []byte) error {
	return b.rdb.Publish(ctx, channelPrefix+topic, payload).Err()
}
