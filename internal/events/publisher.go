package events

import (
	"context"
	"fmt"
	"log/slog"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Publisher announces domain events. Implementations make no delivery
// guarantee; callers wrap every publish in BestEffort.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher fans events out on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := jsonAPI.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}
	return nil
}

// NoOpPublisher discards every event. Used when no bus is configured.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(ctx context.Context, event Event) error { return nil }

var (
	_ Publisher = (*RedisPublisher)(nil)
	_ Publisher = NoOpPublisher{}
)

// BestEffort runs fn and absorbs its failure, logging instead of
// propagating. It makes the degrade-on-failure contract explicit at call
// sites whose side effects must never fail the surrounding operation.
func BestEffort(logger *slog.Logger, op string, fn func() error) {
	if err := fn(); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("best-effort side effect failed", "op", op, "error", err)
	}
}
