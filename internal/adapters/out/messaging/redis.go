package messaging

import (
	"context"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

var _ ports.EventPublisher = (*RedisPublisher)(nil)

type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// RedisPublisher publishes to the pub/sub channel "<prefix>:<topic>".
type RedisPublisher struct {
	client redisClient
	prefix string
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

func (p *RedisPublisher) Publish(ctx context.Context, topic string, event events.Event) error {
	data, err := encode(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel(topic), data).Err()
}

func (p *RedisPublisher) channel(topic string) string {
	if p.prefix == "" {
		return topic
	}
	return p.prefix + ":" + topic
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
