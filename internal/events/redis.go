package events

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/goaltracker/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is the pub/sub channel achievement events are published on
const DefaultRedisChannel = "goaltracker:achievements"

// RedisPublisher publishes events with Redis PUBLISH
type RedisPublisher struct {
	client  *redis.Client
	channel string
	owned   bool
}

// NewRedisPublisher connects to redisURL and verifies the connection
func NewRedisPublisher(redisURL, channel string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	p := NewRedisPublisherWithClient(client, channel)
	p.owned = true
	return p, nil
}

// NewRedisPublisherWithClient publishes through an existing client. Close leaves the client open.
func NewRedisPublisherWithClient(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Publish encodes the event envelope and publishes it on the channel
func (p *RedisPublisher) Publish(ctx context.Context, event models.AchievementUnlocked) error {
	body, err := NewEnvelope(event).Marshal()
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish event to redis: %w", err)
	}
	return nil
}

// HealthCheck pings Redis
func (p *RedisPublisher) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the client when the publisher created it
func (p *RedisPublisher) Close() error {
	if !p.owned {
		return nil
	}
	return p.client.Close()
}
