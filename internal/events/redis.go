package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kiranshivaraju/cancerscan/pkg/models"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements Publisher with Redis PUBLISH.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a RedisPublisher from a Redis URL. An empty
// channel falls back to DefaultChannel.
func NewRedisPublisher(redisURL, channel string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: redis.NewClient(opts), channel: channel}, nil
}

// Channel returns the channel events are published on.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// PublishPrediction sends the record as JSON, in the same shape the HTTP API returns.
func (p *RedisPublisher) PublishPrediction(ctx context.Context, pred *models.Prediction) error {
	data, err := json.Marshal(pred)
	if err != nil {
		return fmt.Errorf("marshal prediction: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish prediction %s: %w", pred.ID, err)
	}
	return nil
}

var _ Publisher = (*RedisPublisher)(nil)
