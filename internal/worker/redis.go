package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher implements Publisher using Redis Streams
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		logger: logger,
	}
}

// Publish adds event to stream as JSON under the "data" field
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// RedisArtifactStore implements ArtifactStore with plain Redis keys
type RedisArtifactStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisArtifactStore creates a new Redis artifact store
func NewRedisArtifactStore(client *redis.Client, logger *zap.Logger) *RedisArtifactStore {
	return &RedisArtifactStore{
		client: client,
		logger: logger,
	}
}

// Save stores data under key. A zero ttl keeps the artifact until deleted.
func (s *RedisArtifactStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}

	s.logger.Debug("artifact stored",
		zap.String("key", key),
		zap.Int("bytes", len(data)),
		zap.Duration("ttl", ttl),
	)
	return nil
}

