// internal/document/redisstore.go
package document

import (
	"context"
	"fmt"
	"time"

	apperrors "docgen-service/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "document:"

// RedisStore keeps documents under document:<id> keys. A zero TTL keeps
// documents forever, matching the filesystem backend.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, id string, data []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write document %s to redis: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Retrieve(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, apperrors.NewDocumentNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s from redis: %w", id, err)
	}
	return data, nil
}
