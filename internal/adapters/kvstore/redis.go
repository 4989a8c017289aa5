// internal/adapters/kvstore/redis.go
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// keyPrefix namespaces every collection key in Redis.
const keyPrefix = "pos:"

// RedisStore persists each collection as one JSON value in Redis. Values
// never expire; Redis acts as the primary store, not a cache.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// Statically assert that *RedisStore implements the CollectionStore interface.
var _ ports.CollectionStore = (*RedisStore)(nil)

// NewRedisStore creates a new Redis-backed collection store.
func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.With(slog.String("store", "redis")),
	}
}

// Get reads and unmarshals the collection stored under key.
func (s *RedisStore) Get(ctx context.Context, key string, dest any) error {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &domain.StorageError{Op: "get", Key: key, Err: ports.ErrKeyNotFound}
		}
		return &domain.StorageError{Op: "get", Key: key, Err: err}
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return &domain.StorageError{Op: "get", Key: key, Err: fmt.Errorf("unmarshal: %w", err)}
	}

	s.logger.DebugContext(ctx, "collection read", slog.String("key", key))
	return nil
}

// Set marshals value and rewrites the collection stored under key.
func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: fmt.Errorf("marshal: %w", err)}
	}

	if err := s.client.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}

	s.logger.DebugContext(ctx, "collection written",
		slog.String("key", key),
		slog.Int("bytes", len(data)))

	return nil
}

// Delete removes the collection stored under key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return &domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Ping checks Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return &domain.StorageError{Op: "ping", Key: "", Err: err}
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
