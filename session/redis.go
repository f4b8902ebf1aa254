package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis. Entries expire after the
// configured TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a new Redis-based session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttlOrDefault(ttl),
		prefix: sessionKeyPrefix,
	}
}

// Create implements Store.
func (s *RedisStore) Create(ctx context.Context, key string, data *SessionData) error {
	data.CreatedAt = time.Now()

	val, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.key(key), val, s.ttl).Err()
}

// Get implements Store.
// The TTL is not refreshed on read; the remote session ages from login.
func (s *RedisStore) Get(ctx context.Context, key string) (*SessionData, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}

	var data SessionData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// key constructs the Redis key for a session key.
func (s *RedisStore) key(key string) string {
	return s.prefix + key
}
