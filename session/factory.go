package session

import "time"

// StoreType represents the type of session store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

const (
	// Redis key prefix for sessions
	sessionKeyPrefix = "forceconn:session:"
	// Default TTL for session keys; remote sessions default to two hours.
	defaultTTL = 2 * time.Hour
)

// NewStore creates a new Store based on the given type.
// Supports "memory" and "redis" store types.
// For Redis, requires WithRedisClient option.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}

	// Apply options
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return NewMemoryStore(), nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		prefix := config.keyPrefix
		if prefix == "" {
			prefix = sessionKeyPrefix
		}
		return &RedisStore{
			client: config.redisClient,
			ttl:    ttlOrDefault(config.redisTTL),
			prefix: prefix,
		}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return defaultTTL
	}
	return ttl
}
