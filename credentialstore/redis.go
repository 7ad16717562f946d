// credentialstore/redis.go
package credentialstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deploymenttheory/go-api-session-client/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisOpTimeout bounds every Redis round trip made by RedisStore.
const DefaultRedisOpTimeout = 2 * time.Second

// RedisStore keeps the token under a single Redis key, which lets several processes
// share one session.
type RedisStore struct {
	rdb       redis.UniversalClient
	key       string
	ttl       time.Duration
	opTimeout time.Duration
	log       logger.Logger
}

// RedisStoreConfig configures a RedisStore.
type RedisStoreConfig struct {
	// KeyPrefix namespaces the key; the token lives at "<KeyPrefix>:access_token".
	KeyPrefix string
	// TTL expires the stored token; zero keeps it until cleared.
	TTL time.Duration
	// OpTimeout bounds each operation; zero means DefaultRedisOpTimeout.
	OpTimeout time.Duration
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(rdb redis.UniversalClient, cfg RedisStoreConfig, log logger.Logger) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "apisession"
	}
	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = DefaultRedisOpTimeout
	}
	return &RedisStore{
		rdb:       rdb,
		key:       prefix + ":access_token",
		ttl:       cfg.TTL,
		opTimeout: opTimeout,
		log:       log,
	}
}

// Key returns the Redis key holding the token.
func (s *RedisStore) Key() string {
	return s.key
}

// Get reports a read failure as "no token" after logging it.
func (s *RedisStore) Get() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	token, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		s.log.Warn("Failed to read access token from redis", zap.String("key", s.key), zap.Error(err))
		return "", false
	}
	return token, token != ""
}

func (s *RedisStore) Set(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store access token in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear access token in redis: %w", err)
	}
	return nil
}
