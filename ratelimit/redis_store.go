package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fortivault/pkg/logger"
)

// RedisStore counts requests in Redis so the window survives restarts and is
// shared across replicas. It uses INCR with an expiry set on the first request
// of each window, which yields the same fixed-window semantics as MemoryStore.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *logger.Logger
}

// NewRedisStore creates a Redis-backed store. The prefix namespaces keys so
// separate endpoints never share a budget for the same identifier.
func NewRedisStore(client *redis.Client, prefix string, log *logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: log,
	}
}

// Allow increments the window counter for identifier. Redis failures fail
// open: an unreachable counter must not take the intake forms down with it.
func (s *RedisStore) Allow(identifier string, cfg Config) bool {
	if !cfg.enabled() {
		return true
	}

	ctx := context.Background()
	key := fmt.Sprintf("rate_limit:%s:%s", s.prefix, identifier)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Warnw("Rate limit counter unavailable, allowing request", "key", key, "error", err)
		return true
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, cfg.Window).Err(); err != nil {
			s.logger.Warnw("Failed to set rate limit window expiry", "key", key, "error", err)
		}
	}

	return count <= int64(cfg.MaxRequests)
}
