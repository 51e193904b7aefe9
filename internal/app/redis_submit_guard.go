package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSubmitGuard implements distributed double-submit protection using
// Redis SET NX. The upstream payment flow had no server-side replay
// protection at all; this guard only engages when the client sends an
// Idempotency-Key header, so clients that omit it keep the original
// fire-once semantics.
type RedisSubmitGuard struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisSubmitGuard(client redis.UniversalClient, prefix string) *RedisSubmitGuard {
	trimmedPrefix := strings.TrimSpace(prefix)
	if trimmedPrefix == "" {
		trimmedPrefix = "rentpe:payments"
	}
	trimmedPrefix = strings.TrimSuffix(trimmedPrefix, ":")

	return &RedisSubmitGuard{
		client: client,
		prefix: trimmedPrefix,
	}
}

// Acquire reserves the key for the TTL window. It returns false when the key
// was already reserved, meaning the attempt is a replay.
func (g *RedisSubmitGuard) Acquire(ctx context.Context, scope, key string, ttl time.Duration) (bool, error) {
	if g == nil || g.client == nil {
		return true, nil
	}

	normalizedScope := strings.TrimSpace(scope)
	normalizedKey := strings.TrimSpace(key)
	if normalizedScope == "" || normalizedKey == "" {
		return true, nil
	}
	if ttl < time.Second {
		ttl = time.Second
	}

	redisKey := fmt.Sprintf("%s:idem:%s:%s", g.prefix, normalizedScope, normalizedKey)
	return g.client.SetNX(ctx, redisKey, 1, ttl).Result()
}
