package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports"
)

// RedisLimiter is a fixed-window counter in redis, shared across all
// serving instances so the bound actually holds in a multi-instance
// deployment
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) ports.RateLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow increments the window counter for the key and reports whether the
// caller is still under the limit. The first hit in a window sets the TTL.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := windowKey(key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("redis incr failed: %w", err)
	}

	if count == 1 {
		if err = l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("redis expire failed: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}

func windowKey(key string) string {
	return fmt.Sprintf("ratelimit:create-order:%s", key)
}
