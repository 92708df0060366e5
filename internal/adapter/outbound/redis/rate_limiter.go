package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamdeck/console/internal/port/outbound"
)

// rateLimiter implements outbound.RateLimiter with a sorted set per key.
type rateLimiter struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRateLimiter creates a sliding window rate limiter.
func NewRateLimiter(client redis.UniversalClient, prefix string) outbound.RateLimiter {
	return &rateLimiter{client: client, prefix: prefix + "ratelimit:", now: time.Now}
}

func (r *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := r.prefix + key
	now := r.now().UnixNano()
	windowStart := now - window.Nanoseconds()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", fmt.Sprintf("%d", windowStart))
	countCmd := pipe.ZCard(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit count: %w", err)
	}
	if countCmd.Val()+1 > int64(limit) {
		return false, nil
	}

	pipe = r.client.Pipeline()
	pipe.ZAdd(ctx, fullKey, redis.Z{Score: float64(now), Member: fmt.Sprintf("%d", now)})
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit record: %w", err)
	}
	return true, nil
}

func (r *rateLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	fullKey := r.prefix + key
	windowStart := r.now().UnixNano() - window.Nanoseconds()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", fmt.Sprintf("%d", windowStart))
	countCmd := pipe.ZCard(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit count: %w", err)
	}
	return max(limit-int(countCmd.Val()), 0), nil
}

var _ outbound.RateLimiter = (*rateLimiter)(nil)
