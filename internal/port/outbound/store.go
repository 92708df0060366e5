package outbound

import (
	"context"
	"errors"
	"time"
)

// ErrNoSelection means nothing was stored for the key yet.
var ErrNoSelection = errors.New("no selection stored")

// SelectionStore persists the current tenant id per tenant kind and user.
// It plays the role of durable client-local storage.
type SelectionStore interface {
	// Load returns ErrNoSelection when no value exists.
	Load(ctx context.Context, kind, userKey string) (int64, error)
	Save(ctx context.Context, kind, userKey string, id int64) error
	Clear(ctx context.Context, kind, userKey string) error
}

// CooldownStore tracks resend throttles.
type CooldownStore interface {
	// Acquire starts a cooldown of ttl for key. When one is still running it
	// returns false and the time remaining.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error)
	// Restart unconditionally starts a full cooldown.
	Restart(ctx context.Context, key string, ttl time.Duration) error
	// Release ends a cooldown early.
	Release(ctx context.Context, key string) error
}

// SelectionKey builds the storage key for a tenant kind and user.
func SelectionKey(kind, userKey string) string {
	return "selection:" + kind + ":" + userKey
}

// RateLimiter counts requests per key in a sliding window.
type RateLimiter interface {
	// Allow records one request and reports whether it fits within limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	// Remaining returns how many requests are left in the current window.
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}
