package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamdeck/console/internal/port/outbound"
)

const cooldownKeyPrefix = "cooldown:"

// cooldownStore keeps resend cooldowns as expiring keys.
type cooldownStore struct {
	client redis.UniversalClient
	prefix string
}

// NewCooldownStore creates a Redis backed cooldown store.
func NewCooldownStore(client redis.UniversalClient, prefix string) outbound.CooldownStore {
	return &cooldownStore{client: client, prefix: prefix + cooldownKeyPrefix}
}

func (s *cooldownStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	fullKey := s.prefix + key
	ok, err := s.client.SetNX(ctx, fullKey, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, 0, fmt.Errorf("acquire cooldown: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	remaining, err := s.client.PTTL(ctx, fullKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("cooldown ttl: %w", err)
	}
	if remaining <= 0 {
		// Expired between the two calls, or stored without expiry.
		if err := s.client.Set(ctx, fullKey, time.Now().Unix(), ttl).Err(); err != nil {
			return false, 0, fmt.Errorf("acquire cooldown: %w", err)
		}
		return true, 0, nil
	}
	return false, remaining, nil
}

func (s *cooldownStore) Restart(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("restart cooldown: %w", err)
	}
	return nil
}

func (s *cooldownStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("release cooldown: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.CooldownStore = (*cooldownStore)(nil)
