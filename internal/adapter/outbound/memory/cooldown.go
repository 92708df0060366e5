package memory

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/teamdeck/console/internal/port/outbound"
)

// cooldownStore tracks cooldown deadlines per key.
type cooldownStore struct {
	mu    sync.Mutex
	until *lru.Cache[string, time.Time]
	now   func() time.Time
}

// NewCooldownStore creates an in-process cooldown store bounded to maxKeys.
func NewCooldownStore(maxKeys int) (outbound.CooldownStore, error) {
	return newCooldownStore(maxKeys, time.Now)
}

func newCooldownStore(maxKeys int, now func() time.Time) (*cooldownStore, error) {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	cache, err := lru.New[string, time.Time](maxKeys)
	if err != nil {
		return nil, err
	}
	return &cooldownStore{until: cache, now: now}, nil
}

func (s *cooldownStore) Acquire(_ context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if deadline, ok := s.until.Get(key); ok && deadline.After(now) {
		return false, deadline.Sub(now), nil
	}
	s.until.Add(key, now.Add(ttl))
	return true, 0, nil
}

func (s *cooldownStore) Restart(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	s.until.Add(key, s.now().Add(ttl))
	s.mu.Unlock()
	return nil
}

func (s *cooldownStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	s.until.Remove(key)
	s.mu.Unlock()
	return nil
}

// Compile-time check
var _ outbound.CooldownStore = (*cooldownStore)(nil)
