package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamdeck/console/internal/port/outbound"
)

// selectionStore persists tenant selections in Redis so every console
// replica sees the same current tenant.
type selectionStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSelectionStore creates a Redis backed selection store. Keys are
// prefixed with prefix and refreshed to ttl on every save.
func NewSelectionStore(client redis.UniversalClient, prefix string, ttl time.Duration) outbound.SelectionStore {
	return &selectionStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *selectionStore) key(kind, userKey string) string {
	return s.prefix + outbound.SelectionKey(kind, userKey)
}

func (s *selectionStore) Load(ctx context.Context, kind, userKey string) (int64, error) {
	val, err := s.client.Get(ctx, s.key(kind, userKey)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, outbound.ErrNoSelection
	}
	if err != nil {
		return 0, fmt.Errorf("get selection: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// A corrupt value is treated as no selection.
		return 0, outbound.ErrNoSelection
	}
	return id, nil
}

func (s *selectionStore) Save(ctx context.Context, kind, userKey string, id int64) error {
	if err := s.client.Set(ctx, s.key(kind, userKey), strconv.FormatInt(id, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("set selection: %w", err)
	}
	return nil
}

func (s *selectionStore) Clear(ctx context.Context, kind, userKey string) error {
	if err := s.client.Del(ctx, s.key(kind, userKey)).Err(); err != nil {
		return fmt.Errorf("delete selection: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.SelectionStore = (*selectionStore)(nil)
