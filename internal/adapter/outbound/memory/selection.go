package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/teamdeck/console/internal/port/outbound"
)

// selectionStore keeps tenant selections in a bounded, expiring LRU.
// Values are lost on restart.
type selectionStore struct {
	cache *expirable.LRU[string, int64]
}

// NewSelectionStore creates an in-process selection store holding at most
// maxKeys entries, each kept for ttl (0 keeps them until evicted).
func NewSelectionStore(maxKeys int, ttl time.Duration) outbound.SelectionStore {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	return &selectionStore{cache: expirable.NewLRU[string, int64](maxKeys, nil, ttl)}
}

func (s *selectionStore) Load(_ context.Context, kind, userKey string) (int64, error) {
	id, ok := s.cache.Get(outbound.SelectionKey(kind, userKey))
	if !ok {
		return 0, outbound.ErrNoSelection
	}
	return id, nil
}

func (s *selectionStore) Save(_ context.Context, kind, userKey string, id int64) error {
	s.cache.Add(outbound.SelectionKey(kind, userKey), id)
	return nil
}

func (s *selectionStore) Clear(_ context.Context, kind, userKey string) error {
	s.cache.Remove(outbound.SelectionKey(kind, userKey))
	return nil
}

// Compile-time check
var _ outbound.SelectionStore = (*selectionStore)(nil)
