package memory

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/teamdeck/console/internal/port/outbound"
)

// rateLimiter keeps request timestamps per key. The least recently used
// keys are dropped when maxKeys is reached.
type rateLimiter struct {
	mu   sync.Mutex
	hits *lru.Cache[string, []time.Time]
	now  func() time.Time
}

// NewRateLimiter creates an in-process sliding window rate limiter.
func NewRateLimiter(maxKeys int) (outbound.RateLimiter, error) {
	return newRateLimiter(maxKeys, time.Now)
}

func newRateLimiter(maxKeys int, now func() time.Time) (*rateLimiter, error) {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	hits, err := lru.New[string, []time.Time](maxKeys)
	if err != nil {
		return nil, err
	}
	return &rateLimiter{hits: hits, now: now}, nil
}

// inWindowLocked drops timestamps older than window.
func (r *rateLimiter) inWindowLocked(key string, window time.Duration) []time.Time {
	ts, _ := r.hits.Get(key)
	cutoff := r.now().Add(-window)
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (r *rateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts := r.inWindowLocked(key, window)
	if len(ts) >= limit {
		r.hits.Add(key, ts)
		return false, nil
	}
	r.hits.Add(key, append(ts, r.now()))
	return true, nil
}

func (r *rateLimiter) Remaining(_ context.Context, key string, limit int, window time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts := r.inWindowLocked(key, window)
	r.hits.Add(key, ts)
	return max(limit-len(ts), 0), nil
}
