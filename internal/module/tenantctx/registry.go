package tenantctx

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/domain/tenant"
	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/shared/config"
	"github.com/teamdeck/console/internal/utils/metrics"
)

// Registry owns one Context per user. Idle contexts are evicted; their
// selection survives in the store.
type Registry struct {
	mu          sync.Mutex
	contexts    *lru.Cache[string, *Context]
	kind        tenant.Kind
	teams       outbound.TeamAPI
	store       outbound.SelectionStore
	switchDelay time.Duration
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewRegistry creates a registry bounded to cfg.MaxSessions contexts.
func NewRegistry(teams outbound.TeamAPI, store outbound.SelectionStore, cfg config.TenantConfig,
	m *metrics.Metrics, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	size := cfg.MaxSessions
	if size <= 0 {
		size = 10000
	}
	kind := tenant.Kind(cfg.Kind)
	if kind == "" {
		kind = tenant.KindTeam
	}

	cache, err := lru.NewWithEvict[string, *Context](size, func(_ string, c *Context) {
		c.close()
	})
	if err != nil {
		return nil, err
	}
	return &Registry{
		contexts:    cache,
		kind:        kind,
		teams:       teams,
		store:       store,
		switchDelay: cfg.SwitchDelay,
		metrics:     m,
		logger:      logger,
	}, nil
}

// For returns the context of userKey, creating it on first use.
func (r *Registry) For(ctx context.Context, userKey string) *Context {
	r.mu.Lock()
	c, ok := r.contexts.Get(userKey)
	if !ok {
		c = newContext(r.kind, userKey, r.teams, r.store, r.switchDelay, r.metrics, r.logger)
		r.contexts.Add(userKey, c)
	}
	r.mu.Unlock()

	c.loadPersisted(ctx)
	return c
}

// Drop forgets the context of userKey, as on logout. The stored selection
// is kept for the next sign in.
func (r *Registry) Drop(userKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contexts.Remove(userKey)
}
