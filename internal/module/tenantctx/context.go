package tenantctx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/domain/tenant"
	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/utils/metrics"
)

// ErrListStale means a mutation succeeded but the tenant list could not be
// refreshed afterwards. The returned snapshot is still reconciled.
var ErrListStale = errors.New("tenant list not refreshed")

// Snapshot is an immutable view of a tenant context.
type Snapshot struct {
	All       []tenant.Team `json:"all"`
	Current   *tenant.Team  `json:"current"`
	CurrentID *int64        `json:"current_id"`
	Switching bool          `json:"switching"`
	Loaded    bool          `json:"loaded"`
}

// Context holds the tenants of one user and which one is current.
// All mutations go through mu; callers only ever see snapshots.
type Context struct {
	kind        tenant.Kind
	userKey     string
	teams       outbound.TeamAPI
	store       outbound.SelectionStore
	switchDelay time.Duration
	metrics     *metrics.Metrics
	logger      *zap.Logger
	loadOnce    sync.Once

	mu        sync.Mutex
	all       []tenant.Team
	currentID *int64
	persisted *int64
	switching bool
	loaded    bool

	// started counts refreshes that began fetching; applied is the highest
	// generation whose result replaced the state.
	started uint64
	applied uint64

	switchSeq   uint64
	switchTimer *time.Timer
}

func newContext(kind tenant.Kind, userKey string, teams outbound.TeamAPI, store outbound.SelectionStore,
	switchDelay time.Duration, m *metrics.Metrics, logger *zap.Logger) *Context {
	return &Context{
		kind:        kind,
		userKey:     userKey,
		teams:       teams,
		store:       store,
		switchDelay: switchDelay,
		metrics:     m,
		logger:      logger.With(zap.String("user", userKey), zap.String("kind", string(kind))),
	}
}

// loadPersisted reads the stored selection once, at creation. A missing
// value means no selection yet.
func (c *Context) loadPersisted(ctx context.Context) {
	c.loadOnce.Do(func() { c.readStore(ctx) })
}

func (c *Context) readStore(ctx context.Context) {
	id, err := c.store.Load(ctx, string(c.kind), c.userKey)
	if err != nil {
		if !errors.Is(err, outbound.ErrNoSelection) {
			c.logger.Warn("load tenant selection", zap.Error(err))
		}
		return
	}
	c.mu.Lock()
	c.persisted = &id
	c.mu.Unlock()
}

// Snapshot returns the current state.
func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Context) snapshotLocked() Snapshot {
	s := Snapshot{
		All:       append([]tenant.Team(nil), c.all...),
		Switching: c.switching,
		Loaded:    c.loaded,
	}
	if s.All == nil {
		s.All = []tenant.Team{}
	}
	if c.currentID != nil {
		id := *c.currentID
		s.CurrentID = &id
		if t, ok := tenant.Find(c.all, id); ok {
			s.Current = &t
		}
	}
	return s
}

// Ensure refreshes once when the list was never loaded.
func (c *Context) Ensure(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if loaded {
		return c.Snapshot(), nil
	}
	return c.Refresh(ctx)
}

// Refresh fetches the tenant list and reconciles the current id against it.
// When refreshes overlap, the one started last wins and older results
// arriving afterwards are discarded.
func (c *Context) Refresh(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	c.started++
	gen := c.started
	c.mu.Unlock()

	teams, err := c.teams.List(ctx)
	if err != nil {
		c.recordRefresh("error")
		return c.Snapshot(), fmt.Errorf("refresh tenants: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen < c.applied {
		c.recordRefresh("stale")
		c.logger.Debug("discarding stale tenant refresh", zap.Uint64("generation", gen))
		return c.snapshotLocked(), nil
	}
	c.applied = gen
	c.all = append([]tenant.Team(nil), teams...)
	c.loaded = true
	c.setCurrentLocked(ctx, tenant.ResolveCurrent(c.all, c.currentID, c.persisted))
	c.recordRefresh("applied")
	return c.snapshotLocked(), nil
}

// SwitchTo makes id current. Switching to the current tenant changes
// nothing. Otherwise the switching flag is raised for the configured delay;
// a newer switch restarts it. A context that never loaded fetches the list
// first so membership is checked against real data.
func (c *Context) SwitchTo(ctx context.Context, id int64) (Snapshot, error) {
	if _, err := c.Ensure(ctx); err != nil {
		return c.Snapshot(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentID != nil && *c.currentID == id {
		return c.snapshotLocked(), nil
	}
	if _, ok := tenant.Find(c.all, id); !ok {
		return c.snapshotLocked(), tenant.ErrTeamNotFound
	}

	c.setCurrentLocked(ctx, &id)
	c.startSwitchingLocked()
	if c.metrics != nil {
		c.metrics.RecordTenantSwitch()
	}
	return c.snapshotLocked(), nil
}

// Select sets the current tenant explicitly, without the switching delay.
// A nil id clears the selection.
func (c *Context) Select(ctx context.Context, id *int64) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !tenant.Contains(c.all, id) {
		return c.snapshotLocked(), tenant.ErrTeamNotFound
	}
	c.setCurrentLocked(ctx, id)
	return c.snapshotLocked(), nil
}

// Create creates a tenant, refreshes the list and switches to it.
func (c *Context) Create(ctx context.Context, name, icon string) (Snapshot, error) {
	name, err := tenant.ValidateName(name)
	if err != nil {
		return c.Snapshot(), err
	}
	if !tenant.ValidIcon(icon) {
		return c.Snapshot(), tenant.ErrInvalidIcon
	}

	created, err := c.teams.Create(ctx, name, icon)
	if err != nil {
		return c.Snapshot(), fmt.Errorf("create tenant: %w", err)
	}
	if _, err := c.Refresh(ctx); err != nil {
		return c.Snapshot(), err
	}

	c.logger.Info("tenant created", zap.Int64("team_id", created.ID), zap.String("name", name))
	return c.SwitchTo(ctx, created.ID)
}

// Delete deletes a tenant and refreshes the list. The deleted tenant is
// dropped locally before the refresh, so current never references it even
// when the refresh fails. That failure is reported as ErrListStale.
func (c *Context) Delete(ctx context.Context, id int64) (Snapshot, error) {
	if err := c.teams.Delete(ctx, id); err != nil {
		return c.Snapshot(), fmt.Errorf("delete tenant: %w", err)
	}
	c.logger.Info("tenant deleted", zap.Int64("team_id", id))
	c.forget(ctx, id)
	snap, err := c.Refresh(ctx)
	if err != nil {
		return snap, fmt.Errorf("%w: %w", ErrListStale, err)
	}
	return snap, nil
}

// forget removes id from the cached list and reconciles the current id.
// Refreshes already in flight carry the old list and are discarded.
func (c *Context) forget(ctx context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.started++
	c.applied = c.started
	if !c.loaded {
		if equalID(c.currentID, &id) || equalID(c.persisted, &id) {
			c.setCurrentLocked(ctx, nil)
		}
		return
	}

	kept := make([]tenant.Team, 0, len(c.all))
	for _, t := range c.all {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.all = kept
	c.setCurrentLocked(ctx, tenant.ResolveCurrent(c.all, c.currentID, c.persisted))
}

// setCurrentLocked updates the current id and mirrors it to the store.
// Store failures are logged; the in-memory selection stays authoritative.
func (c *Context) setCurrentLocked(ctx context.Context, id *int64) {
	c.currentID = id
	if equalID(c.persisted, id) {
		return
	}

	var err error
	if id == nil {
		err = c.store.Clear(ctx, string(c.kind), c.userKey)
	} else {
		err = c.store.Save(ctx, string(c.kind), c.userKey, *id)
	}
	if err != nil {
		c.logger.Warn("persist tenant selection", zap.Error(err))
		return
	}
	if id == nil {
		c.persisted = nil
	} else {
		v := *id
		c.persisted = &v
	}
}

func (c *Context) startSwitchingLocked() {
	c.switchSeq++
	seq := c.switchSeq
	c.switching = true
	if c.switchTimer != nil {
		c.switchTimer.Stop()
	}
	if c.switchDelay <= 0 {
		c.switching = false
		return
	}
	c.switchTimer = time.AfterFunc(c.switchDelay, func() {
		c.mu.Lock()
		if c.switchSeq == seq {
			c.switching = false
		}
		c.mu.Unlock()
	})
}

// close stops the pending switch timer.
func (c *Context) close() {
	c.mu.Lock()
	if c.switchTimer != nil {
		c.switchTimer.Stop()
	}
	c.switching = false
	c.mu.Unlock()
}

func (c *Context) recordRefresh(result string) {
	if c.metrics != nil {
		c.metrics.RecordTenantRefresh(result)
	}
}

func equalID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
