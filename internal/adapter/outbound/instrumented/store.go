// Package instrumented decorates outbound stores with metrics.
package instrumented

import (
	"context"
	"errors"
	"time"

	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/utils/metrics"
)

type selectionStore struct {
	next    outbound.SelectionStore
	driver  string
	metrics *metrics.Metrics
}

// SelectionStore records every operation of next under driver.
// A nil metrics returns next unchanged.
func SelectionStore(next outbound.SelectionStore, driver string, m *metrics.Metrics) outbound.SelectionStore {
	if m == nil {
		return next
	}
	return &selectionStore{next: next, driver: driver, metrics: m}
}

func (s *selectionStore) Load(ctx context.Context, kind, userKey string) (int64, error) {
	id, err := s.next.Load(ctx, kind, userKey)
	// An empty slot is a normal answer.
	result := err
	if errors.Is(err, outbound.ErrNoSelection) {
		result = nil
	}
	s.metrics.RecordStoreOp(s.driver, "load", result)
	return id, err
}

func (s *selectionStore) Save(ctx context.Context, kind, userKey string, id int64) error {
	err := s.next.Save(ctx, kind, userKey, id)
	s.metrics.RecordStoreOp(s.driver, "save", err)
	return err
}

func (s *selectionStore) Clear(ctx context.Context, kind, userKey string) error {
	err := s.next.Clear(ctx, kind, userKey)
	s.metrics.RecordStoreOp(s.driver, "clear", err)
	return err
}

type cooldownStore struct {
	next    outbound.CooldownStore
	driver  string
	metrics *metrics.Metrics
}

// CooldownStore records every operation of next under driver.
func CooldownStore(next outbound.CooldownStore, driver string, m *metrics.Metrics) outbound.CooldownStore {
	if m == nil {
		return next
	}
	return &cooldownStore{next: next, driver: driver, metrics: m}
}

func (s *cooldownStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	ok, left, err := s.next.Acquire(ctx, key, ttl)
	s.metrics.RecordStoreOp(s.driver, "cooldown_acquire", err)
	return ok, left, err
}

func (s *cooldownStore) Restart(ctx context.Context, key string, ttl time.Duration) error {
	err := s.next.Restart(ctx, key, ttl)
	s.metrics.RecordStoreOp(s.driver, "cooldown_restart", err)
	return err
}

func (s *cooldownStore) Release(ctx context.Context, key string) error {
	err := s.next.Release(ctx, key)
	s.metrics.RecordStoreOp(s.driver, "cooldown_release", err)
	return err
}
