package instrumented

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/port/outbound/mocks"
	"github.com/teamdeck/console/internal/utils/metrics"
)

func TestSelectionStore(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	next := new(mocks.SelectionStore)
	next.On("Load", mock.Anything, "team", "u1").Return(int64(0), outbound.ErrNoSelection)
	next.On("Save", mock.Anything, "team", "u1", int64(5)).Return(errors.New("down"))

	store := SelectionStore(next, "redis", m)

	_, err := store.Load(context.Background(), "team", "u1")
	assert.ErrorIs(t, err, outbound.ErrNoSelection)
	require.Error(t, store.Save(context.Background(), "team", "u1", 5))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOpsTotal.WithLabelValues("redis", "load", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOpsTotal.WithLabelValues("redis", "save", "error")))
}

func TestCooldownStore(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	next := new(mocks.CooldownStore)
	next.On("Acquire", mock.Anything, "k", time.Minute).Return(true, time.Duration(0), nil)

	store := CooldownStore(next, "memory", m)
	ok, _, err := store.Acquire(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOpsTotal.WithLabelValues("memory", "cooldown_acquire", "ok")))
}

func TestNilMetricsPassThrough(t *testing.T) {
	next := new(mocks.SelectionStore)
	assert.Same(t, next, SelectionStore(next, "memory", nil))
}
