package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdeck/console/internal/port/outbound"
)

func TestSelectionStore(t *testing.T) {
	ctx := context.Background()
	s := NewSelectionStore(2, 0)

	_, err := s.Load(ctx, "team", "1")
	assert.ErrorIs(t, err, outbound.ErrNoSelection)

	require.NoError(t, s.Save(ctx, "team", "1", 42))
	id, err := s.Load(ctx, "team", "1")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	_, err = s.Load(ctx, "workspace", "1")
	assert.ErrorIs(t, err, outbound.ErrNoSelection, "kinds are isolated")

	require.NoError(t, s.Clear(ctx, "team", "1"))
	_, err = s.Load(ctx, "team", "1")
	assert.ErrorIs(t, err, outbound.ErrNoSelection)
}

func TestSelectionStore_Evicts(t *testing.T) {
	ctx := context.Background()
	s := NewSelectionStore(2, 0)

	require.NoError(t, s.Save(ctx, "team", "a", 1))
	require.NoError(t, s.Save(ctx, "team", "b", 2))
	require.NoError(t, s.Save(ctx, "team", "c", 3))

	_, err := s.Load(ctx, "team", "a")
	assert.ErrorIs(t, err, outbound.ErrNoSelection)
	id, err := s.Load(ctx, "team", "c")
	require.NoError(t, err)
	assert.EqualValues(t, 3, id)
}

func TestCooldownStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := newCooldownStore(10, func() time.Time { return now })
	require.NoError(t, err)

	ok, _, err := s.Acquire(ctx, "resend:a@b.co", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(20 * time.Second)
	ok, remaining, err := s.Acquire(ctx, "resend:a@b.co", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, remaining)

	// A restart always grants the full duration again.
	require.NoError(t, s.Restart(ctx, "resend:a@b.co", time.Minute))
	_, remaining, _ = s.Acquire(ctx, "resend:a@b.co", time.Minute)
	assert.Equal(t, time.Minute, remaining)

	require.NoError(t, s.Release(ctx, "resend:a@b.co"))
	ok, _, _ = s.Acquire(ctx, "resend:a@b.co", time.Minute)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _, _ = s.Acquire(ctx, "resend:a@b.co", time.Minute)
	assert.True(t, ok, "expired cooldown is reacquired")
}

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r, err := newRateLimiter(10, func() time.Time { return now })
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ok, err := r.Allow(ctx, "ip:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		now = now.Add(time.Second)
	}
	ok, _ := r.Allow(ctx, "ip:1", 3, time.Minute)
	assert.False(t, ok)
	left, _ := r.Remaining(ctx, "ip:1", 3, time.Minute)
	assert.Equal(t, 0, left)

	ok, _ = r.Allow(ctx, "ip:2", 3, time.Minute)
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Minute)
	left, _ = r.Remaining(ctx, "ip:1", 3, time.Minute)
	assert.Equal(t, 3, left)
}
