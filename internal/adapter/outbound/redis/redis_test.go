package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdeck/console/internal/port/outbound"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSelectionStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	s := NewSelectionStore(client, "console:", time.Hour)

	_, err := s.Load(ctx, "team", "7")
	assert.ErrorIs(t, err, outbound.ErrNoSelection)

	require.NoError(t, s.Save(ctx, "team", "7", 12))
	got, err := mr.Get("console:selection:team:7")
	require.NoError(t, err)
	assert.Equal(t, "12", got)
	assert.Equal(t, time.Hour, mr.TTL("console:selection:team:7"))

	id, err := s.Load(ctx, "team", "7")
	require.NoError(t, err)
	assert.EqualValues(t, 12, id)

	require.NoError(t, s.Clear(ctx, "team", "7"))
	assert.False(t, mr.Exists("console:selection:team:7"))
}

func TestSelectionStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	s := NewSelectionStore(client, "", 0)

	require.NoError(t, mr.Set("selection:team:7", "not-a-number"))
	_, err := s.Load(ctx, "team", "7")
	assert.ErrorIs(t, err, outbound.ErrNoSelection)
}

func TestSelectionStore_ConnectionError(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	s := NewSelectionStore(client, "", 0)
	mr.Close()

	_, err := s.Load(ctx, "team", "7")
	require.Error(t, err)
	assert.NotErrorIs(t, err, outbound.ErrNoSelection)
}

func TestCooldownStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	s := NewCooldownStore(client, "console:")

	ok, _, err := s.Acquire(ctx, "resend:a@b.co", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(15 * time.Second)
	ok, remaining, err := s.Acquire(ctx, "resend:a@b.co", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 45*time.Second, remaining)

	require.NoError(t, s.Restart(ctx, "resend:a@b.co", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("console:cooldown:resend:a@b.co"))

	require.NoError(t, s.Release(ctx, "resend:a@b.co"))
	ok, _, err = s.Acquire(ctx, "resend:a@b.co", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(61 * time.Second)
	ok, _, err = s.Acquire(ctx, "resend:a@b.co", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	now := time.Now()
	r := NewRateLimiter(client, "console:").(*rateLimiter)
	r.now = func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}

	for i := 0; i < 2; i++ {
		ok, err := r.Allow(ctx, "ip:1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := r.Allow(ctx, "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	left, err := r.Remaining(ctx, "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	n, err := client.ZCard(ctx, "console:ratelimit:ip:1").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	now = now.Add(2 * time.Minute)
	left, err = r.Remaining(ctx, "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, left)
}
