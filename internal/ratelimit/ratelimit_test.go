package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterCapacity(t *testing.T) {
	l := NewMemoryLimiter(Config{Capacity: 2, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "caller-a")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow(ctx, "caller-a")
	require.NoError(t, err)
	assert.False(t, ok)

	// Independent key gets its own window.
	ok, err = l.Allow(ctx, "caller-b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiterWindowExpiry(t *testing.T) {
	l := NewMemoryLimiter(Config{Capacity: 1, Window: time.Minute})

	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	ctx := context.Background()

	ok, err := l.Allow(ctx, "caller")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(ctx, "caller")
	require.NoError(t, err)
	assert.False(t, ok)

	current = current.Add(time.Minute + time.Second)

	ok, err = l.Allow(ctx, "caller")
	require.NoError(t, err)
	assert.True(t, ok, "expired window must be evicted and refilled")
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, Config{Capacity: 2, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "caller")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow(ctx, "caller")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, err = l.Allow(ctx, "caller")
	require.NoError(t, err)
	assert.True(t, ok, "counter key must expire with the window")
}
