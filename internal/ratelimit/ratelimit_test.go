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

func TestLocal(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLocal(6, 2) // one token every 10s
	l.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d within burst", i+1)
	}
	ok, _ := l.Allow(ctx, "alice")
	assert.False(t, ok, "third attempt exceeds burst")

	ok, _ = l.Allow(ctx, "bob")
	assert.True(t, ok, "keys are independent")

	clock = clock.Add(10 * time.Second)
	ok, _ = l.Allow(ctx, "alice")
	assert.True(t, ok, "token refilled")
}

func TestLocalSweep(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLocal(60, 5)
	l.now = func() time.Time { return clock }

	_, _ = l.Allow(ctx, "old")
	clock = clock.Add(time.Hour)
	_, _ = l.Allow(ctx, "fresh")

	assert.Equal(t, 1, l.Sweep(30*time.Minute))
	assert.Equal(t, 1, l.Len())
}

func TestStartJanitor(t *testing.T) {
	l := NewLocal(60, 5)

	c, err := StartJanitor(l, "@every 1m", time.Minute)
	require.NoError(t, err)
	c.Stop()

	_, err = StartJanitor(l, "not a schedule", time.Minute)
	assert.Error(t, err)
}

func TestRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRedis(client, "join", 3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, mr.Exists("join:alice"))
	assert.Equal(t, time.Minute, mr.TTL("join:alice"))

	// The window resets once the key expires
	mr.FastForward(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisKeyWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	require.NoError(t, mr.Set("join:bob", "5"))
	l := NewRedis(client, "join", 3, time.Minute)

	ok, err := l.Allow(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("join:bob"))

	mr.FastForward(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	_, err := NewRedis(client, "join", 3, time.Minute).Allow(context.Background(), "alice")
	assert.Error(t, err)
}
