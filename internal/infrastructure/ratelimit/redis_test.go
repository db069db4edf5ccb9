package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisRateLimiter_CheckAndRecord(t *testing.T) {
	l := NewRedisRateLimiter(setupTestRedis(t))
	clock := &fakeClock{t: time.Now()}
	l.now = clock.Now
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := l.CheckAndRecord(ctx, "u1", "file_upload", hourly5, true)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should be allowed", i+1)
	}

	res, err := l.CheckAndRecord(ctx, "u1", "file_upload", hourly5, true)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "6th request should be denied")

	clock.Advance(time.Hour + time.Second)
	res, err = l.CheckAndRecord(ctx, "u1", "file_upload", hourly5, true)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisRateLimiter_Clear(t *testing.T) {
	l := NewRedisRateLimiter(setupTestRedis(t))
	ctx := context.Background()
	rule := Rule{Max: 1, Window: time.Minute}

	_, err := l.CheckAndRecord(ctx, "ip", "login", rule, true)
	require.NoError(t, err)
	require.NoError(t, l.Clear(ctx, "ip", "login"))

	res, err := l.CheckAndRecord(ctx, "ip", "login", rule, false)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisRateLimiter_ConcurrentCallersShareTheLimit(t *testing.T) {
	l := NewRedisRateLimiter(setupTestRedis(t))
	ctx := context.Background()
	rule := Rule{Max: 10, Window: time.Minute}

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.CheckAndRecord(ctx, "10.0.0.1", "login", rule, true)
			if assert.NoError(t, err) && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(rule.Max), allowed.Load())

	res, err := l.Remaining(ctx, "10.0.0.1", "login", rule)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestRedisRateLimiter_DeniedAttemptIsNotRecorded(t *testing.T) {
	client := setupTestRedis(t)
	l := NewRedisRateLimiter(client)
	ctx := context.Background()
	rule := Rule{Max: 2, Window: time.Minute}

	for i := 0; i < 5; i++ {
		_, err := l.CheckAndRecord(ctx, "u", "upload", rule, true)
		require.NoError(t, err)
	}

	n, err := client.ZCard(ctx, l.getKey("u", "upload")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	res, err := l.CheckAndRecord(ctx, "u", "upload", rule, false)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.False(t, res.ResetAt.IsZero())
}
