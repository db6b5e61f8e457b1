package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisLockerForTest(t *testing.T, retries int) *RedisLocker {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := NewRedisClient(addr, "", 0)
	if client == nil {
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, 2*time.Second, retries, 20*time.Millisecond)
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	l := redisLockerForTest(t, 1)
	ctx := context.Background()
	key := "test:" + t.Name()

	first, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, key)
	assert.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, first.Release(ctx))
	assert.ErrorIs(t, first.Release(ctx), ErrNotOwned)

	second, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	require.NoError(t, second.Release(ctx))
}

func TestRedisLocker_RetryUntilReleased(t *testing.T) {
	l := redisLockerForTest(t, 50)
	ctx := context.Background()
	key := "test:" + t.Name()

	first, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = first.Release(ctx)
	}()

	second, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	require.NoError(t, second.Release(ctx))
}
