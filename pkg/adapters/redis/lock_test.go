package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sonisync/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "chart-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("sonisync:lock:chart-1"))

	t.Run("Contended", func(t *testing.T) {
		short, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
		defer cancel()
		_, err := locker.Lock(short, "chart-1", time.Minute)
		assert.ErrorIs(t, err, redis.ErrLockAcquire)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Other Keys Are Independent", func(t *testing.T) {
		other, err := locker.Lock(ctx, "chart-2", time.Minute)
		require.NoError(t, err)
		require.NoError(t, other(ctx))
	})

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("sonisync:lock:chart-1"))

	t.Run("Stale Unlock Keeps New Holder", func(t *testing.T) {
		again, err := locker.Lock(ctx, "chart-1", time.Minute)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx), "old token must not delete the new lock")
		assert.True(t, mr.Exists("sonisync:lock:chart-1"))
		require.NoError(t, again(ctx))
	})
}
