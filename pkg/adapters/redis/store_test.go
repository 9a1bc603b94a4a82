package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/sonisync/pkg/adapters/redis"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sampleSnapshot(t *testing.T) domain.Snapshot {
	t.Helper()
	snap, err := domain.TakeSnapshot([]domain.Dataset{{Data: domain.Nums(1, 2)}}, nil, func(int) bool { return true })
	require.NoError(t, err)
	return snap
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunSnapshotStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "chart-ttl", sampleSnapshot(t)))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "chart-ttl")

	mr.FastForward(2 * time.Second)
	_, err = store.Load(ctx, "chart-ttl")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	// The index is pruned against wall-clock time.
	time.Sleep(1200 * time.Millisecond)
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "my-chart", sampleSnapshot(t)))

	assert.True(t, mr.Exists("custom:app:my-chart"))
	assert.True(t, mr.Exists("custom:app:index"))

	raw, err := mr.Get("custom:app:my-chart")
	require.NoError(t, err)
	assert.JSONEq(t, `{"datasets":[{"data":[1,2],"visible":true}],"labels":null}`, raw)
}
