package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	chartID := "contract-test-chart-" + time.Now().Format("20060102150405")

	visible := func(int) bool { return true }
	snap, err := domain.TakeSnapshot(
		[]domain.Dataset{{Label: "Sales", Data: domain.Nums(1, 2, 3)}},
		[]string{"A", "B", "C"},
		visible,
	)
	require.NoError(t, err)

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, chartID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, chartID)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, snap.Equal(loaded), "loaded fingerprint must be byte-identical")
	})

	t.Run("Overwrite", func(t *testing.T) {
		next, err := domain.TakeSnapshot(
			[]domain.Dataset{{Label: "Sales", Data: domain.Nums(5, 10, 15)}},
			[]string{"A", "B", "C"},
			visible,
		)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, chartID, next))

		loaded, err := store.Load(ctx, chartID)
		require.NoError(t, err)
		assert.True(t, next.Equal(loaded))
		assert.False(t, snap.Equal(loaded))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+chartID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, chartID, snap))

		err := store.Delete(ctx, chartID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, chartID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := chartID + "-1"
		id2 := chartID + "-2"
		_ = store.Save(ctx, id1, snap)
		_ = store.Save(ctx, id2, snap)

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
