package registry_test

import (
	"testing"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := registry.New()
	assert.Equal(t, domain.LifecycleUninitialized, r.State("chart-1"))

	r.Register(&registry.Record{ChartID: "chart-1"})
	r.Register(&registry.Record{ChartID: "chart-0"})
	assert.Equal(t, domain.LifecycleActive, r.State("chart-1"))
	assert.Equal(t, []string{"chart-0", "chart-1"}, r.IDs())
	assert.Equal(t, 2, r.Len())

	rec, ok := r.Lookup("chart-1")
	require.True(t, ok)
	assert.Equal(t, "chart-1", rec.ChartID)

	dropped, ok := r.Unregister("chart-1")
	require.True(t, ok)
	assert.Same(t, rec, dropped)
	assert.Equal(t, domain.LifecycleDestroyed, r.State("chart-1"))

	_, ok = r.Lookup("chart-1")
	assert.False(t, ok)

	_, ok = r.Unregister("never-registered")
	assert.False(t, ok)
}

func TestRecord_Visibility(t *testing.T) {
	rec := &registry.Record{VisibleSeries: []int{0, 1, 2}}

	rec.Hide(1)
	assert.Equal(t, []int{0, 2}, rec.VisibleSeries)

	rec.Hide(1)
	assert.Equal(t, []int{0, 2}, rec.VisibleSeries, "hiding twice is a no-op")

	rec.Show(1)
	rec.Show(1)
	assert.ElementsMatch(t, []int{0, 1, 2}, rec.VisibleSeries)
}

func TestRegistry_Revive(t *testing.T) {
	r := registry.New()
	assert.False(t, r.Revive("chart-1"), "nothing to revive")

	r.Register(&registry.Record{ChartID: "chart-1"})
	r.Unregister("chart-1")
	require.Equal(t, domain.LifecycleDestroyed, r.State("chart-1"))

	assert.True(t, r.Revive("chart-1"))
	assert.Equal(t, domain.LifecycleUninitialized, r.State("chart-1"))
	assert.False(t, r.Revive("chart-1"))
}

func TestRecord_DeferredUpdate(t *testing.T) {
	rec := &registry.Record{}

	require.True(t, rec.Begin())
	assert.False(t, rec.End(), "no update arrived while reconciling")

	require.True(t, rec.Begin())
	assert.False(t, rec.Begin(), "re-entrant begin is refused")
	assert.True(t, rec.End(), "the refused update is reported")

	require.True(t, rec.Begin(), "the record is free again")
	assert.False(t, rec.End())
}
