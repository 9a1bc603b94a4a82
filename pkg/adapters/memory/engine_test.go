package memory_test

import (
	"errors"
	"testing"

	"github.com/aretw0/sonisync/pkg/adapters/memory"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grouped(series ...[]float64) domain.Payload {
	p := domain.Payload{}
	for g, vs := range series {
		p.Groups = append(p.Groups, string(rune('A'+g)))
		points := make([]domain.Point, len(vs))
		for i, v := range vs {
			points[i] = domain.Point{X: float64(i), Y: v, Custom: domain.PointRef{Group: g, Index: i}}
		}
		p.Series = append(p.Series, points)
	}
	return p
}

func TestEngine_StackedAggregate(t *testing.T) {
	e := memory.NewEngine(ports.EngineConfig{Kind: domain.TargetBar, Stack: true, Data: grouped([]float64{10, 20}, []float64{30, 40}, []float64{5, 30})})

	assert.Equal(t, []string{ports.AggregateCategory, "A", "B", "C"}, e.Categories())
	assert.Equal(t, 90.0, e.Aggregate(1))

	require.NoError(t, e.SetCategoryVisibility("C", false))
	assert.Equal(t, 60.0, e.Aggregate(1))
	assert.Equal(t, []int{0, 1, 2}, e.VisibleIndices())

	assert.ErrorIs(t, e.SetCategoryVisibility("Z", false), domain.ErrUnknownCategory)
	assert.ErrorIs(t, e.AppendData(domain.Point{}, ports.AggregateCategory), domain.ErrUnknownCategory)
}

func TestEngine_Cursor(t *testing.T) {
	var focused int
	e := memory.NewEngine(ports.EngineConfig{Data: grouped([]float64{1, 2, 3}), OnFocus: func() { focused++ }})

	require.NoError(t, e.Move("A", 2))
	assert.Equal(t, 1, focused)
	assert.Equal(t, 2, e.Current().Index)
	assert.Equal(t, 3.0, e.Current().Point.Y)

	cursor := 2
	e.SetData(grouped([]float64{5, 10}), domain.Axes{}, &cursor)
	assert.Equal(t, 1, e.Current().Index, "cursor is clamped to the new data")

	e.SetData(grouped([]float64{5, 10}), domain.Axes{}, nil)
	assert.Equal(t, 0, e.Current().Index)
}

func TestEngine_Failures(t *testing.T) {
	e := memory.NewEngine(ports.EngineConfig{Data: domain.Payload{Series: [][]domain.Point{{{X: 0, Y: 1}}}}})
	assert.Equal(t, []string{""}, e.Categories())

	require.NoError(t, e.AppendData(domain.Point{X: 1, Y: 2}, ""))
	assert.Len(t, e.Data().Series[0], 2)

	boom := errors.New("boom")
	e.AppendErr = boom
	e.VisibilityErr = boom
	assert.ErrorIs(t, e.AppendData(domain.Point{}, ""), boom)
	assert.ErrorIs(t, e.SetCategoryVisibility("", false), boom)

	e.CleanUp()
	assert.True(t, e.CleanedUp())

	ops := e.Drain()
	assert.Equal(t, "construct", ops[0].Name)
	assert.Equal(t, "cleanUp", ops[len(ops)-1].Name)
	assert.Empty(t, e.Ops())
}

func TestEngine_PatchAxisBounds(t *testing.T) {
	e := memory.NewEngine(ports.EngineConfig{
		Data: domain.Payload{Series: [][]domain.Point{{{Y: 1}}}},
		Axes: domain.Axes{Y: domain.AxisSpec{Minimum: domain.Float(-1), Label: "kept"}},
	})
	e.PatchAxisBounds(domain.AxisY, domain.AxisBounds{Maximum: domain.Float(50)})

	y := e.Axes().Y
	assert.Equal(t, -1.0, *y.Minimum)
	assert.Equal(t, 50.0, *y.Maximum)
	assert.Equal(t, "kept", y.Label)
}

func TestFactory(t *testing.T) {
	f := memory.NewFactory()
	s, err := f.New(ports.EngineConfig{Target: "canvas-1", Data: grouped([]float64{1})})
	require.NoError(t, err)

	e, ok := f.Engine("canvas-1")
	require.True(t, ok)
	assert.Same(t, s, ports.Sonifier(e))

	f.Err = errors.New("no audio")
	_, err = f.New(ports.EngineConfig{Target: "canvas-2"})
	assert.Error(t, err)
}

func TestEngine_SetDataDropsVisibility(t *testing.T) {
	e := memory.NewEngine(ports.EngineConfig{Data: grouped([]float64{1, 2}, []float64{3, 4})})
	require.NoError(t, e.SetCategoryVisibility("A", false))
	require.True(t, e.Hidden("A"))

	e.SetData(grouped([]float64{5, 6}, []float64{7, 8}), domain.Axes{}, nil)

	assert.False(t, e.Hidden("A"), "a bulk replace resets category visibility")
	assert.Equal(t, []int{0, 1}, e.VisibleIndices())
}
