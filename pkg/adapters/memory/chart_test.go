package memory_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/sonisync/pkg/adapters/memory"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Chart = (*memory.Chart)(nil)
var _ ports.Sonifier = (*memory.Engine)(nil)

func TestChart_Layout(t *testing.T) {
	t.Run("No Scales Before Layout", func(t *testing.T) {
		c := memory.NewChart(memory.ChartDocument{Type: "bar", Datasets: []domain.Dataset{{Data: domain.Nums(1, 2)}}})
		assert.Nil(t, c.ComputedScales().X)
		assert.Nil(t, c.ComputedScales().Y)
	})

	t.Run("Category Axis Is Padded", func(t *testing.T) {
		c := memory.NewChart(memory.ChartDocument{
			Type:     "bar",
			Labels:   []string{"a", "b", "c"},
			Datasets: []domain.Dataset{{Data: domain.Nums(3, 7, 5)}},
		})
		c.Layout()
		assert.Equal(t, &domain.Range{Min: -0.5, Max: 2.5}, c.ComputedScales().X)
		assert.Equal(t, &domain.Range{Min: 0, Max: 7}, c.ComputedScales().Y)
	})

	t.Run("Stacked Sums Visible Series", func(t *testing.T) {
		c := memory.NewChart(memory.ChartDocument{
			Type:   "bar",
			Labels: []string{"a", "b"},
			Datasets: []domain.Dataset{
				{Label: "A", Data: domain.Nums(10, 20)},
				{Label: "B", Data: domain.Nums(30, 40)},
				{Label: "C", Data: domain.Nums(5, 30)},
			},
			Scales: domain.AxisOptions{X: domain.AxisOption{Stacked: true}, Y: domain.AxisOption{Stacked: true}},
		})
		c.Layout()
		assert.Equal(t, 90.0, c.ComputedScales().Y.Max)

		c.SetDatasetVisibility(2, false)
		c.Layout()
		assert.Equal(t, 60.0, c.ComputedScales().Y.Max)
	})

	t.Run("Scatter Uses Point X", func(t *testing.T) {
		c := memory.NewChart(memory.ChartDocument{
			Type:     "scatter",
			Datasets: []domain.Dataset{{Data: []domain.Value{domain.XY(-4, 1), domain.XY(12, 3)}}},
		})
		c.Layout()
		assert.Equal(t, &domain.Range{Min: -4, Max: 12}, c.ComputedScales().X)
	})
}

func TestChart_Document(t *testing.T) {
	raw := `{
		"type": "line",
		"labels": ["Mon", "Tue"],
		"datasets": [{"label": "Temp", "data": [12.5, null]}, {"data": [[1, 3], [2, 4]]}],
		"hidden": [1],
		"scales": {"y": {"min": 0, "title": {"text": "Celsius", "display": true}}}
	}`
	var doc memory.ChartDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	c := memory.NewChart(doc)
	assert.NotEmpty(t, c.ID(), "ID is generated")
	assert.True(t, c.IsDatasetVisible(0))
	assert.False(t, c.IsDatasetVisible(1))
	assert.Equal(t, "Celsius", c.AxisOptions().Y.Title.Text)
	assert.Equal(t, domain.ValueNull, c.Datasets()[0].Data[1].Kind)
	assert.Equal(t, domain.ValueRange, c.Datasets()[1].Data[0].Kind)

	out := c.Document()
	assert.Equal(t, c.ID(), out.ID)
	assert.Equal(t, []int{1}, out.Hidden)
}

func TestChart_FocusListeners(t *testing.T) {
	c := memory.NewChart(memory.ChartDocument{Type: "bar"})
	var focused, blurred int
	c.OnFocus(func() { focused++ })
	c.OnBlur(func() { blurred++ })

	c.Focus()
	c.Blur()
	c.Blur()
	assert.Equal(t, 1, focused)
	assert.Equal(t, 2, blurred)

	require.NoError(t, c.SetActiveElements([]domain.ElementRef{{DatasetIndex: 0, Index: 2}}))
	assert.Len(t, c.ActiveElements(), 1)
}
