package scenario_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/sonisync/pkg/adapters/memory"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opNames(ops []memory.Op) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}

func TestParse(t *testing.T) {
	sc, err := scenario.Load(filepath.Join("testdata", "stacked.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "stacked sales", sc.Name)
	assert.Equal(t, "bar", sc.Chart.Type)
	require.Len(t, sc.Chart.Datasets, 3)
	assert.Equal(t, domain.Nums(10, 100), sc.Chart.Datasets[0].Data)
	assert.True(t, sc.Chart.Scales.Y.Stacked)
	assert.Len(t, sc.Steps, 6)
	assert.Equal(t, scenario.Step{Action: "move", Category: "North", Index: 1}, sc.Steps[1])
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"Not YAML":       "chart: [",
		"Missing Type":   "chart: {datasets: [{data: [1]}]}",
		"Unknown Action": "chart: {type: bar, datasets: [{data: [1]}]}\nsteps: [{action: zoom}]",
		"Bad Series":     "chart: {type: bar, datasets: [{data: [1]}]}\nsteps: [{action: hide, series: 4}]",
		"Bad Value":      "chart: {type: bar, datasets: [{data: [[1, \"x\"]]}]}",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(doc))
			assert.ErrorIs(t, err, scenario.ErrInvalidScenario)
		})
	}
}

func TestReplay_Stacked(t *testing.T) {
	sc, err := scenario.Load(filepath.Join("testdata", "stacked.yaml"))
	require.NoError(t, err)

	report, err := scenario.NewReplayer().Replay(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, report.Steps, 7)
	assert.Equal(t, "sales", report.ChartID)

	create := report.Steps[0]
	assert.Equal(t, domain.LifecycleActive, create.State)
	assert.Equal(t, domain.VerdictScaleOnly, create.Verdict)
	assert.Equal(t, []string{"construct", "patchAxis", "patchAxis"}, opNames(create.Ops))

	hide := report.Steps[1]
	assert.Equal(t, domain.VerdictReplace, hide.Applied)
	assert.Equal(t, memory.Op{Name: "setCategoryVisibility", Category: "West", Detail: "visible=false"}, hide.Ops[0])

	move := report.Steps[2]
	assert.Empty(t, move.Ops)
	assert.Equal(t, []domain.ElementRef{{DatasetIndex: 0, Index: 1}, {DatasetIndex: 1, Index: 1}}, move.Highlight)

	assert.Empty(t, report.Steps[3].Highlight, "blur clears the highlight")

	update := report.Steps[5]
	assert.Equal(t, domain.VerdictUnchanged, update.Verdict)
	assert.Empty(t, update.Ops)

	destroy := report.Steps[6]
	assert.Equal(t, domain.LifecycleDestroyed, destroy.State)
	assert.Equal(t, []string{"cleanUp"}, opNames(destroy.Ops))
}

func TestReplay_LiveFeed(t *testing.T) {
	sc, err := scenario.Load(filepath.Join("testdata", "live.yaml"))
	require.NoError(t, err)

	report, err := scenario.NewReplayer(scenario.WithAppend(true)).Replay(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, report.Steps, 4)

	assert.Equal(t, domain.LifecycleUninitialized, report.Steps[0].State, "an empty chart waits for data")

	first := report.Steps[1]
	assert.Equal(t, domain.LifecycleActive, first.State)
	assert.Equal(t, []string{"construct", "patchAxis", "patchAxis"}, opNames(first.Ops))

	appended := report.Steps[2]
	assert.Equal(t, domain.VerdictPureAppend, appended.Applied)
	assert.Equal(t, []string{"appendData"}, opNames(appended.Ops))

	changed := report.Steps[3]
	assert.Equal(t, domain.VerdictReplace, changed.Applied)
	assert.Equal(t, []string{"setData"}, opNames(changed.Ops))
}
