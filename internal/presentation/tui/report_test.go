package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/sonisync/internal/presentation/tui"
	"github.com/aretw0/sonisync/pkg/adapters/memory"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/scenario"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

var report = &scenario.Report{
	Name:    "demo",
	ChartID: "sales",
	Steps: []scenario.StepResult{
		{Step: 0, Action: "create", State: domain.LifecycleActive, Verdict: domain.VerdictScaleOnly, Applied: domain.VerdictScaleOnly, Ops: []memory.Op{{Name: "construct"}, {Name: "patchAxis"}}},
		{Step: 1, Action: "update", State: domain.LifecycleActive, Errors: []string{"unsupported"}},
	},
}

func TestPrintSteps_Ascii(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintSteps(&buf, termenv.Ascii, report)

	assert.Equal(t,
		"  0  create   scale_only -> scale_only  [construct, patchAxis]\n"+
			"  1  update   - -> -  []\n"+
			"       unsupported\n",
		buf.String())
}

func TestColorVerdict(t *testing.T) {
	assert.Equal(t, "replace", tui.ColorVerdict(termenv.Ascii, domain.VerdictReplace))
	assert.Contains(t, tui.ColorVerdict(termenv.TrueColor, domain.VerdictReplace), "\x1b[")
}

func TestReportMarkdown(t *testing.T) {
	md := tui.ReportMarkdown(report)
	assert.Contains(t, md, "# demo\n")
	assert.Contains(t, md, "| 0 | create | active | scale_only | scale_only | `construct` `patchAxis` |")
	assert.Contains(t, md, "| 1 | update | active | - | - | - |")
	assert.Contains(t, md, "## Errors\n\n- step 1: unsupported\n")
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("# Title")
	assert.NoError(t, err)
	assert.Contains(t, out, "Title")
}
