package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/scenario"
	"github.com/muesli/termenv"
)

var verdictColors = map[domain.VerdictKind]string{
	domain.VerdictUnchanged:  "#9ca3af",
	domain.VerdictScaleOnly:  "#60a5fa",
	domain.VerdictPureAppend: "#34d399",
	domain.VerdictReplace:    "#fbbf24",
}

// ColorVerdict renders a verdict in its color for the given profile.
func ColorVerdict(p termenv.Profile, v domain.VerdictKind) string {
	if v == "" {
		return "-"
	}
	s := p.String(string(v))
	if c, ok := verdictColors[v]; ok {
		s = s.Foreground(p.Color(c))
	}
	return s.String()
}

// PrintSteps writes one line per step: action, verdict, applied strategy
// and engine operations.
func PrintSteps(w io.Writer, p termenv.Profile, report *scenario.Report) {
	for _, st := range report.Steps {
		ops := make([]string, len(st.Ops))
		for i, op := range st.Ops {
			ops[i] = op.Name
		}
		fmt.Fprintf(w, "%3d  %-8s %s -> %s  [%s]\n",
			st.Step, st.Action,
			ColorVerdict(p, st.Verdict), ColorVerdict(p, st.Applied),
			strings.Join(ops, ", "))
		for _, e := range st.Errors {
			fmt.Fprintf(w, "       %s\n", p.String(e).Foreground(p.Color("#f87171")))
		}
	}
}

// ReportMarkdown renders a replay report as a markdown document.
func ReportMarkdown(report *scenario.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", fallback(report.Name, "Replay"))
	fmt.Fprintf(&sb, "Chart `%s`, %d steps.\n\n", report.ChartID, len(report.Steps))
	sb.WriteString("| Step | Action | State | Verdict | Applied | Engine ops |\n")
	sb.WriteString("|---:|---|---|---|---|---|\n")
	for _, st := range report.Steps {
		ops := make([]string, len(st.Ops))
		for i, op := range st.Ops {
			ops[i] = "`" + op.Name + "`"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s |\n",
			st.Step, st.Action, st.State,
			fallback(string(st.Verdict), "-"), fallback(string(st.Applied), "-"),
			fallback(strings.Join(ops, " "), "-"))
	}

	var errs []string
	for _, st := range report.Steps {
		for _, e := range st.Errors {
			errs = append(errs, fmt.Sprintf("- step %d: %s", st.Step, e))
		}
	}
	if len(errs) > 0 {
		sb.WriteString("\n## Errors\n\n")
		sb.WriteString(strings.Join(errs, "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
