package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/scenario"
)

// GenerateMermaid renders a replay report as a Mermaid flowchart, one node
// per step, with edges labeled by the strategy applied to reach it.
// It applies semantic styling:
// - Create: ((Circle))
// - Destroy: [[Subroutine]]
// - Hide/Show: [/Parallelogram/]
// - Default: [Rectangle]
// Steps that reported errors are styled as failed; the final step as current.
func GenerateMermaid(report *scenario.Report) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var failed []string
	prev := ""
	for _, st := range report.Steps {
		id := fmt.Sprintf("s%d", st.Step)

		opener, closer := "[", "]"
		switch st.Action {
		case "create":
			opener, closer = "((", "))"
		case scenario.ActionDestroy:
			opener, closer = "[[", "]]"
		case scenario.ActionHide, scenario.ActionShow:
			opener, closer = "[/", "/]"
		}

		label := fmt.Sprintf("%d. %s", st.Step, st.Action)
		if len(st.Ops) > 0 {
			label += fmt.Sprintf(" <br/> %d ops", len(st.Ops))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)

		if prev != "" {
			arrow := "-->"
			if st.Applied != "" && st.Applied != domain.VerdictUnchanged {
				arrow = fmt.Sprintf("-- \"%s\" -->", st.Applied)
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", prev, arrow, id)
		}
		if len(st.Errors) > 0 {
			failed = append(failed, id)
		}
		prev = id
	}

	if len(failed) > 0 || prev != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range failed {
			fmt.Fprintf(&sb, "    class %s failed;\n", id)
		}
		if prev != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", prev)
		}
	}

	return sb.String()
}
