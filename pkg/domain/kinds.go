package domain

import (
	"fmt"
	"sort"
	"strings"
)

// TargetKind is a sonification series kind.
type TargetKind string

const (
	TargetBar     TargetKind = "bar"
	TargetLine    TargetKind = "line"
	TargetPie     TargetKind = "pie"
	TargetBox     TargetKind = "box"
	TargetScatter TargetKind = "scatter"
)

// Host chart kinds with special axis handling.
const (
	KindWordCloud = "wordCloud"
	KindScatter   = "scatter"
)

var kindTable = map[string]TargetKind{
	"bar":       TargetBar,
	"line":      TargetLine,
	"pie":       TargetPie,
	"polarArea": TargetBar,
	"doughnut":  TargetPie,
	"boxplot":   TargetBox,
	"radar":     TargetBar,
	"wordCloud": TargetBar,
	"scatter":   TargetScatter,
}

// SupportedKinds lists the host kinds that map to a target kind, sorted.
func SupportedKinds() []string {
	kinds := make([]string, 0, len(kindTable))
	for k := range kindTable {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// ResolveTarget maps every series kind to a target kind. A dataset without
// its own kind inherits chartKind. All series must land on the same target.
func ResolveTarget(chartKind string, datasets []Dataset) (TargetKind, error) {
	kinds := make([]string, 0, len(datasets))
	for _, ds := range datasets {
		k := ds.Kind
		if k == "" {
			k = chartKind
		}
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		kinds = append(kinds, chartKind)
	}

	var target TargetKind
	for _, k := range kinds {
		t, ok := kindTable[k]
		if !ok {
			return "", fmt.Errorf("%w: the chart is of type %q, which is not one of the supported chart types for this plugin. This plugin supports: %s",
				ErrUnsupportedSeriesKind, k, strings.Join(SupportedKinds(), ", "))
		}
		if target != "" && t != target {
			return "", fmt.Errorf("%w: series kinds %q map to different sonification kinds (%s, %s)",
				ErrUnsupportedSeriesKind, k, target, t)
		}
		target = t
	}
	return target, nil
}
