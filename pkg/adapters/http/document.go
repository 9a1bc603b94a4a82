package http

import (
	"sort"

	"github.com/aretw0/sonisync/pkg/adapters/memory"
)

// applyDocument overwrites the chart's definition in place, keeping its ID.
// Visibility changes made this way fire no dataset hook; the next update
// resynchronizes them.
func applyDocument(chart *memory.Chart, doc memory.ChartDocument) {
	if doc.Type != "" {
		chart.SetKind(doc.Type)
	}
	chart.SetTitle(doc.Title)
	chart.SetLabels(doc.Labels)
	chart.SetDatasets(doc.Datasets)
	chart.SetAxisOptions(doc.Scales)

	hidden := make(map[int]bool, len(doc.Hidden))
	for _, i := range doc.Hidden {
		hidden[i] = true
	}
	for i := range doc.Datasets {
		chart.SetDatasetVisibility(i, !hidden[i])
	}
}

func sortStrings(in []string) []string {
	sort.Strings(in)
	return in
}
