package visualize

import (
	"time"

	"github.com/eonlabs/eonparse/internal/model"
)

var heatmapWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// buildHeatmap produces the hour-of-day x day-of-week count matrix. Without
// time data it falls back to a bar chart.
func buildHeatmap(tables []*model.Table, opts Options) model.VisualizationSpec {
	timed := collectTimed(tables)
	if len(timed) == 0 {
		return buildBar(tables, opts)
	}

	cells := make([][]int, len(heatmapWeekdays))
	for i := range cells {
		cells[i] = make([]int, 24)
	}
	rowIndex := map[time.Weekday]int{}
	for i, wd := range heatmapWeekdays {
		rowIndex[wd] = i
	}

	for _, tr := range timed {
		cells[rowIndex[tr.when.Weekday()]][tr.when.Hour()]++
	}

	rowLabels := make([]string, len(heatmapWeekdays))
	for i, wd := range heatmapWeekdays {
		rowLabels[i] = wd.String()
	}
	colLabels := make([]string, 24)
	for h := range colLabels {
		colLabels[h] = hourLabel(h)
	}

	return model.VisualizationSpec{
		Kind: model.VizHeatmap,
		Payload: model.HeatmapPayload{
			RowLabels:    rowLabels,
			ColumnLabels: colLabels,
			Cells:        cells,
		},
	}
}
