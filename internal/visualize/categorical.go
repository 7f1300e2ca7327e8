package visualize

import (
	"github.com/eonlabs/eonparse/internal/model"

	"github.com/eonlabs/eonparse/internal/aggregate"
)

// lowCardinalityMax is the distinct-value ceiling for a column to count as
// low-cardinality during auto selection.
const lowCardinalityMax = 10

const (
	pieSliceLimit = 10
	barLimit      = 15
)

// categoricalCandidates is the fixed priority list scanned for pie/bar
// columns.
var categoricalCandidates = []struct {
	role model.Role
	name string
}{
	{model.RoleNone, "log_type"},
	{model.RoleAction, "action"},
	{model.RoleNone, "status"},
	{model.RoleHostname, "hostname"},
	{model.RoleNone, "process"},
	{model.RoleSeverity, "severity"},
	{model.RoleProtocol, "protocol"},
}

// firstCategorical returns the first candidate column with at least two
// distinct non-empty values across the tables. maxDistinct > 0 additionally
// caps cardinality.
func firstCategorical(tables []*model.Table, maxDistinct int) (string, map[string]int) {
	for _, cand := range categoricalCandidates {
		counts := map[string]int{}
		name := ""
		for _, t := range tables {
			col, ok := t.ResolveColumn(cand.role, cand.name)
			if !ok {
				continue
			}
			name = col
			for _, row := range t.Rows {
				if v := row[col].Text(); v != "" {
					counts[v]++
				}
			}
		}
		if name == "" || len(counts) < 2 {
			continue
		}
		if maxDistinct > 0 && len(counts) > maxDistinct {
			continue
		}
		return name, counts
	}
	return "", nil
}

func buildPie(tables []*model.Table, opts Options) model.VisualizationSpec {
	if col, counts := firstCategorical(tables, 0); col != "" {
		slices := aggregate.SortedCounts(counts)
		if len(slices) > pieSliceLimit {
			slices = slices[:pieSliceLimit]
		}
		return model.VisualizationSpec{
			Kind:    model.VizPie,
			Payload: model.PiePayload{Column: col, Slices: slices},
		}
	}
	if spec, ok := hourOfDayBar(tables); ok {
		return spec
	}
	return insufficient(tables, "no categorical column with two or more values")
}

func buildBar(tables []*model.Table, opts Options) model.VisualizationSpec {
	if col, counts := firstCategorical(tables, 0); col != "" {
		bars := aggregate.SortedCounts(counts)
		if len(bars) > barLimit {
			bars = bars[:barLimit]
		}
		return model.VisualizationSpec{
			Kind:    model.VizBar,
			Payload: model.BarPayload{Column: col, Bars: bars},
		}
	}
	if spec, ok := hourOfDayBar(tables); ok {
		return spec
	}
	return insufficient(tables, "no categorical column with two or more values")
}

// hourOfDayBar is the shared fallback: log counts by hour of day, available
// whenever time data exists.
func hourOfDayBar(tables []*model.Table) (model.VisualizationSpec, bool) {
	timed := collectTimed(tables)
	if len(timed) == 0 {
		return model.VisualizationSpec{}, false
	}
	var hours [24]int
	for _, tr := range timed {
		hours[tr.when.Hour()]++
	}
	var bars []model.ValueCount
	for h, c := range hours {
		if c > 0 {
			bars = append(bars, model.ValueCount{Value: hourLabel(h), Count: c})
		}
	}
	return model.VisualizationSpec{
		Kind:    model.VizBar,
		Payload: model.BarPayload{Column: "hour_of_day", Bars: bars},
	}, true
}

func hourLabel(h int) string {
	return string([]byte{byte('0' + h/10), byte('0' + h%10)}) + ":00"
}

func insufficient(tables []*model.Table, reason string) model.VisualizationSpec {
	_, records := recordPayload(tables, 50)
	return model.VisualizationSpec{
		Kind:    model.VizInsufficient,
		Payload: model.InsufficientPayload{Reason: reason, Records: records},
	}
}
