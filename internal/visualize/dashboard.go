package visualize

import (
	"sort"

	"github.com/eonlabs/eonparse/internal/logparse"
	"github.com/eonlabs/eonparse/internal/model"
)

// buildDashboard assembles up to four independent panels. Each panel
// resolves its own fallback; a panel with nothing to show is simply
// omitted and never blocks the others.
func buildDashboard(tables []*model.Table, summary model.Summary, opts Options) model.VisualizationSpec {
	var panels []model.Panel

	if spec := buildBar(tables, opts); spec.Kind == model.VizBar {
		panels = append(panels, model.Panel{Title: "Top Categories", Spec: spec})
	}

	if spec, ok := timeOfDayPie(tables); ok {
		panels = append(panels, model.Panel{Title: "Activity by Time of Day", Spec: spec})
	}

	if len(summary.TopSrcIPs) > 0 {
		panels = append(panels, model.Panel{
			Title: "Top Sources",
			Spec: model.VisualizationSpec{
				Kind:    model.VizBar,
				Payload: model.BarPayload{Column: "src_ip", Bars: summary.TopSrcIPs},
			},
		})
	}

	if sev := summary.Distributions["severity"]; len(sev) > 0 {
		// Severity reads better in level order than in count order.
		slices := append([]model.ValueCount(nil), sev...)
		sort.SliceStable(slices, func(i, j int) bool {
			return logparse.SeverityRank(slices[i].Value) < logparse.SeverityRank(slices[j].Value)
		})
		if len(slices) > pieSliceLimit {
			slices = slices[:pieSliceLimit]
		}
		panels = append(panels, model.Panel{
			Title: "Severity Breakdown",
			Spec: model.VisualizationSpec{
				Kind:    model.VizPie,
				Payload: model.PiePayload{Column: "severity", Slices: slices},
			},
		})
	}

	if len(panels) == 0 {
		return buildTable(tables)
	}
	return model.VisualizationSpec{
		Kind:    model.VizSummary,
		Payload: model.SummaryPayload{Panels: panels},
	}
}

// timeOfDayPie groups counts into four day segments. Requires time data.
func timeOfDayPie(tables []*model.Table) (model.VisualizationSpec, bool) {
	timed := collectTimed(tables)
	if len(timed) == 0 {
		return model.VisualizationSpec{}, false
	}

	segments := []struct {
		label    string
		from, to int // [from, to) hour
	}{
		{"night (00-06)", 0, 6},
		{"morning (06-12)", 6, 12},
		{"afternoon (12-18)", 12, 18},
		{"evening (18-24)", 18, 24},
	}

	var slices []model.ValueCount
	for _, seg := range segments {
		count := 0
		for _, tr := range timed {
			if h := tr.when.Hour(); h >= seg.from && h < seg.to {
				count++
			}
		}
		if count > 0 {
			slices = append(slices, model.ValueCount{Value: seg.label, Count: count})
		}
	}
	if len(slices) == 0 {
		return model.VisualizationSpec{}, false
	}
	return model.VisualizationSpec{
		Kind:    model.VizPie,
		Payload: model.PiePayload{Column: "time_of_day", Slices: slices},
	}, true
}
