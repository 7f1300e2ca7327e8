// Package visualize chooses a chart kind for a filtered result set and
// prepares a bounded, renderer-agnostic payload. Selection never fails:
// every kind has a documented fallback chain ending in a table or an
// insufficient-data payload.
package visualize

import (
	"github.com/eonlabs/eonparse/internal/model"
)

// DefaultDownsampleThreshold caps raw payload points unless overridden.
const DefaultDownsampleThreshold = 5000

// tableRecordLimit bounds tabular payloads.
const tableRecordLimit = 1000

// Options tunes payload preparation.
type Options struct {
	// DownsampleThreshold is the maximum number of raw points carried in a
	// payload; 0 means DefaultDownsampleThreshold. Downsampling affects the
	// rendering payload only, never already-computed summary counts.
	DownsampleThreshold int
}

func (o Options) threshold() int {
	if o.DownsampleThreshold > 0 {
		return o.DownsampleThreshold
	}
	return DefaultDownsampleThreshold
}

// SelectAndPrepare resolves the requested kind ("" and "auto" pick
// heuristically) and builds its payload from the filtered tables and their
// summary.
func SelectAndPrepare(tables []*model.Table, summary model.Summary, requested model.VizKind, opts Options) model.VisualizationSpec {
	total := summary.TotalLogs
	if total == 0 {
		return model.VisualizationSpec{
			Kind:    model.VizInsufficient,
			Payload: model.InsufficientPayload{Reason: "no results to visualize"},
		}
	}

	kind := requested
	if kind == "" || kind == "auto" {
		kind = autoKind(tables, total)
	}

	switch kind {
	case model.VizTrend:
		return buildTrend(tables, summary, opts)
	case model.VizPie:
		return buildPie(tables, opts)
	case model.VizBar:
		return buildBar(tables, opts)
	case model.VizHeatmap:
		return buildHeatmap(tables, opts)
	case model.VizSummary:
		return buildDashboard(tables, summary, opts)
	case model.VizTable:
		return buildTable(tables)
	default:
		// Unsupported kind resolves like auto rather than failing.
		return SelectAndPrepare(tables, summary, autoKind(tables, total), opts)
	}
}

// autoKind picks a chart heuristically: time data and more than 5 rows make
// a trend; a low-cardinality categorical column and more than 3 rows make a
// bar; large shapeless sets get the summary dashboard; everything else is a
// table.
func autoKind(tables []*model.Table, total int) model.VizKind {
	if hasTimeColumn(tables) && total > 5 {
		return model.VizTrend
	}
	if col, counts := firstCategorical(tables, lowCardinalityMax); col != "" && len(counts) >= 2 && total > 3 {
		return model.VizBar
	}
	if total > 50 {
		return model.VizSummary
	}
	return model.VizTable
}

func hasTimeColumn(tables []*model.Table) bool {
	for _, t := range tables {
		if _, ok := t.TimestampColumn(); ok {
			return true
		}
	}
	return false
}

func buildTable(tables []*model.Table) model.VisualizationSpec {
	columns := columnUnion(tables)

	var rows []model.Row
	for _, t := range tables {
		rows = append(rows, t.Rows...)
	}
	// Oversized result sets are sampled with a fixed seed rather than
	// truncated, so the table payload stays representative.
	rows = sampleRows(rows, tableRecordLimit)

	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]any, len(row))
		for k, v := range row {
			rec[k] = v.Native()
		}
		records = append(records, rec)
	}

	return model.VisualizationSpec{
		Kind:    model.VizTable,
		Payload: model.TablePayload{Columns: columns, Records: records},
	}
}

// columnUnion is the first-seen union of column lists across tables, so
// heterogeneous files render side by side.
func columnUnion(tables []*model.Table) []string {
	var columns []string
	seen := map[string]bool{}
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}
	return columns
}

// recordPayload flattens up to limit rows into plain records.
func recordPayload(tables []*model.Table, limit int) ([]string, []map[string]any) {
	columns := columnUnion(tables)

	var records []map[string]any
	for _, t := range tables {
		for _, row := range t.Rows {
			if len(records) >= limit {
				return columns, records
			}
			rec := make(map[string]any, len(row))
			for k, v := range row {
				rec[k] = v.Native()
			}
			records = append(records, rec)
		}
	}
	return columns, records
}
