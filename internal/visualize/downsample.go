package visualize

import (
	"math/rand"
	"sort"
	"time"

	"github.com/eonlabs/eonparse/internal/model"
)

// downsampleSeed fixes the sampling sequence so identical inputs produce
// identical payloads.
const downsampleSeed = 1

// timedRow pairs a row with its parsed timestamp and originating table.
type timedRow struct {
	when  time.Time
	table *model.Table
	row   model.Row
}

// collectTimed gathers rows with a non-null timestamp, ordered by time
// (stable on ties, preserving ingest order).
func collectTimed(tables []*model.Table) []timedRow {
	var out []timedRow
	for _, t := range tables {
		col, ok := t.TimestampColumn()
		if !ok {
			continue
		}
		for _, row := range t.Rows {
			if v := row[col]; v.Kind == model.KindTime {
				out = append(out, timedRow{when: v.Time, table: t, row: row})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].when.Before(out[j].when) })
	return out
}

// decimate keeps every k-th time-ordered row so at most limit rows remain.
func decimate(rows []timedRow, limit int) []timedRow {
	if limit <= 0 || len(rows) <= limit {
		return rows
	}
	k := (len(rows) + limit - 1) / limit
	out := make([]timedRow, 0, limit)
	for i := 0; i < len(rows); i += k {
		out = append(out, rows[i])
	}
	return out
}

// sampleRows keeps at most limit rows chosen uniformly with a fixed seed,
// preserving original order. Used when no time column exists.
func sampleRows(rows []model.Row, limit int) []model.Row {
	if limit <= 0 || len(rows) <= limit {
		return rows
	}
	r := rand.New(rand.NewSource(downsampleSeed))
	idx := r.Perm(len(rows))[:limit]
	sort.Ints(idx)
	out := make([]model.Row, 0, limit)
	for _, i := range idx {
		out = append(out, rows[i])
	}
	return out
}
