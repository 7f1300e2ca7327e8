package aggregate

import (
	"sort"
	"time"

	"github.com/eonlabs/eonparse/internal/model"
)

// ColumnStats holds per-column statistics for schema inspection surfaces.
type ColumnStats struct {
	Count       int                `json:"count"`
	NullCount   int                `json:"null_count"`
	UniqueCount int                `json:"unique_count,omitempty"`
	TopValues   []model.ValueCount `json:"top_values,omitempty"`

	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Mean *float64 `json:"mean,omitempty"`

	TimeMin   *time.Time `json:"time_min,omitempty"`
	TimeMax   *time.Time `json:"time_max,omitempty"`
	RangeDays float64    `json:"range_days,omitempty"`
}

// UniqueValues returns up to limit distinct non-blank values of a column,
// sorted ascending. An absent column yields nil.
func UniqueValues(t *model.Table, column string, limit int) []string {
	if t == nil || !t.HasColumn(column) {
		return nil
	}
	seen := map[string]struct{}{}
	for _, row := range t.Rows {
		v := row[column].Text()
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	return values
}

// ColumnStatistics computes per-column stats over one table: counts and top
// values for text columns, min/max/mean for numeric ones, extent for the
// timestamp column.
func ColumnStatistics(t *model.Table) map[string]ColumnStats {
	stats := make(map[string]ColumnStats, len(t.Columns))

	for _, col := range t.Columns {
		var cs ColumnStats
		textCounts := map[string]int{}
		var nums []float64
		var tmin, tmax time.Time

		for _, row := range t.Rows {
			v := row[col]
			if v.IsNull() {
				cs.NullCount++
				continue
			}
			cs.Count++
			switch v.Kind {
			case model.KindString:
				textCounts[v.Str]++
			case model.KindInt:
				nums = append(nums, float64(v.Int))
			case model.KindFloat:
				nums = append(nums, v.Float)
			case model.KindTime:
				if tmin.IsZero() || v.Time.Before(tmin) {
					tmin = v.Time
				}
				if tmax.IsZero() || v.Time.After(tmax) {
					tmax = v.Time
				}
			}
		}

		if len(textCounts) > 0 {
			cs.UniqueCount = len(textCounts)
			cs.TopValues = topN(textCounts, TopN)
		}
		if len(nums) > 0 {
			min, max, sum := nums[0], nums[0], 0.0
			for _, n := range nums {
				if n < min {
					min = n
				}
				if n > max {
					max = n
				}
				sum += n
			}
			mean := sum / float64(len(nums))
			cs.Min, cs.Max, cs.Mean = &min, &max, &mean
		}
		if !tmin.IsZero() {
			lo, hi := tmin, tmax
			cs.TimeMin, cs.TimeMax = &lo, &hi
			cs.RangeDays = hi.Sub(lo).Hours() / 24
		}

		stats[col] = cs
	}
	return stats
}
