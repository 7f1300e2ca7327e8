package visualize

import (
	"sort"
	"time"

	"github.com/eonlabs/eonparse/internal/model"
)

// maxTrendSeries caps how many distinct category values split a trend.
const maxTrendSeries = 10

// bucketFor maps the summary's time span to a bucket width.
func bucketFor(spanHours float64) (string, func(time.Time) time.Time) {
	switch {
	case spanHours <= 1:
		return "minute", func(t time.Time) time.Time { return t.Truncate(time.Minute) }
	case spanHours <= 24:
		return "hour", func(t time.Time) time.Time { return t.Truncate(time.Hour) }
	case spanHours <= 24*7:
		return "4-hour", func(t time.Time) time.Time {
			t = t.Truncate(time.Hour)
			return t.Add(-time.Duration(t.Hour()%4) * time.Hour)
		}
	case spanHours <= 24*30:
		return "day", func(t time.Time) time.Time {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		}
	default:
		return "week", weekStart
	}
}

// weekStart truncates to the preceding Monday midnight UTC.
func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// buildTrend buckets timestamped rows into counts over time, optionally
// split into series by the first categorical column with few distinct
// values. Without time data it degrades to a table.
func buildTrend(tables []*model.Table, summary model.Summary, opts Options) model.VisualizationSpec {
	timed := collectTimed(tables)
	if len(timed) == 0 {
		return buildTable(tables)
	}
	timed = decimate(timed, opts.threshold())

	bucketName, truncate := bucketFor(summary.TimeSpanHours)

	counts := map[time.Time]int{}
	seriesCol, _ := firstCategorical(tables, maxTrendSeries)
	seriesCounts := map[string]map[time.Time]int{}

	for _, tr := range timed {
		b := truncate(tr.when)
		counts[b]++
		if seriesCol == "" {
			continue
		}
		if name := tr.row[seriesCol].Text(); name != "" {
			m := seriesCounts[name]
			if m == nil {
				m = map[time.Time]int{}
				seriesCounts[name] = m
			}
			m[b]++
		}
	}

	payload := model.TrendPayload{
		Bucket: bucketName,
		Points: sortedPoints(counts),
	}
	if len(seriesCounts) >= 2 && len(seriesCounts) <= maxTrendSeries {
		names := make([]string, 0, len(seriesCounts))
		for name := range seriesCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			payload.Series = append(payload.Series, model.TrendSeries{
				Name:   name,
				Points: sortedPoints(seriesCounts[name]),
			})
		}
	}

	return model.VisualizationSpec{Kind: model.VizTrend, Payload: payload}
}

func sortedPoints(counts map[time.Time]int) []model.TrendPoint {
	out := make([]model.TrendPoint, 0, len(counts))
	for ts, c := range counts {
		out = append(out, model.TrendPoint{Time: ts, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}
