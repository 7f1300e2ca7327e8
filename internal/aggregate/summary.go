// Package aggregate computes read-only summary statistics over filtered
// result sets. All counting is order-independent; every ordered output uses
// the fixed tie-break count descending, then label ascending. Empty input
// yields a fully defined zero-valued Summary, never an error.
package aggregate

import (
	"sort"
	"time"

	"github.com/eonlabs/eonparse/internal/model"
)

// TopN bounds the IP and port tables in the summary.
const TopN = 10

// distributionFields is the fixed candidate set for value distributions.
var distributionFields = []struct {
	role model.Role
	name string
}{
	{model.RoleAction, "action"},
	{model.RoleProtocol, "protocol"},
	{model.RoleSeverity, "severity"},
	{model.RoleHostname, "hostname"},
	{model.RoleMessageID, "message_id"},
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Summarize aggregates the filtered tables into one Summary. Each table
// resolves its own columns, so heterogeneous per-file schemas contribute
// whatever fields they carry.
func Summarize(tables []*model.Table) model.Summary {
	s := model.Summary{Distributions: map[string][]model.ValueCount{}}

	dist := make(map[string]map[string]int)
	ips := map[model.Role]map[string]int{
		model.RoleSrcIP:   {},
		model.RoleDstIP:   {},
		model.RoleSrcPort: {},
		model.RoleDstPort: {},
	}
	daily := map[string]int{}
	var hourly [24]int
	weekday := map[time.Weekday]int{}
	protoAction := map[string]map[string]int{}

	var earliest, latest time.Time
	distinctTimes := map[int64]struct{}{}

	for _, t := range tables {
		if t == nil {
			continue
		}
		s.TotalLogs += len(t.Rows)

		tsCol, hasTS := t.TimestampColumn()

		for _, f := range distributionFields {
			col, ok := t.ResolveColumn(f.role, f.name)
			if !ok {
				continue
			}
			m := dist[f.name]
			if m == nil {
				m = map[string]int{}
				dist[f.name] = m
			}
			countColumn(t.Rows, col, m)
		}

		for role, m := range ips {
			if col, ok := t.RoleColumn(role); ok {
				countColumn(t.Rows, col, m)
			}
		}

		protoCol, hasProto := t.ResolveColumn(model.RoleProtocol, "protocol")
		actionCol, hasAction := t.ResolveColumn(model.RoleAction, "action")

		for _, row := range t.Rows {
			if hasTS {
				if v := row[tsCol]; v.Kind == model.KindTime {
					ts := v.Time
					if earliest.IsZero() || ts.Before(earliest) {
						earliest = ts
					}
					if latest.IsZero() || ts.After(latest) {
						latest = ts
					}
					distinctTimes[ts.UnixNano()] = struct{}{}
					daily[ts.Format("2006-01-02")]++
					hourly[ts.Hour()]++
					weekday[ts.Weekday()]++
				}
			}
			// Crosstab only where both columns exist.
			if hasProto && hasAction {
				p, a := row[protoCol].Text(), row[actionCol].Text()
				if p != "" && a != "" {
					m := protoAction[p]
					if m == nil {
						m = map[string]int{}
						protoAction[p] = m
					}
					m[a]++
				}
			}
		}
	}

	if !earliest.IsZero() {
		e, l := earliest, latest
		s.EarliestLog, s.LatestLog = &e, &l
	}
	if len(distinctTimes) >= 2 {
		s.TimeSpanHours = latest.Sub(earliest).Hours()
	}

	for field, counts := range dist {
		if vc := SortedCounts(counts); len(vc) > 0 {
			s.Distributions[field] = vc
		}
	}

	s.TopSrcIPs = topN(ips[model.RoleSrcIP], TopN)
	s.TopDstIPs = topN(ips[model.RoleDstIP], TopN)
	s.TopSrcPorts = topN(ips[model.RoleSrcPort], TopN)
	s.TopDstPorts = topN(ips[model.RoleDstPort], TopN)

	s.DailyCounts = sortedDaily(daily)
	s.HourlyPattern = hourlyPattern(hourly)
	s.WeekdayDistribution = weekdayCounts(weekday)
	s.DailyMin, s.DailyMax, s.DailyAvg = dailyStats(s.DailyCounts)

	if len(protoAction) > 0 {
		s.ProtocolByAction = protoAction
	}

	return s
}

func countColumn(rows []model.Row, col string, into map[string]int) {
	for _, row := range rows {
		v := row[col].Text()
		if v == "" {
			continue
		}
		into[v]++
	}
}

// SortedCounts orders a count map by count descending, then value ascending.
// The tie-break is fixed so top-N truncation is deterministic.
func SortedCounts(counts map[string]int) []model.ValueCount {
	out := make([]model.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, model.ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func topN(counts map[string]int, n int) []model.ValueCount {
	out := SortedCounts(counts)
	if len(out) > n {
		out = out[:n]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedDaily(daily map[string]int) []model.DateCount {
	if len(daily) == 0 {
		return nil
	}
	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	out := make([]model.DateCount, len(dates))
	for i, d := range dates {
		out[i] = model.DateCount{Date: d, Count: daily[d]}
	}
	return out
}

func hourlyPattern(hourly [24]int) []model.HourCount {
	var out []model.HourCount
	for h, c := range hourly {
		if c > 0 {
			out = append(out, model.HourCount{Hour: h, Count: c})
		}
	}
	return out
}

func weekdayCounts(weekday map[time.Weekday]int) []model.ValueCount {
	var out []model.ValueCount
	for _, wd := range weekdayOrder {
		if c := weekday[wd]; c > 0 {
			out = append(out, model.ValueCount{Value: wd.String(), Count: c})
		}
	}
	return out
}

func dailyStats(daily []model.DateCount) (min, max int, avg float64) {
	if len(daily) == 0 {
		return 0, 0, 0
	}
	min = daily[0].Count
	total := 0
	for _, d := range daily {
		if d.Count < min {
			min = d.Count
		}
		if d.Count > max {
			max = d.Count
		}
		total += d.Count
	}
	return min, max, float64(total) / float64(len(daily))
}
