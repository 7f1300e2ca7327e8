package model

import "time"

// ValueCount is one label with its occurrence count. Ordered slices of
// ValueCount are sorted by count descending, then label ascending, so top-N
// truncation is deterministic.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DateCount is a per-UTC-calendar-date count.
type DateCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// HourCount is a count for one hour of day, aggregated across all days.
type HourCount struct {
	Hour  int `json:"hour"` // 0-23
	Count int `json:"count"`
}

// Summary is the aggregate view of one filtered result set. It is derived,
// read-only, recomputed per request, and JSON-serializable.
type Summary struct {
	TotalLogs int `json:"total_logs"`

	EarliestLog   *time.Time `json:"earliest_log,omitempty"`
	LatestLog     *time.Time `json:"latest_log,omitempty"`
	TimeSpanHours float64    `json:"time_span_hours"`

	// Distributions holds full-size value counts per candidate field;
	// consumers truncate for display. Blank values are excluded.
	Distributions map[string][]ValueCount `json:"distributions"`

	TopSrcIPs   []ValueCount `json:"top_src_ip,omitempty"`
	TopDstIPs   []ValueCount `json:"top_dst_ip,omitempty"`
	TopSrcPorts []ValueCount `json:"top_src_port,omitempty"`
	TopDstPorts []ValueCount `json:"top_dst_port,omitempty"`

	DailyCounts         []DateCount  `json:"daily_counts,omitempty"`
	HourlyPattern       []HourCount  `json:"hourly_pattern,omitempty"`
	WeekdayDistribution []ValueCount `json:"weekday_distribution,omitempty"`
	DailyMin            int          `json:"daily_min"`
	DailyMax            int          `json:"daily_max"`
	DailyAvg            float64      `json:"daily_avg"`

	// ProtocolByAction is the protocol x action crosstab, present only when
	// both columns exist in the result set.
	ProtocolByAction map[string]map[string]int `json:"protocol_by_action,omitempty"`
}
