package query

import (
	"regexp"
	"time"

	"github.com/eonlabs/eonparse/internal/model"
)

// Entity vocabularies, scanned in declared order. The first hit wins.
var (
	logTypeVocab = []string{
		"firewall", "endpoint", "system", "application", "access",
		"error", "security", "network", "audit",
	}
	actionVocab = []string{
		"block", "allow", "deny", "accept", "reject", "drop",
		"connect", "disconnect", "login", "logout",
	}
	countKeywords = []string{"count", "how many", "frequency", "occurrences"}
)

var (
	ipv4Regex = regexp.MustCompile(`\b(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\b`)
	userRegex = regexp.MustCompile(`\buser(?:name)?\s+(\w+)`)
	lastRegex = regexp.MustCompile(`\blast\s+(\d+)\s+(minute|hour|day|week|month)s?\b`)
)

// timeRule resolves one time phrase. Rules are evaluated in priority order;
// the first match wins and its span is scrubbed from keyword extraction.
type timeRule struct {
	pattern *regexp.Regexp
	resolve func(match []string, now time.Time) model.TimeRange
}

var timeRules = []timeRule{
	{
		pattern: lastRegex,
		resolve: func(match []string, now time.Time) model.TimeRange {
			n := atoiSafe(match[1])
			var d time.Duration
			switch match[2] {
			case "minute":
				d = time.Duration(n) * time.Minute
			case "hour":
				d = time.Duration(n) * time.Hour
			case "day":
				d = time.Duration(n) * 24 * time.Hour
			case "week":
				d = time.Duration(n) * 7 * 24 * time.Hour
			case "month":
				// Calendar months are approximated at 30 days.
				d = time.Duration(n) * 30 * 24 * time.Hour
			}
			start := now.Add(-d)
			return model.TimeRange{Start: &start, End: &now}
		},
	},
	{
		pattern: regexp.MustCompile(`\btoday\b`),
		resolve: func(_ []string, now time.Time) model.TimeRange {
			start := midnightUTC(now)
			return model.TimeRange{Start: &start, End: &now}
		},
	},
	{
		pattern: regexp.MustCompile(`\byesterday\b`),
		resolve: func(_ []string, now time.Time) model.TimeRange {
			end := midnightUTC(now)
			start := end.Add(-24 * time.Hour)
			return model.TimeRange{Start: &start, End: &end}
		},
	},
}

// vizRule maps chart vocabulary to a kind, scanned in fixed order.
type vizRule struct {
	kind     model.VizKind
	keywords []string
}

var vizRules = []vizRule{
	{model.VizTrend, []string{"trend", "timeline", "over time", "time series"}},
	{model.VizPie, []string{"pie", "percentage", "distribution", "breakdown"}},
	{model.VizBar, []string{"bar", "histogram", "count by", "frequency"}},
	{model.VizHeatmap, []string{"heat", "heatmap", "density"}},
}

var chartVerbs = []string{"visualize", "visualization", "chart", "graph"}

// vizCompanions resolve a bare chart verb by its companion words, in order.
var vizCompanions = []vizRule{
	{model.VizTrend, []string{"time", "trend", "timeline"}},
	{model.VizBar, []string{"compare", "comparison", "versus"}},
	{model.VizPie, []string{"distribution", "percentage"}},
}

// stopWords are filler tokens excluded from keyword fallback.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "from": true, "with": true,
	"all": true, "any": true, "show": true, "find": true, "get": true,
	"list": true, "give": true, "logs": true, "log": true, "entries": true,
	"entry": true, "events": true, "event": true, "during": true,
	"between": true, "than": true, "what": true, "which": true,
	"when": true, "where": true, "were": true, "was": true, "are": true,
	"have": true, "has": true, "had": true, "this": true, "that": true,
	"past": true, "last": true, "many": true, "how": true, "per": true,
	"top": true, "most": true, "about": true,
}
