package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/eonlabs/eonparse/internal/model"
)

// timeLayouts is tried in order. Layouts without a zone are parsed in UTC:
// naive timestamps are localized to UTC by fixed policy, never to system
// local time.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999 -0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 3:04:05 PM",
	"02-Jan-2006 15:04:05",
	"Jan _2 15:04:05 2006",
	"Jan _2 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// ParseTimestamp parses one raw cell into a UTC timestamp. It accepts the
// layout list above, comma decimal separators, and unix epoch values in
// seconds, milliseconds, microseconds, or nanoseconds.
func ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if ts, ok := parseEpoch(s); ok {
		return ts, true
	}

	// International decimal comma, e.g. "2024-01-15 10:30:45,123".
	if i := strings.LastIndexByte(s, ','); i > 0 {
		s = s[:i] + "." + s[i+1:]
	}

	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		// Syslog layouts carry no year; assume the current one.
		if t.Year() == 0 {
			now := time.Now().UTC()
			t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		}
		return t.UTC(), true
	}
	return time.Time{}, false
}

func parseEpoch(s string) (time.Time, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return time.Time{}, false
	}
	switch {
	case len(s) >= 19:
		return time.Unix(0, n).UTC(), true
	case len(s) >= 16:
		return time.UnixMicro(n).UTC(), true
	case len(s) >= 13:
		return time.UnixMilli(n).UTC(), true
	case len(s) >= 10:
		return time.Unix(n, 0).UTC(), true
	default:
		// Short integers are ordinary numeric data, not timestamps.
		return time.Time{}, false
	}
}

// StandardizeTimestamps converts the timestamp-role column to UTC time
// values. Unparsable cells become null, never an error. A table without a
// timestamp column is left untouched: "no time data" is a valid state.
func StandardizeTimestamps(t *model.Table) {
	col, ok := t.TimestampColumn()
	if !ok {
		return
	}
	for _, row := range t.Rows {
		v := row[col]
		if v.IsNull() {
			continue
		}
		if v.Kind == model.KindTime {
			row[col] = model.Time(v.Time)
			continue
		}
		if ts, ok := ParseTimestamp(v.Text()); ok {
			row[col] = model.Time(ts)
		} else {
			row[col] = model.Null()
		}
	}
}
