package normalize

import (
	"testing"
	"time"

	"github.com/eonlabs/eonparse/internal/model"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "rfc3339 utc",
			in:   "2024-01-15T10:30:45Z",
			want: time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
		},
		{
			name: "rfc3339 offset converts to utc",
			in:   "2024-01-15T10:30:45+02:00",
			want: time.Date(2024, 1, 15, 8, 30, 45, 0, time.UTC),
		},
		{
			name: "naive datetime treated as utc",
			in:   "2024-01-15 10:30:45",
			want: time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
		},
		{
			name: "decimal comma",
			in:   "2024-01-15 10:30:45,123",
			want: time.Date(2024, 1, 15, 10, 30, 45, 123000000, time.UTC),
		},
		{
			name: "us slash format",
			in:   "01/15/2024 10:30:45",
			want: time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
		},
		{
			name: "date only",
			in:   "2024-01-15",
			want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "epoch seconds",
			in:   "1705314645",
			want: time.Unix(1705314645, 0).UTC(),
		},
		{
			name: "epoch milliseconds",
			in:   "1705314645123",
			want: time.UnixMilli(1705314645123).UTC(),
		},
		{
			name: "epoch microseconds",
			in:   "1705314645123456",
			want: time.UnixMicro(1705314645123456).UTC(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			if !ok {
				t.Fatalf("ParseTimestamp(%q) failed", tt.in)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Fatalf("ParseTimestamp(%q) location = %v, want UTC", tt.in, got.Location())
			}
		})
	}
}

func TestParseTimestampRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "443", "10.0.0.1"} {
		if ts, ok := ParseTimestamp(in); ok {
			t.Errorf("ParseTimestamp(%q) = %v, want failure", in, ts)
		}
	}
}

func TestParseTimestampSyslogCurrentYear(t *testing.T) {
	got, ok := ParseTimestamp("Jan  2 15:04:05")
	if !ok {
		t.Fatal("syslog timestamp did not parse")
	}
	if got.Month() != time.January || got.Day() != 2 || got.Hour() != 15 {
		t.Fatalf("syslog parse = %v", got)
	}
	if got.Year() == 0 {
		t.Fatal("syslog timestamp kept year zero")
	}
}

func TestStandardizeTimestamps(t *testing.T) {
	table := &model.Table{
		Columns: []string{"timestamp", "message"},
		Roles:   map[string]model.Role{"timestamp": model.RoleTimestamp},
		Rows: []model.Row{
			{"timestamp": model.String("2024-01-15T10:00:00Z"), "message": model.String("ok")},
			{"timestamp": model.String("garbage"), "message": model.String("bad")},
			{"timestamp": model.Null(), "message": model.String("missing")},
		},
	}

	StandardizeTimestamps(table)

	if table.Rows[0]["timestamp"].Kind != model.KindTime {
		t.Fatalf("parsable timestamp kind = %d", table.Rows[0]["timestamp"].Kind)
	}
	if !table.Rows[0]["timestamp"].Time.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("parsed time = %v", table.Rows[0]["timestamp"].Time)
	}
	if !table.Rows[1]["timestamp"].IsNull() {
		t.Fatal("unparsable timestamp should become null")
	}
	if !table.Rows[2]["timestamp"].IsNull() {
		t.Fatal("null timestamp should stay null")
	}
}

func TestStandardizeTimestampsNoTimestampColumn(t *testing.T) {
	table := &model.Table{
		Columns: []string{"message"},
		Roles:   map[string]model.Role{},
		Rows:    []model.Row{{"message": model.String("no time data")}},
	}
	StandardizeTimestamps(table)
	if table.Rows[0]["message"].Str != "no time data" {
		t.Fatal("table without timestamp column must be untouched")
	}
}
