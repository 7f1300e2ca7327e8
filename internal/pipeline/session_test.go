package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eonlabs/eonparse/internal/model"
)

const firewallCSV = `timestamp,action,protocol,src_ip,src_port,message
2024-01-01T00:10:00Z,DENY,TCP,10.0.0.1,443,Blocked connection attempt
2024-01-01T00:45:00Z,ALLOW,TCP,10.0.0.2,80,Permitted outbound session
2024-01-01T01:30:00Z,ALLOW,UDP,10.0.0.3,53,DNS lookup
`

const authCSV = `timestamp,hostname,severity,message
2024-01-01T00:20:00Z,web01,WARN,Failed password for user bob
2024-01-01T00:50:00Z,web01,INFO,Accepted password for user alice
`

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	s := NewSession(opts, zerolog.Nop())
	_, err := s.IngestReader("fw.csv", strings.NewReader(firewallCSV))
	require.NoError(t, err)
	_, err = s.IngestReader("auth.csv", strings.NewReader(authCSV))
	require.NoError(t, err)
	return s
}

func TestSessionIngestCounts(t *testing.T) {
	s := newTestSession(t, Options{})
	assert.Equal(t, 2, s.FileCount())
	assert.Equal(t, 5, s.RowCount())
}

func TestSessionIngestFileAndDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fw.csv"), []byte(firewallCSV), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.csv"), []byte(authCSV), 0o600))

	s := NewSession(Options{}, zerolog.Nop())
	tables, err := s.IngestDir(dir)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	// Sorted filename order.
	assert.Equal(t, "auth.csv", tables[0].SourceFile)
	assert.Equal(t, "fw.csv", tables[1].SourceFile)

	_, err = s.IngestFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
	assert.Equal(t, 2, s.FileCount())
}

func TestSessionSearchFiltersEveryTable(t *testing.T) {
	s := newTestSession(t, Options{})

	start := time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	result := s.Search(model.FilterSpec{
		TimeRange: &model.TimeRange{Start: &start, End: &end},
	})

	rows := result.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, result.Summary.TotalLogs, len(rows))
	// Source-iteration then in-table order.
	assert.Equal(t, "fw.csv", rows[0][model.SourceFileColumn].Str)
	assert.Equal(t, "auth.csv", rows[1][model.SourceFileColumn].Str)
}

func TestSessionSearchText(t *testing.T) {
	s := newTestSession(t, Options{})

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	result := s.SearchText("deny logs last 24 hours", now)

	require.NotNil(t, result)
	assert.Equal(t, []string{"deny"}, result.Spec.Action)
	// The action predicate keeps one firewall row and is a no-op for the
	// auth table, which has no action column.
	rows := result.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "10.0.0.1", rows[0]["src_ip"].Str)
	assert.Equal(t, "DENY", rows[0]["action"].Str)
	assert.Equal(t, result.Summary.TotalLogs, len(rows))
	assert.NotEmpty(t, result.Visualization.Kind)
}

func TestSessionSearchDoesNotMutateSpec(t *testing.T) {
	s := newTestSession(t, Options{DefaultResultsLimit: 1})

	spec := model.FilterSpec{Action: []string{"allow"}}
	result := s.Search(spec)

	// The default limit applied to the result set, not to the caller's spec.
	assert.Equal(t, 0, spec.ResultsLimit)
	assert.Equal(t, 0, result.Spec.ResultsLimit)
	// The action predicate is a no-op for the table without an action column,
	// and the limit applies per table.
	assert.Len(t, result.Rows(), 2)
}

func TestSessionParallelMatchesSequential(t *testing.T) {
	spec := model.FilterSpec{FullText: "password"}

	seq := newTestSession(t, Options{}).Search(spec)
	par := newTestSession(t, Options{Parallel: true}).Search(spec)

	require.Equal(t, len(seq.Rows()), len(par.Rows()))
	for i, row := range seq.Rows() {
		assert.Equal(t, row["message"].Str, par.Rows()[i]["message"].Str)
	}
}

func TestSessionSearchLeavesTablesIntact(t *testing.T) {
	s := newTestSession(t, Options{})
	_ = s.Search(model.FilterSpec{Action: []string{"deny"}})
	assert.Equal(t, 5, s.RowCount())
}

func TestSessionFieldOptions(t *testing.T) {
	s := newTestSession(t, Options{})
	fields := s.FieldOptions(10)

	assert.Equal(t, []string{"ALLOW", "DENY"}, fields["action"])
	assert.Equal(t, []string{"TCP", "UDP"}, fields["protocol"])
	assert.Equal(t, []string{"web01"}, fields["hostname"])
	assert.Equal(t, []string{"INFO", "WARN"}, fields["severity"])
	assert.NotContains(t, fields, "dst_ip")
}

func TestSessionEmptySearch(t *testing.T) {
	s := NewSession(Options{}, zerolog.Nop())
	result := s.Search(model.FilterSpec{})
	assert.Zero(t, result.Summary.TotalLogs)
	assert.Empty(t, result.Rows())
	assert.Equal(t, model.VizInsufficient, result.Visualization.Kind)
}
