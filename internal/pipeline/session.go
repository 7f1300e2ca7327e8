// Package pipeline wires the four core stages together behind a
// caller-owned session. The stages themselves are pure functions of their
// inputs; the session only holds the ingested tables between calls.
package pipeline

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eonlabs/eonparse/internal/aggregate"
	"github.com/eonlabs/eonparse/internal/filter"
	"github.com/eonlabs/eonparse/internal/model"
	"github.com/eonlabs/eonparse/internal/normalize"
	"github.com/eonlabs/eonparse/internal/query"
	"github.com/eonlabs/eonparse/internal/visualize"
)

// fieldSampleRows bounds how many rows per table feed FieldOptions.
const fieldSampleRows = 100

// Options tunes a session.
type Options struct {
	// DownsampleThreshold caps raw visualization points; 0 uses the
	// visualize default.
	DownsampleThreshold int
	// DefaultResultsLimit applies when a spec carries no limit; 0 means
	// unlimited.
	DefaultResultsLimit int
	// Parallel fans multi-table filtering out across goroutines. Output
	// order is identical either way.
	Parallel bool
}

// Session holds ingested tables for a sequence of searches. It is safe for
// concurrent use; searches do not mutate session state.
type Session struct {
	mu     sync.RWMutex
	tables []*model.Table
	opts   Options
	log    zerolog.Logger
}

// Result is one complete search outcome.
type Result struct {
	Spec          model.FilterSpec        `json:"spec"`
	Tables        []*model.Table          `json:"-"`
	Summary       model.Summary           `json:"summary"`
	Visualization model.VisualizationSpec `json:"visualization"`
}

// NewSession creates an empty session.
func NewSession(opts Options, log zerolog.Logger) *Session {
	return &Session{opts: opts, log: log}
}

// IngestFile normalizes one file from disk and adds it to the session.
func (s *Session) IngestFile(path string) (*model.Table, error) {
	t, err := normalize.Load(path)
	if err != nil {
		return nil, err
	}
	s.add(t)
	return t, nil
}

// IngestReader normalizes one raw byte stream and adds it to the session.
func (s *Session) IngestReader(name string, r io.Reader) (*model.Table, error) {
	t, err := normalize.LoadReader(name, r)
	if err != nil {
		return nil, err
	}
	s.add(t)
	return t, nil
}

// IngestDir normalizes every log-like file in a directory, in sorted
// filename order.
func (s *Session) IngestDir(dir string) ([]*model.Table, error) {
	tables, err := normalize.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		s.add(t)
	}
	return tables, nil
}

func (s *Session) add(t *model.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = append(s.tables, t)
	s.log.Debug().
		Str("file", t.SourceFile).
		Int("rows", len(t.Rows)).
		Int("skipped", t.Diagnostics.RowsSkipped).
		Str("format", t.Diagnostics.Format).
		Msg("ingested file")
}

// Tables returns the ingested tables in ingest order.
func (s *Session) Tables() []*model.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Table, len(s.tables))
	copy(out, s.tables)
	return out
}

// FileCount reports how many files the session holds.
func (s *Session) FileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}

// RowCount reports the total ingested row count.
func (s *Session) RowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, t := range s.tables {
		total += len(t.Rows)
	}
	return total
}

// Search applies the spec independently to every ingested table, then
// summarizes and prepares a visualization from the surviving rows.
func (s *Session) Search(spec model.FilterSpec) *Result {
	effective := spec
	if effective.ResultsLimit == 0 {
		effective.ResultsLimit = s.opts.DefaultResultsLimit
	}

	tables := s.Tables()
	var filtered []*model.Table
	if s.opts.Parallel {
		filtered = filter.ApplyAllParallel(tables, effective)
	} else {
		filtered = filter.ApplyAll(tables, effective)
	}

	summary := aggregate.Summarize(filtered)
	viz := visualize.SelectAndPrepare(filtered, summary, model.VizKind(spec.VizType), visualize.Options{
		DownsampleThreshold: s.opts.DownsampleThreshold,
	})

	s.log.Debug().
		Int("tables_in", len(tables)).
		Int("tables_out", len(filtered)).
		Int("rows", summary.TotalLogs).
		Str("viz", string(viz.Kind)).
		Msg("search complete")

	return &Result{
		Spec:          spec,
		Tables:        filtered,
		Summary:       summary,
		Visualization: viz,
	}
}

// SearchText interprets the free-text query against the reference time and
// runs the resulting spec.
func (s *Session) SearchText(text string, now time.Time) *Result {
	return s.Search(query.Parse(text, now))
}

// Rows flattens the result tables in source-iteration then in-table order.
func (r *Result) Rows() []model.Row {
	return filter.Concat(r.Tables)
}

// FieldOptions gathers distinct values for the filterable columns across a
// bounded per-table sample, for populating structured search forms.
func (s *Session) FieldOptions(limit int) map[string][]string {
	fields := []struct {
		role model.Role
		name string
	}{
		{model.RoleAction, "action"},
		{model.RoleProtocol, "protocol"},
		{model.RoleSeverity, "severity"},
		{model.RoleHostname, "hostname"},
		{model.RoleMessageID, "message_id"},
		{model.RoleSrcIP, "src_ip"},
		{model.RoleDstIP, "dst_ip"},
		{model.RoleSrcPort, "src_port"},
		{model.RoleDstPort, "dst_port"},
		{model.RoleNone, "log_type"},
	}

	out := map[string][]string{}
	for _, t := range s.Tables() {
		sample := t
		if len(t.Rows) > fieldSampleRows {
			sample = t.Clone(t.Rows[:fieldSampleRows])
		}
		for _, f := range fields {
			col, ok := sample.ResolveColumn(f.role, f.name)
			if !ok {
				continue
			}
			out[f.name] = mergeSorted(out[f.name], aggregate.UniqueValues(sample, col, limit), limit)
		}
	}
	return out
}

func mergeSorted(existing, add []string, limit int) []string {
	seen := make(map[string]struct{}, len(existing)+len(add))
	merged := existing[:0:0]
	for _, v := range append(existing, add...) {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		merged = append(merged, v)
	}
	sort.Strings(merged)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
