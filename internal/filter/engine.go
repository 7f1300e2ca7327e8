// Package filter applies a FilterSpec to normalized tables. Predicates are
// independent and order-commutative; a predicate referencing a column absent
// from a table is a no-op for that table. Filtering never mutates input rows
// and never fails: anomalies resolve to documented fallbacks.
package filter

import (
	"strings"

	"github.com/eonlabs/eonparse/internal/model"
)

type predicate func(model.Row) bool

// Apply filters one table. The result shares row objects with the input;
// only row membership changes. ResultsLimit truncates after all predicates.
func Apply(t *model.Table, spec model.FilterSpec) *model.Table {
	if t == nil {
		return &model.Table{}
	}

	preds := buildPredicates(t, spec)

	rows := make([]model.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		ok := true
		for _, p := range preds {
			if !p(row) {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, row)
		}
	}

	if spec.ResultsLimit > 0 && len(rows) > spec.ResultsLimit {
		rows = rows[:spec.ResultsLimit]
	}
	return t.Clone(rows)
}

func buildPredicates(t *model.Table, spec model.FilterSpec) []predicate {
	var preds []predicate

	if p := timePredicate(t, spec); p != nil {
		preds = append(preds, p)
	}

	exact := []struct {
		role   model.Role
		column string
		values []string
	}{
		{model.RoleAction, "action", spec.Action},
		{model.RoleProtocol, "protocol", spec.Protocol},
		{model.RoleSeverity, "severity", spec.Severity},
		{model.RoleNone, "log_type", spec.LogType},
	}
	for _, f := range exact {
		if len(f.values) == 0 {
			continue
		}
		col, ok := t.ResolveColumn(f.role, f.column)
		if !ok {
			continue
		}
		values := f.values
		cs := spec.CaseSensitive
		preds = append(preds, func(row model.Row) bool {
			cell := row[col].Text()
			for _, v := range values {
				if equalsFold(cell, v, cs) {
					return true
				}
			}
			return false
		})
	}

	contains := []struct {
		role    model.Role
		column  string
		pattern string
	}{
		{model.RoleHostname, "hostname", spec.Hostname},
		{model.RoleMessageID, "message_id", spec.MessageID},
		{model.RoleSrcIP, "src_ip", spec.SrcIP},
		{model.RoleDstIP, "dst_ip", spec.DstIP},
		{model.RoleMessage, "message", spec.MessageText},
	}
	for _, f := range contains {
		if f.pattern == "" {
			continue
		}
		col, ok := t.ResolveColumn(f.role, f.column)
		if !ok {
			continue
		}
		m := newMatcher(f.pattern, spec.UseRegex, spec.CaseSensitive)
		preds = append(preds, func(row model.Row) bool {
			return m.match(row[col].Text())
		})
	}

	ports := []struct {
		role   model.Role
		column string
		value  string
	}{
		{model.RoleSrcPort, "src_port", spec.SrcPort},
		{model.RoleDstPort, "dst_port", spec.DstPort},
	}
	for _, f := range ports {
		if f.value == "" {
			continue
		}
		col, ok := t.ResolveColumn(f.role, f.column)
		if !ok {
			continue
		}
		want := strings.TrimSpace(f.value)
		preds = append(preds, func(row model.Row) bool {
			return row[col].Text() == want
		})
	}

	textColumns := stringColumns(t)
	if spec.FullText != "" {
		m := newMatcher(spec.FullText, spec.UseRegex, spec.CaseSensitive)
		preds = append(preds, anyColumnPredicate(textColumns, m))
	}
	if spec.User != "" {
		m := newMatcher(spec.User, false, spec.CaseSensitive)
		preds = append(preds, anyColumnPredicate(textColumns, m))
	}
	if len(spec.Keywords) > 0 {
		matchers := make([]matcher, len(spec.Keywords))
		for i, kw := range spec.Keywords {
			matchers[i] = newMatcher(kw, false, spec.CaseSensitive)
		}
		cols := textColumns
		preds = append(preds, func(row model.Row) bool {
			for _, col := range cols {
				cell := row[col]
				if !cell.IsText() {
					continue
				}
				for _, m := range matchers {
					if m.match(cell.Str) {
						return true
					}
				}
			}
			return false
		})
	}

	return preds
}

// timePredicate is active only when the spec carries a bound and the table
// carries a timestamp column. Bounds are inclusive on both ends. Rows with a
// null timestamp are excluded once the predicate is active, retained
// otherwise.
func timePredicate(t *model.Table, spec model.FilterSpec) predicate {
	if spec.TimeRange == nil || (spec.TimeRange.Start == nil && spec.TimeRange.End == nil) {
		return nil
	}
	col, ok := t.TimestampColumn()
	if !ok {
		return nil
	}
	start, end := spec.TimeRange.Start, spec.TimeRange.End
	return func(row model.Row) bool {
		v := row[col]
		if v.Kind != model.KindTime {
			return false
		}
		if start != nil && v.Time.Before(*start) {
			return false
		}
		if end != nil && v.Time.After(*end) {
			return false
		}
		return true
	}
}

func anyColumnPredicate(columns []string, m matcher) predicate {
	return func(row model.Row) bool {
		for _, col := range columns {
			cell := row[col]
			if cell.IsText() && m.match(cell.Str) {
				return true
			}
		}
		return false
	}
}

// stringColumns lists columns that hold text in at least one row. Provenance
// is excluded so a filename never satisfies a content search.
func stringColumns(t *model.Table) []string {
	var cols []string
	for _, col := range t.Columns {
		if col == model.SourceFileColumn {
			continue
		}
		for _, row := range t.Rows {
			if row[col].IsText() {
				cols = append(cols, col)
				break
			}
		}
	}
	return cols
}
