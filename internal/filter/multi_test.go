package filter

import (
	"testing"

	"github.com/eonlabs/eonparse/internal/model"
)

func namedTable(name string, actions ...string) *model.Table {
	t := &model.Table{
		SourceFile: name,
		Columns:    []string{"action", model.SourceFileColumn},
		Roles:      map[string]model.Role{"action": model.RoleAction},
	}
	for _, a := range actions {
		t.Rows = append(t.Rows, model.Row{
			"action":                model.String(a),
			model.SourceFileColumn: model.String(name),
		})
	}
	return t
}

func TestApplyAllDropsEmptySurvivors(t *testing.T) {
	tables := []*model.Table{
		namedTable("a.csv", "allow", "deny"),
		namedTable("b.csv", "deny"),
		namedTable("c.csv", "allow"),
	}

	got := ApplyAll(tables, model.FilterSpec{Action: []string{"allow"}})
	if len(got) != 2 {
		t.Fatalf("tables = %d, want 2 (empty survivor dropped)", len(got))
	}
	if got[0].SourceFile != "a.csv" || got[1].SourceFile != "c.csv" {
		t.Fatalf("order = %q, %q", got[0].SourceFile, got[1].SourceFile)
	}
}

func TestApplyAllPerTableIndependence(t *testing.T) {
	tables := []*model.Table{
		namedTable("a.csv", "allow", "allow"),
		namedTable("b.csv", "allow"),
	}
	got := ApplyAll(tables, model.FilterSpec{Action: []string{"allow"}, ResultsLimit: 1})
	// The limit applies per table, matching per-file analysis.
	if len(got) != 2 || len(got[0].Rows) != 1 || len(got[1].Rows) != 1 {
		t.Fatalf("per-table limit violated: %d tables", len(got))
	}
}

func TestApplyAllParallelMatchesSequential(t *testing.T) {
	tables := []*model.Table{
		namedTable("a.csv", "allow", "deny", "allow"),
		namedTable("b.csv", "deny"),
		namedTable("c.csv", "allow", "allow"),
		namedTable("d.csv", "drop"),
	}
	spec := model.FilterSpec{Action: []string{"allow"}}

	seq := Concat(ApplyAll(tables, spec))
	par := Concat(ApplyAllParallel(tables, spec))

	if len(seq) != len(par) {
		t.Fatalf("row counts differ: %d vs %d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i][model.SourceFileColumn].Str != par[i][model.SourceFileColumn].Str {
			t.Fatalf("row %d out of order: %q vs %q", i,
				seq[i][model.SourceFileColumn].Str, par[i][model.SourceFileColumn].Str)
		}
	}
}

func TestConcatPreservesOrder(t *testing.T) {
	tables := []*model.Table{
		namedTable("a.csv", "x", "y"),
		namedTable("b.csv", "z"),
	}
	rows := Concat(tables)
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	want := []string{"x", "y", "z"}
	for i, w := range want {
		if rows[i]["action"].Str != w {
			t.Fatalf("row %d = %q, want %q", i, rows[i]["action"].Str, w)
		}
	}
}
