package filter

import (
	"golang.org/x/sync/errgroup"

	"github.com/eonlabs/eonparse/internal/model"
)

// ApplyAll applies the same spec independently to each table. Tables that
// filter to empty are dropped; survivors keep source order, so concatenation
// is source-iteration then in-table order.
func ApplyAll(tables []*model.Table, spec model.FilterSpec) []*model.Table {
	filtered := make([]*model.Table, len(tables))
	for i, t := range tables {
		filtered[i] = Apply(t, spec)
	}
	return dropEmpty(filtered)
}

// ApplyAllParallel is ApplyAll with per-table filtering fanned out across
// goroutines. Results are reassembled by original table index, so the
// caller-visible order is identical to the sequential form.
func ApplyAllParallel(tables []*model.Table, spec model.FilterSpec) []*model.Table {
	filtered := make([]*model.Table, len(tables))
	var g errgroup.Group
	for i, t := range tables {
		i, t := i, t
		g.Go(func() error {
			filtered[i] = Apply(t, spec)
			return nil
		})
	}
	// Apply never returns an error; the group is used for the join only.
	_ = g.Wait()
	return dropEmpty(filtered)
}

// Concat flattens filtered tables into one row sequence, preserving table
// then in-table order.
func Concat(tables []*model.Table) []model.Row {
	total := 0
	for _, t := range tables {
		total += len(t.Rows)
	}
	rows := make([]model.Row, 0, total)
	for _, t := range tables {
		rows = append(rows, t.Rows...)
	}
	return rows
}

func dropEmpty(tables []*model.Table) []*model.Table {
	out := tables[:0]
	for _, t := range tables {
		if t != nil && len(t.Rows) > 0 {
			out = append(out, t)
		}
	}
	return out
}
