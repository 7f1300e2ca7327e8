package normalize

import (
	"github.com/eonlabs/eonparse/internal/logparse"
	"github.com/eonlabs/eonparse/internal/model"
)

// NormalizeSeverities canonicalizes the severity column so vendor spellings
// group together. When no severity column exists, one is derived from the
// message text, but only if at least one row actually carries a level.
func NormalizeSeverities(t *model.Table) {
	if col, ok := t.RoleColumn(model.RoleSeverity); ok {
		for _, row := range t.Rows {
			if v := row[col]; v.IsText() {
				row[col] = model.String(logparse.NormalizeSeverity(v.Str))
			}
		}
		return
	}

	if t.HasColumn("severity") {
		return
	}
	msgCol, ok := t.RoleColumn(model.RoleMessage)
	if !ok {
		return
	}

	found := false
	derived := make([]model.Value, len(t.Rows))
	for i, row := range t.Rows {
		if s := logparse.ExtractSeverityFromText(row[msgCol].Text()); s != "" {
			derived[i] = model.String(s)
			found = true
		} else {
			derived[i] = model.Null()
		}
	}
	if !found {
		return
	}

	for i, row := range t.Rows {
		row["severity"] = derived[i]
	}
	t.Columns = append(t.Columns, "severity")
	t.Roles["severity"] = model.RoleSeverity
}
