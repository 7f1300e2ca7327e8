package model

// Role is the inferred semantic meaning of a normalized column.
type Role string

const (
	RoleNone      Role = ""
	RoleTimestamp Role = "timestamp"
	RoleHostname  Role = "hostname"
	RoleSeverity  Role = "severity"
	RoleProtocol  Role = "protocol"
	RoleAction    Role = "action"
	RoleMessage   Role = "message"
	RoleSrcIP     Role = "src_ip"
	RoleDstIP     Role = "dst_ip"
	RoleSrcPort   Role = "src_port"
	RoleDstPort   Role = "dst_port"
	RoleMessageID Role = "message_id"
)

// SourceFileColumn is the provenance column attached to every normalized row.
const SourceFileColumn = "source_file"

// Row maps a lowercase, trimmed column name to a typed cell value.
type Row map[string]Value

// Diagnostics describes how a file was normalized. Recoverable anomalies
// surface here as counters, never as errors.
type Diagnostics struct {
	RowsRead    int    `json:"rows_read"`
	RowsSkipped int    `json:"rows_skipped"`
	Delimiter   string `json:"delimiter"`
	HasHeader   bool   `json:"has_header"`
	Format      string `json:"format"`
	EmptyFile   bool   `json:"empty_file"`
}

// Table is one ingested file after delimiter/header/role detection and
// timestamp standardization. Column order is preserved from the source.
type Table struct {
	SourceFile  string
	Columns     []string
	Roles       map[string]Role
	Rows        []Row
	Diagnostics Diagnostics
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RoleColumn returns the first column assigned the given role.
func (t *Table) RoleColumn(role Role) (string, bool) {
	for _, c := range t.Columns {
		if t.Roles[c] == role {
			return c, true
		}
	}
	return "", false
}

// TimestampColumn returns the timestamp-role column. A table without one is
// a valid "no time data" state, not an error.
func (t *Table) TimestampColumn() (string, bool) {
	return t.RoleColumn(RoleTimestamp)
}

// ResolveColumn prefers the column assigned the given role and falls back
// to a literal column name. It reports false when neither exists, which
// callers treat as a no-op for this table.
func (t *Table) ResolveColumn(role Role, name string) (string, bool) {
	if role != RoleNone {
		if col, ok := t.RoleColumn(role); ok {
			return col, true
		}
	}
	if name != "" && t.HasColumn(name) {
		return name, true
	}
	return "", false
}

// Clone returns a shallow copy of the table with an independent row slice.
// Rows themselves are shared; filtering never mutates cells.
func (t *Table) Clone(rows []Row) *Table {
	return &Table{
		SourceFile:  t.SourceFile,
		Columns:     t.Columns,
		Roles:       t.Roles,
		Rows:        rows,
		Diagnostics: t.Diagnostics,
	}
}
