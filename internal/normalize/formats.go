package normalize

import (
	_ "embed"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/eonlabs/eonparse/internal/model"
)

//go:embed formats.yaml
var formatsYAML []byte

// FormatSignature describes one known vendor log shape.
type FormatSignature struct {
	Name           string            `yaml:"name"`
	ContentPattern string            `yaml:"content_pattern"`
	Columns        []string          `yaml:"columns"`
	Rename         map[string]string `yaml:"rename"`

	contentRegex *regexp.Regexp
}

type formatsFile struct {
	Formats []FormatSignature `yaml:"formats"`
}

// knownFormats is loaded once from the embedded signature table. A broken
// table is a build defect, so the parse error is fatal at init.
var knownFormats = loadFormats()

func loadFormats() []FormatSignature {
	var f formatsFile
	if err := yaml.Unmarshal(formatsYAML, &f); err != nil {
		panic("normalize: embedded formats.yaml: " + err.Error())
	}
	for i := range f.Formats {
		if p := f.Formats[i].ContentPattern; p != "" {
			f.Formats[i].contentRegex = regexp.MustCompile(p)
		}
	}
	return f.Formats
}

// formatSampleRows caps how many rows are scanned for content signatures.
const formatSampleRows = 50

// DetectFormat matches the table against the known vendor signatures, in
// declared order. A signature matches on content regex over sampled
// message/hostname cells, or on >= 60% column-name overlap.
func DetectFormat(t *model.Table) (FormatSignature, bool) {
	for _, sig := range knownFormats {
		if matchesColumns(sig, t.Columns) || matchesContent(sig, t) {
			return sig, true
		}
	}
	return FormatSignature{}, false
}

func matchesColumns(sig FormatSignature, columns []string) bool {
	if len(sig.Columns) == 0 {
		return false
	}
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	hits := 0
	for _, want := range sig.Columns {
		if present[want] {
			hits++
		}
	}
	return float64(hits)/float64(len(sig.Columns)) >= 0.6
}

func matchesContent(sig FormatSignature, t *model.Table) bool {
	if sig.contentRegex == nil {
		return false
	}
	limit := len(t.Rows)
	if limit > formatSampleRows {
		limit = formatSampleRows
	}
	for _, col := range []model.Role{model.RoleMessage, model.RoleHostname} {
		name, ok := t.RoleColumn(col)
		if !ok {
			continue
		}
		for _, row := range t.Rows[:limit] {
			if sig.contentRegex.MatchString(row[name].Text()) {
				return true
			}
		}
	}
	return false
}

// ApplyFormat renames matched columns to the canonical vendor schema and
// reassigns roles over the new names.
func ApplyFormat(t *model.Table, sig FormatSignature) {
	existing := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		existing[c] = true
	}

	renamed := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		name := col
		// A rename that collides with a column already present keeps the
		// original name so no cell is clobbered.
		if canonical, ok := sig.Rename[col]; ok && canonical != "" && (canonical == col || !existing[canonical]) {
			name = canonical
		}
		renamed[i] = name
	}

	for _, row := range t.Rows {
		for i, col := range t.Columns {
			if renamed[i] == col {
				continue
			}
			if v, ok := row[col]; ok {
				row[renamed[i]] = v
				delete(row, col)
			}
		}
	}

	t.Columns = renamed
	t.Roles = AssignRoles(t.Columns)
	t.Diagnostics.Format = sig.Name
}
