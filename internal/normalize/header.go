package normalize

import (
	"encoding/csv"
	"regexp"
	"strconv"
	"strings"
)

// cellKind is the coarse type inferred for one cell during header detection.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellNumeric
	cellDate
	cellTime
	cellIPv4
	cellText
)

var (
	dateCellRegex = regexp.MustCompile(`^\d{4}[-/]\d{1,2}[-/]\d{1,2}([T ].*)?$|^\d{1,2}[-/]\d{1,2}[-/]\d{2,4}$`)
	timeCellRegex = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?([.,]\d+)?$`)
	ipv4CellRegex = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	digitRegex    = regexp.MustCompile(`\d`)
)

func classifyCell(s string) cellKind {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return cellEmpty
	case ipv4CellRegex.MatchString(s):
		return cellIPv4
	case dateCellRegex.MatchString(s):
		return cellDate
	case timeCellRegex.MatchString(s):
		return cellTime
	default:
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return cellNumeric
		}
		return cellText
	}
}

// looksLikeData reports whether a cell could plausibly be a data value
// rather than a column label.
func looksLikeData(s string) bool {
	if digitRegex.MatchString(s) {
		return true
	}
	if len(s) > 30 {
		return true
	}
	return strings.ContainsAny(s, `/\@:;=<>`)
}

// DetectHeader infers whether line1 is a header row. If the per-cell type
// vectors of the two lines differ element-wise, a header is assumed. If they
// match, a header is assumed only when at least one cell of line1 fails the
// looks-like-data test.
func DetectHeader(line1, line2 string, delim rune) bool {
	cells1 := splitLine(line1, delim)
	if len(cells1) == 0 {
		return false
	}

	if strings.TrimSpace(line2) != "" {
		cells2 := splitLine(line2, delim)
		if len(cells1) != len(cells2) {
			return true
		}
		for i := range cells1 {
			if classifyCell(cells1[i]) != classifyCell(cells2[i]) {
				return true
			}
		}
	}

	for _, c := range cells1 {
		if !looksLikeData(strings.TrimSpace(c)) {
			return true
		}
	}
	return false
}

// splitLine splits one raw line on the delimiter, honoring CSV quoting.
// Malformed quoting degrades to a plain split rather than failing.
func splitLine(line string, delim rune) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	record, err := r.Read()
	if err != nil {
		return strings.Split(line, string(delim))
	}
	return record
}
