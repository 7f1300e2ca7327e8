package normalize

import "strings"

// delimiterPriority is the fixed candidate order. Ties on average occurrence
// count resolve to the earlier candidate.
var delimiterPriority = []rune{',', '\t', '|', ';', ' '}

// DetectDelimiter picks the delimiter whose average occurrence count across
// the sample lines is highest. An all-zero sample defaults to comma.
func DetectDelimiter(sample []string) rune {
	if len(sample) == 0 {
		return ','
	}

	best := ','
	bestAvg := 0.0
	for _, cand := range delimiterPriority {
		total := 0
		for _, line := range sample {
			total += strings.Count(line, string(cand))
		}
		avg := float64(total) / float64(len(sample))
		if avg > bestAvg {
			best = cand
			bestAvg = avg
		}
	}
	return best
}
