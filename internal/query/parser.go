// Package query interprets free-text search requests into filter
// specifications. Parsing is pure: identical text and reference time always
// produce an identical spec.
package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/eonlabs/eonparse/internal/model"
)

// Parse turns free text into a FilterSpec against the given reference time.
// An empty or unrecognized query still yields a usable spec: the time range
// defaults to the last 24 hours and the visualization hint to a table.
func Parse(text string, now time.Time) model.FilterSpec {
	now = now.UTC()
	q := strings.ToLower(strings.TrimSpace(text))

	spec := model.FilterSpec{OriginalQuery: q}
	scrubbed := q

	tr, consumed := extractTimeRange(q, now)
	spec.TimeRange = &tr
	if consumed != "" {
		scrubbed = strings.Replace(scrubbed, consumed, " ", 1)
	}

	// Vocabulary hits are substring matches, so "blocked" still selects
	// "block". The first hit in declared order wins.
	for _, entity := range logTypeVocab {
		if strings.Contains(q, entity) {
			spec.LogType = []string{entity}
			break
		}
	}
	for _, entity := range actionVocab {
		if strings.Contains(q, entity) {
			spec.Action = []string{entity}
			break
		}
	}

	if m := ipv4Regex.FindString(q); m != "" {
		spec.SrcIP = m
		scrubbed = strings.Replace(scrubbed, m, " ", 1)
	}
	if m := userRegex.FindStringSubmatch(q); m != nil {
		spec.User = m[1]
		scrubbed = strings.Replace(scrubbed, m[0], " ", 1)
	}

	for _, kw := range countKeywords {
		if strings.Contains(q, kw) {
			spec.CountRequest = true
			break
		}
	}

	spec.VizType = string(determineVizType(q))
	spec.Keywords = extractKeywords(scrubbed, spec)

	return spec
}

func extractTimeRange(q string, now time.Time) (model.TimeRange, string) {
	for _, rule := range timeRules {
		if m := rule.pattern.FindStringSubmatch(q); m != nil {
			return rule.resolve(m, now), m[0]
		}
	}
	// No recognizable phrase: default to the last 24 hours.
	start := now.Add(-24 * time.Hour)
	return model.TimeRange{Start: &start, End: &now}, ""
}

func determineVizType(q string) model.VizKind {
	for _, rule := range vizRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.kind
			}
		}
	}
	for _, verb := range chartVerbs {
		if !strings.Contains(q, verb) {
			continue
		}
		for _, rule := range vizCompanions {
			for _, kw := range rule.keywords {
				if strings.Contains(q, kw) {
					return rule.kind
				}
			}
		}
		break
	}
	return model.VizTable
}

// extractKeywords returns the remaining content-bearing tokens, first-seen
// order, deduplicated. Tokens already consumed as entities, chart or count
// vocabulary, or stop words are excluded. Entity hits consume by substring,
// mirroring the match itself, so "blocked" is spent once it selected "block"
// and does not come back as a full-text constraint.
func extractKeywords(scrubbed string, spec model.FilterSpec) []string {
	entities := make([]string, 0, len(spec.LogType)+len(spec.Action))
	entities = append(entities, spec.LogType...)
	entities = append(entities, spec.Action...)

	consumed := make(map[string]bool)
	for _, rule := range vizRules {
		for _, kw := range rule.keywords {
			consumed[kw] = true
		}
	}
	for _, verb := range chartVerbs {
		consumed[verb] = true
	}
	for _, kw := range countKeywords {
		consumed[kw] = true
	}
	consumed["user"] = true
	consumed["username"] = true

	var keywords []string
	seen := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(scrubbed, isTokenBoundary) {
		if len(tok) <= 2 || stopWords[tok] || consumed[tok] || seen[tok] {
			continue
		}
		if containsAnyEntity(tok, entities) {
			continue
		}
		if _, err := strconv.Atoi(tok); err == nil {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
	}
	return keywords
}

func containsAnyEntity(tok string, entities []string) bool {
	for _, e := range entities {
		if strings.Contains(tok, e) {
			return true
		}
	}
	return false
}

func isTokenBoundary(r rune) bool {
	return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '_'
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
