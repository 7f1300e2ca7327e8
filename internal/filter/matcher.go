package filter

import (
	"regexp"
	"strings"
)

// matcher evaluates one substring/regex field against cell text. An invalid
// regex pattern falls back to literal substring matching instead of failing
// the call.
type matcher struct {
	re            *regexp.Regexp
	literal       string
	caseSensitive bool
}

func newMatcher(pattern string, useRegex, caseSensitive bool) matcher {
	if useRegex {
		p := pattern
		if !caseSensitive {
			p = "(?i)" + pattern
		}
		if re, err := regexp.Compile(p); err == nil {
			return matcher{re: re}
		}
	}
	lit := pattern
	if !caseSensitive {
		lit = strings.ToLower(pattern)
	}
	return matcher{literal: lit, caseSensitive: caseSensitive}
}

func (m matcher) match(s string) bool {
	if m.re != nil {
		return m.re.MatchString(s)
	}
	if !m.caseSensitive {
		s = strings.ToLower(s)
	}
	return strings.Contains(s, m.literal)
}

// equalsFold is the exact-match comparison for categorical fields:
// case-insensitive unless the spec requests case sensitivity.
func equalsFold(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}
