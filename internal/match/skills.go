// Package match normalizes raw postings, extracts skills and experience,
// and scores postings against a resume profile.
package match

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// experiencePattern captures the first "<digits>", "<digits>+", or
// "<digits>-<digits>" run followed by year/years, case-insensitively.
var experiencePattern = regexp.MustCompile(`(?i)\d+(?:\s*\+|\s*-\s*\d+)?\s*years?`)

var digitRuns = regexp.MustCompile(`\d+`)

var (
	skillPatternsMu sync.RWMutex
	skillPatterns   = map[string]*regexp.Regexp{}
)

// skillPattern compiles a case-insensitive pattern for term anchored at word
// boundaries, so "go" does not match inside "going". The \b anchor is only
// usable next to \w characters; terms ending in + # . get a custom boundary
// that still treats those characters as part of the word.
func skillPattern(term string) *regexp.Regexp {
	skillPatternsMu.RLock()
	re, ok := skillPatterns[term]
	skillPatternsMu.RUnlock()
	if ok {
		return re
	}

	q := regexp.QuoteMeta(term)
	pre, post := `\b`, `\b`
	if len(term) > 0 && !isASCIIAlnum(term[0]) {
		pre = `(?:^|[^a-zA-Z0-9+#.])`
	}
	if len(term) > 0 && !isASCIIAlnum(term[len(term)-1]) {
		post = `(?:$|[^a-zA-Z0-9+#.])`
	}
	re = regexp.MustCompile(`(?i)` + pre + q + post)

	skillPatternsMu.Lock()
	skillPatterns[term] = re
	skillPatternsMu.Unlock()
	return re
}

func isASCIIAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// MatchesSkill reports whether term occurs in text as a whole word,
// case-insensitively.
func MatchesSkill(text, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" || text == "" {
		return false
	}
	return skillPattern(term).MatchString(text)
}

// ExtractExperienceText returns the first experience-shaped phrase in text
// verbatim, or "" when none is present.
func ExtractExperienceText(text string) string {
	return experiencePattern.FindString(text)
}

// ExtractExperienceRange parses every digit run in an experience phrase into
// integers, in order of appearance.
func ExtractExperienceRange(experienceText string) []int {
	matches := digitRuns.FindAllString(experienceText, -1)
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
