// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// CollapseWhitespace folds every whitespace run into a single space.
// Extracted document text arrives with arbitrary line breaks and padding;
// downstream substring matching works on the collapsed form.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
