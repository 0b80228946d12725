// Package profile parses raw generation output into a structured resume
// profile, tolerating the usual LLM formatting damage.
package profile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/amithrb/jobfinder/internal/domain"
)

// ParseError reports generation output that is not valid JSON after fence
// stripping. Raw carries the original text for the caller to display.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("profile parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return domain.ErrParse }

var digitRun = regexp.MustCompile(`\d+`)

// rawProfile mirrors the JSON shape requested from the generation service.
// total_years_experience arrives as a number or a numeric string depending
// on the model, so it is decoded loosely.
type rawProfile struct {
	Skills               []string        `json:"skills"`
	TotalYearsExperience json.RawMessage `json:"total_years_experience"`
}

// Parse strips Markdown code fences from raw, parses it as a JSON object,
// and builds a ResumeProfile. Skills are lowercased and trimmed; a missing
// skills key yields an empty set. Experience coercion: numeric parse with
// truncation, then first digit run anywhere in the value, then 0. Malformed
// JSON returns a *ParseError; coercion failures never error.
func Parse(raw string) (domain.ResumeProfile, error) {
	cleaned := StripFences(raw)
	var rp rawProfile
	if err := json.Unmarshal([]byte(cleaned), &rp); err != nil {
		return domain.ResumeProfile{}, &ParseError{Raw: raw, Err: err}
	}
	skills := make([]string, 0, len(rp.Skills))
	seen := make(map[string]struct{}, len(rp.Skills))
	for _, s := range rp.Skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		skills = append(skills, s)
	}
	return domain.ResumeProfile{
		Skills:               skills,
		TotalYearsExperience: coerceExperience(rp.TotalYearsExperience),
	}, nil
}

// StripFences removes ``` and ```json wrappers anywhere in the text, the
// same way the extraction flow has always sanitized model replies.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// coerceExperience turns a loosely-typed JSON value into a non-negative
// integer year count. Anything unparseable degrades to 0, logged as a soft
// condition rather than failing the profile.
func coerceExperience(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	val := strings.TrimSpace(string(raw))
	val = strings.Trim(val, `"`)
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		if f < 0 {
			return 0
		}
		return int(f)
	}
	if m := digitRun.FindString(val); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	slog.Debug("experience coercion defaulted to zero", slog.String("value", val))
	return 0
}
