package match

import (
	"log/slog"
	"strings"

	"github.com/amithrb/jobfinder/internal/domain"
	"github.com/amithrb/jobfinder/internal/taxonomy"
)

// detailPagePatterns maps a source domain marker to the URL fragment its
// posting detail pages carry. Listing pages on the same domain (search
// result URLs) lack the fragment and are rejected.
var detailPagePatterns = map[string]string{
	"naukri.com": "/job-listings",
}

// Normalizer converts heterogeneous raw postings into canonical records,
// applying the location, domain/shape, experience, and dedup policies.
type Normalizer struct {
	Location string
	// Domains is the accepted source domain allowlist. Empty disables the
	// domain/shape stage.
	Domains  []string
	Profile  domain.ResumeProfile
	Taxonomy *taxonomy.Taxonomy
}

// Run normalizes postings in source order and reports per-stage drop counts.
// A raw posting maps to zero or one normalized posting, never more.
func (n Normalizer) Run(postings []domain.RawPosting) ([]domain.NormalizedPosting, domain.FilterDiagnostics) {
	diag := domain.FilterDiagnostics{Initial: len(postings)}
	seen := make(map[string]struct{}, len(postings))
	out := make([]domain.NormalizedPosting, 0, len(postings))

	for _, raw := range postings {
		if !n.matchesLocation(raw) {
			diag.DroppedLocation++
			continue
		}
		if !n.matchesDomain(raw.URL) {
			diag.DroppedDomain++
			continue
		}
		np := n.normalize(raw)
		if !admitExperience(np.ExperienceText, n.Profile.TotalYearsExperience) {
			diag.DroppedExperience++
			continue
		}
		key := dedupKey(np.Title, np.Company)
		if _, dup := seen[key]; dup {
			diag.DroppedDuplicate++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, np)
	}
	diag.Kept = len(out)
	slog.Debug("normalized postings",
		slog.Int("initial", diag.Initial),
		slog.Int("dropped_location", diag.DroppedLocation),
		slog.Int("dropped_domain", diag.DroppedDomain),
		slog.Int("dropped_experience", diag.DroppedExperience),
		slog.Int("dropped_duplicate", diag.DroppedDuplicate),
		slog.Int("kept", diag.Kept))
	return out, diag
}

// matchesLocation checks the target location as a case-insensitive substring
// of the posting's content, title, or raw content.
func (n Normalizer) matchesLocation(raw domain.RawPosting) bool {
	loc := strings.ToLower(strings.TrimSpace(n.Location))
	if loc == "" {
		return true
	}
	hay := strings.ToLower(raw.Content + " " + raw.Title + " " + raw.RawContent)
	return strings.Contains(hay, loc)
}

// matchesDomain enforces the accepted-domain allowlist plus per-source URL
// shape rules. An empty allowlist disables the stage.
func (n Normalizer) matchesDomain(url string) bool {
	if len(n.Domains) == 0 {
		return true
	}
	lower := strings.ToLower(url)
	accepted := false
	for _, d := range n.Domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" && strings.Contains(lower, d) {
			accepted = true
			break
		}
	}
	if !accepted {
		return false
	}
	for marker, detail := range detailPagePatterns {
		if strings.Contains(lower, marker) && !strings.Contains(lower, detail) {
			return false
		}
	}
	return true
}

// normalize builds the canonical posting record. Every field gets a defined
// value; extraction misses carry the Unspecified sentinel.
func (n Normalizer) normalize(raw domain.RawPosting) domain.NormalizedPosting {
	text := raw.Title + " " + raw.Content + " " + raw.RawContent

	skills := n.extractSkills(text)
	if len(skills) == 0 {
		skills = []string{domain.Unspecified}
	}

	expText := strings.TrimSpace(raw.Experience)
	if expText == "" {
		expText = ExtractExperienceText(raw.Title + " " + raw.Content)
	}
	if expText == "" {
		expText = domain.Unspecified
	}

	company := strings.TrimSpace(raw.Company)
	if company == "" {
		company = domain.Unspecified
	}
	link := strings.TrimSpace(raw.URL)
	if link == "" {
		link = domain.Unspecified
	}
	desc := raw.Content
	if desc == "" {
		desc = raw.RawContent
	}

	return domain.NormalizedPosting{
		Company:        company,
		Title:          strings.TrimSpace(raw.Title),
		SkillsFound:    skills,
		Link:           link,
		ExperienceText: expText,
		Description:    desc,
	}
}

// extractSkills expands every resume skill to its variant set and records
// the canonical display form of each skill with at least one variant
// occurring in the posting text.
func (n Normalizer) extractSkills(text string) []string {
	var found []string
	seen := make(map[string]struct{})
	for _, skill := range n.Profile.Skills {
		canonical := n.Taxonomy.CanonicalOf(skill)
		if _, ok := seen[canonical]; ok {
			continue
		}
		for _, variant := range n.Taxonomy.VariantsOf(skill) {
			if MatchesSkill(text, variant) {
				seen[canonical] = struct{}{}
				found = append(found, canonical)
				break
			}
		}
	}
	return found
}

// admitExperience applies the coarse admission policy: a single bound v
// admits resumes with at least v years; a range admits resumes within
// [min, max+2] inclusive; an unparseable phrase admits the posting.
func admitExperience(experienceText string, resumeYears int) bool {
	if experienceText == domain.Unspecified {
		return true
	}
	years := ExtractExperienceRange(experienceText)
	switch {
	case len(years) == 0:
		return true
	case len(years) == 1:
		return resumeYears >= years[0]
	default:
		lo, hi := minMax(years)
		return resumeYears >= lo && resumeYears <= hi+2
	}
}

func minMax(v []int) (int, int) {
	lo, hi := v[0], v[0]
	for _, n := range v[1:] {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi
}

func dedupKey(title, company string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "\x00" + strings.ToLower(strings.TrimSpace(company))
}
