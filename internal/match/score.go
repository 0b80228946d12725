package match

import (
	"math"
	"strings"

	"github.com/amithrb/jobfinder/internal/domain"
	"github.com/amithrb/jobfinder/internal/taxonomy"
)

// Score computes the weighted skill overlap between the profile and one
// normalized posting. Postings with the Unspecified skills sentinel score
// (0, nil, true) regardless of resume content. The result is deterministic
// given profile, posting, and taxonomy.
func Score(profile domain.ResumeProfile, posting domain.NormalizedPosting, tax *taxonomy.Taxonomy) (float64, []string, bool) {
	compatible := experienceCompatible(posting.ExperienceText, profile.TotalYearsExperience)
	if posting.SkillsUnspecified() {
		return 0, nil, true
	}

	var matched []string
	seen := make(map[string]struct{})
	for _, resumeSkill := range profile.Skills {
		variants := tax.VariantsOf(resumeSkill)
		for _, postingSkill := range posting.SkillsFound {
			if _, ok := seen[postingSkill]; ok {
				continue
			}
			if skillInVariants(postingSkill, variants) {
				seen[postingSkill] = struct{}{}
				matched = append(matched, postingSkill)
			}
		}
	}

	var score float64
	for _, s := range matched {
		score += tax.WeightOf(s)
	}
	// One decimal place keeps scores stable across float accumulation order.
	score = math.Round(score*10) / 10

	return score, matched, compatible
}

// skillInVariants tests a posting skill against a resume skill's variant
// set: exact (case-insensitive) set membership or a word-boundary hit
// inside the posting skill string.
func skillInVariants(postingSkill string, variants []string) bool {
	for _, v := range variants {
		if strings.EqualFold(strings.TrimSpace(postingSkill), v) || MatchesSkill(postingSkill, v) {
			return true
		}
	}
	return false
}

// experienceCompatible is the advisory compatibility flag: deliberately more
// permissive than the admission filter, since unscored or ambiguous
// experience must never penalize a posting at this stage.
func experienceCompatible(experienceText string, resumeYears int) bool {
	if experienceText == domain.Unspecified {
		return true
	}
	years := ExtractExperienceRange(experienceText)
	switch {
	case len(years) == 0:
		return true
	case len(years) == 1:
		v := years[0]
		return (resumeYears >= v && resumeYears <= v+5) || resumeYears >= v
	default:
		lo, hi := minMax(years)
		return resumeYears >= lo && resumeYears <= hi
	}
}
