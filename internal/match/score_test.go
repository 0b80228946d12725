package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amithrb/jobfinder/internal/domain"
	"github.com/amithrb/jobfinder/internal/match"
	"github.com/amithrb/jobfinder/internal/taxonomy"
)

func posting(skills ...string) domain.NormalizedPosting {
	return domain.NormalizedPosting{
		Title:          "role",
		SkillsFound:    skills,
		ExperienceText: domain.Unspecified,
	}
}

func TestScore_UnspecifiedSkillsSentinel(t *testing.T) {
	t.Parallel()
	prof := domain.ResumeProfile{Skills: []string{"python"}, TotalYearsExperience: 5}
	score, matched, compatible := match.Score(prof, posting(domain.Unspecified), taxonomy.Default())
	assert.Zero(t, score)
	assert.Nil(t, matched)
	assert.True(t, compatible)
}

func TestScore_WeightedOverlap(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()
	prof := domain.ResumeProfile{Skills: []string{"python", "postgres"}, TotalYearsExperience: 5}

	score, matched, _ := match.Score(prof, posting("python", "postgres"), tax)
	// python 3.0 + postgres 2.0
	assert.Equal(t, 5.0, score)
	assert.ElementsMatch(t, []string{"python", "postgres"}, matched)
}

func TestScore_SynonymMatches(t *testing.T) {
	t.Parallel()
	prof := domain.ResumeProfile{Skills: []string{"golang"}, TotalYearsExperience: 3}
	score, matched, _ := match.Score(prof, posting("go"), taxonomy.Default())
	assert.Equal(t, 3.0, score)
	assert.Equal(t, []string{"go"}, matched)
}

func TestScore_NoOverlap(t *testing.T) {
	t.Parallel()
	prof := domain.ResumeProfile{Skills: []string{"python"}, TotalYearsExperience: 3}
	score, matched, _ := match.Score(prof, posting("java"), taxonomy.Default())
	assert.Zero(t, score)
	assert.Empty(t, matched)
}

func TestScore_MoreMatchesNeverLowerScore(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()
	prof := domain.ResumeProfile{Skills: []string{"python", "go", "docker"}, TotalYearsExperience: 5}

	small, _, _ := match.Score(prof, posting("python"), tax)
	large, _, _ := match.Score(prof, posting("python", "go", "docker"), tax)
	assert.Greater(t, large, small)
}

func TestScore_PostingSkillCountedOnce(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()
	// Both resume entries expand to variant sets containing "go".
	prof := domain.ResumeProfile{Skills: []string{"go", "golang"}, TotalYearsExperience: 5}
	score, matched, _ := match.Score(prof, posting("go"), tax)
	assert.Equal(t, 3.0, score)
	assert.Equal(t, []string{"go"}, matched)
}

func TestScore_ExperienceCompatibility(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()
	cases := []struct {
		name        string
		resumeYears int
		experience  string
		want        bool
	}{
		{"unspecified", 0, domain.Unspecified, true},
		{"no digits", 3, "fresher welcome", true},
		{"single bound met", 6, "4 years", true},
		{"single bound well above", 20, "4 years", true},
		{"single bound not met", 2, "4 years", false},
		{"range inside", 4, "3-5 years", true},
		{"range above no slack", 6, "3-5 years", false},
		{"range below", 1, "3-5 years", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			prof := domain.ResumeProfile{Skills: []string{"python"}, TotalYearsExperience: tc.resumeYears}
			p := posting("python")
			p.ExperienceText = tc.experience
			_, _, compatible := match.Score(prof, p, tax)
			assert.Equal(t, tc.want, compatible)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()
	prof := domain.ResumeProfile{Skills: []string{"python", "go", "aws", "docker"}, TotalYearsExperience: 5}
	p := posting("python", "go", "aws", "docker")

	first, m1, c1 := match.Score(prof, p, tax)
	for i := 0; i < 10; i++ {
		score, m, c := match.Score(prof, p, tax)
		assert.Equal(t, first, score)
		assert.Equal(t, m1, m)
		assert.Equal(t, c1, c)
	}
}
