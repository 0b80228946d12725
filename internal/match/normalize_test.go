package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amithrb/jobfinder/internal/domain"
	"github.com/amithrb/jobfinder/internal/match"
	"github.com/amithrb/jobfinder/internal/taxonomy"
)

func testNormalizer(location string, domains []string, years int, skills ...string) match.Normalizer {
	return match.Normalizer{
		Location: location,
		Domains:  domains,
		Profile:  domain.ResumeProfile{Skills: skills, TotalYearsExperience: years},
		Taxonomy: taxonomy.Default(),
	}
}

func TestNormalizer_LocationFilter(t *testing.T) {
	t.Parallel()
	n := testNormalizer("bengaluru", nil, 5, "python")
	postings := []domain.RawPosting{
		{Title: "Python Developer - Bengaluru", Content: "python role", URL: "https://example.com/1"},
		{Title: "Python Developer", Content: "remote python role in BENGALURU office", URL: "https://example.com/2"},
		{Title: "Python Developer", Content: "python role in Pune", URL: "https://example.com/3"},
	}
	out, diag := n.Run(postings)
	assert.Len(t, out, 2)
	assert.Equal(t, 3, diag.Initial)
	assert.Equal(t, 1, diag.DroppedLocation)
	assert.Equal(t, 2, diag.Kept)
}

func TestNormalizer_EmptyLocationPassesAll(t *testing.T) {
	t.Parallel()
	n := testNormalizer("", nil, 5, "python")
	out, diag := n.Run([]domain.RawPosting{
		{Title: "Anywhere Python", Content: "python", URL: "https://example.com/1"},
	})
	assert.Len(t, out, 1)
	assert.Zero(t, diag.DroppedLocation)
}

func TestNormalizer_DomainAllowlist(t *testing.T) {
	t.Parallel()
	n := testNormalizer("", []string{"naukri.com", "linkedin.com"}, 5, "python")
	postings := []domain.RawPosting{
		{Title: "A", Content: "python", URL: "https://www.naukri.com/job-listings-python-dev-123"},
		{Title: "B", Content: "python", URL: "https://www.linkedin.com/jobs/view/456"},
		{Title: "C", Content: "python", URL: "https://other-board.com/789"},
		// Listing page on naukri, not a posting detail page.
		{Title: "D", Content: "python", URL: "https://www.naukri.com/python-jobs-in-bengaluru"},
	}
	out, diag := n.Run(postings)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Title)
	assert.Equal(t, "B", out[1].Title)
	assert.Equal(t, 2, diag.DroppedDomain)
}

func TestNormalizer_EmptyDomainListDisablesStage(t *testing.T) {
	t.Parallel()
	n := testNormalizer("", nil, 5, "python")
	out, diag := n.Run([]domain.RawPosting{
		{Title: "A", Content: "python", URL: "https://anything.example/post"},
	})
	assert.Len(t, out, 1)
	assert.Zero(t, diag.DroppedDomain)
}

func TestNormalizer_ExperienceAdmission(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name        string
		resumeYears int
		experience  string
		admit       bool
	}{
		{"single bound met", 5, "3 years", true},
		{"single bound not met", 2, "3 years", false},
		{"range inside", 4, "3-5 years", true},
		{"range upper slack", 7, "3-5 years", true},
		{"range beyond slack", 8, "3-5 years", false},
		{"range below", 2, "3-5 years", false},
		{"no digits admits", 5, "entry level", true},
		{"unspecified admits", 0, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			n := testNormalizer("", nil, tc.resumeYears, "python")
			out, diag := n.Run([]domain.RawPosting{{
				Title:      "Python Developer",
				Content:    "python",
				URL:        "https://example.com/1",
				Experience: tc.experience,
			}})
			if tc.admit {
				assert.Len(t, out, 1)
			} else {
				assert.Empty(t, out)
				assert.Equal(t, 1, diag.DroppedExperience)
			}
		})
	}
}

func TestNormalizer_DedupKeepsFirst(t *testing.T) {
	t.Parallel()
	n := testNormalizer("", nil, 5, "python")
	postings := []domain.RawPosting{
		{Title: "Python Developer", Company: "Acme", Content: "python first", URL: "https://example.com/1"},
		{Title: " python developer ", Company: "ACME", Content: "python second", URL: "https://example.com/2"},
		{Title: "Python Developer", Company: "Globex", Content: "python third", URL: "https://example.com/3"},
	}
	out, diag := n.Run(postings)
	require.Len(t, out, 2)
	assert.Equal(t, "https://example.com/1", out[0].Link)
	assert.Equal(t, "https://example.com/3", out[1].Link)
	assert.Equal(t, 1, diag.DroppedDuplicate)
}

func TestNormalizer_RunIsIdempotentOnOutputShape(t *testing.T) {
	t.Parallel()
	n := testNormalizer("", nil, 5, "python", "go")
	postings := []domain.RawPosting{
		{Title: "Go Dev", Company: "Acme", Content: "golang and python", URL: "https://example.com/1"},
		{Title: "Go Dev", Company: "Acme", Content: "golang and python", URL: "https://example.com/1"},
	}
	first, _ := n.Run(postings)
	second, _ := n.Run(postings)
	assert.Equal(t, first, second)
	assert.Len(t, first, 1)
}

func TestNormalizer_FieldDefaults(t *testing.T) {
	t.Parallel()
	n := testNormalizer("", nil, 5, "haskell")
	out, _ := n.Run([]domain.RawPosting{
		{Title: "Mystery Role", Content: "no recognizable skills here"},
	})
	require.Len(t, out, 1)
	p := out[0]
	assert.Equal(t, domain.Unspecified, p.Company)
	assert.Equal(t, domain.Unspecified, p.Link)
	assert.Equal(t, domain.Unspecified, p.ExperienceText)
	assert.Equal(t, []string{domain.Unspecified}, p.SkillsFound)
	assert.True(t, p.SkillsUnspecified())
}

func TestNormalizer_SkillExtractionUsesVariants(t *testing.T) {
	t.Parallel()
	n := testNormalizer("", nil, 5, "go", "postgres")
	out, _ := n.Run([]domain.RawPosting{
		{Title: "Backend Dev", Content: "golang services on postgresql", URL: "https://example.com/1"},
	})
	require.Len(t, out, 1)
	assert.ElementsMatch(t, []string{"go", "postgres"}, out[0].SkillsFound)
}

func TestNormalizer_ExperienceFromEnrichmentPreferred(t *testing.T) {
	t.Parallel()
	n := testNormalizer("", nil, 10, "python")
	out, _ := n.Run([]domain.RawPosting{{
		Title:      "Python Dev with 2 years mentioned in title",
		Content:    "python",
		URL:        "https://example.com/1",
		Experience: "5-8 years",
	}})
	require.Len(t, out, 1)
	// 10 <= 8+2, admitted; the enrichment text wins over the title phrase.
	assert.Equal(t, "5-8 years", out[0].ExperienceText)
}
