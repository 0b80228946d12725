package match

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/amithrb/jobfinder/internal/domain"
	"github.com/amithrb/jobfinder/internal/taxonomy"
)

// ScoreAll scores every normalized posting against the profile.
func ScoreAll(profile domain.ResumeProfile, postings []domain.NormalizedPosting, tax *taxonomy.Taxonomy) []domain.ScoredPosting {
	out := make([]domain.ScoredPosting, len(postings))
	for i, p := range postings {
		score, matched, compatible := Score(profile, p, tax)
		out[i] = domain.ScoredPosting{
			NormalizedPosting: p,
			MatchScore:        score,
			MatchedSkills:     matched,
			ExpCompatible:     compatible,
		}
	}
	return out
}

// Rank sorts scored postings by match score descending. The sort is stable:
// ties keep their prior relative order. The full list is returned; no
// score-based exclusion happens here.
func Rank(postings []domain.ScoredPosting) []domain.ScoredPosting {
	out := make([]domain.ScoredPosting, len(postings))
	copy(out, postings)
	sort.SliceStable(out, func(a, b int) bool { return out[a].MatchScore > out[b].MatchScore })
	return out
}

// ExportHeader is the fixed column order of the tabular export. Downstream
// spreadsheet consumers depend on these names and positions.
var ExportHeader = []string{
	"Company Name",
	"Title",
	"Skills Found",
	"Link",
	"Experience",
	"Description",
	"Match Score",
	"Matched Skills",
	"Experience Compatible",
}

// ExportRow flattens one scored posting into the export column order.
func ExportRow(p domain.ScoredPosting) []string {
	return []string{
		p.Company,
		p.Title,
		strings.Join(p.SkillsFound, ", "),
		p.Link,
		p.ExperienceText,
		p.Description,
		strconv.FormatFloat(p.MatchScore, 'f', 1, 64),
		strings.Join(p.MatchedSkills, ", "),
		strconv.FormatBool(p.ExpCompatible),
	}
}

// WriteCSV streams the ranked postings as CSV with the export header.
func WriteCSV(w io.Writer, postings []domain.ScoredPosting) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, p := range postings {
		if err := cw.Write(ExportRow(p)); err != nil {
			return fmt.Errorf("csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
