// Package csvfile loads raw postings from the scraper's CSV export format.
//
// The expected columns are Company Name, Title, Skill, Link, Experience.
// Pre-extracted skills are folded into the posting content so the
// normalizer's text matching sees them; the experience column is kept as an
// enrichment and used verbatim as the experience text.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amithrb/jobfinder/internal/domain"
)

// Load reads postings from a CSV file at path.
func Load(path string) ([]domain.RawPosting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open postings file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Read parses postings from CSV data. The first row must be a header;
// column lookup is by name so extra columns are tolerated.
func Read(r io.Reader) ([]domain.RawPosting, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: postings csv has no header", domain.ErrInvalidArgument)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: postings csv missing %q column", domain.ErrInvalidArgument, required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		v := strings.TrimSpace(rec[i])
		// The scraper writes "NA" for fields it could not capture.
		if v == "NA" {
			return ""
		}
		return v
	}

	var postings []domain.RawPosting
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("postings csv: %w", err)
		}
		skills := field(rec, "skill")
		postings = append(postings, domain.RawPosting{
			Title:      field(rec, "title"),
			Content:    skills,
			URL:        field(rec, "link"),
			Company:    field(rec, "company name"),
			Experience: field(rec, "experience"),
		})
	}
	return postings, nil
}
