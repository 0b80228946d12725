// Package usecase contains application services orchestrating the core flow.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amithrb/jobfinder/internal/adapter/observability"
	"github.com/amithrb/jobfinder/internal/domain"
	"github.com/amithrb/jobfinder/internal/match"
	"github.com/amithrb/jobfinder/internal/rag"
	"github.com/amithrb/jobfinder/internal/taxonomy"
	"github.com/amithrb/jobfinder/pkg/textx"
)

// extractionInstruction is the fixed prompt used to pull structured
// attributes out of the indexed resume.
const extractionInstruction = "Extract only the skills and the total years of work experience from the resume. " +
	"Return strictly in JSON with the following keys: " +
	"'skills' as a list of skill names, and 'total_years_experience' as a number only. " +
	"Do not include experience descriptions or job history."

// ParseFunc turns raw generation output into a profile; production wires
// profile.Parse, tests substitute fakes.
type ParseFunc func(raw string) (domain.ResumeProfile, error)

// Session owns the per-session mutable state: the growing vector index and
// the cached resume profile. Indexing a new document invalidates the cached
// profile, forcing a fresh retrieval+generation+parse cycle on next use.
type Session struct {
	engine *rag.Engine
	tax    *taxonomy.Taxonomy
	parse  ParseFunc

	mu       sync.Mutex
	profile  *domain.ResumeProfile
	docCount int
}

// NewSession constructs a session service over the given engine and taxonomy.
func NewSession(engine *rag.Engine, tax *taxonomy.Taxonomy, parse ParseFunc) *Session {
	return &Session{engine: engine, tax: tax, parse: parse}
}

// Ingest sanitizes and indexes one document and drops the cached profile.
func (s *Session) Ingest(ctx context.Context, text, source string) error {
	text = textx.SanitizeText(text)
	if text == "" {
		return fmt.Errorf("%w: empty document", domain.ErrInvalidArgument)
	}
	chunks, err := s.engine.Index(ctx, text, source)
	if err != nil {
		return fmt.Errorf("ingest %q: %w", source, err)
	}
	s.mu.Lock()
	s.profile = nil
	s.docCount++
	s.mu.Unlock()
	slog.Info("document ingested", slog.String("source", source), slog.Int("chunks", chunks))
	return nil
}

// DocumentCount reports how many documents have been ingested this session.
func (s *Session) DocumentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docCount
}

// Profile returns the structured resume profile, extracting it lazily and
// caching the result until the next ingest. Extraction failures surface to
// the caller: this is the one step that can abort the whole ranking flow.
func (s *Session) Profile(ctx context.Context) (domain.ResumeProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile != nil {
		return *s.profile, nil
	}
	if s.docCount == 0 {
		return domain.ResumeProfile{}, fmt.Errorf("%w: no documents ingested", domain.ErrNotFound)
	}
	raw, err := s.engine.Generate(ctx, extractionInstruction)
	if err != nil {
		observability.ProfileExtractionsTotal.WithLabelValues("service_error").Inc()
		return domain.ResumeProfile{}, err
	}
	p, err := s.parse(raw)
	if err != nil {
		observability.ProfileExtractionsTotal.WithLabelValues("parse_error").Inc()
		return domain.ResumeProfile{}, err
	}
	observability.ProfileExtractionsTotal.WithLabelValues("ok").Inc()
	slog.Info("resume profile extracted",
		slog.Int("skills", len(p.Skills)),
		slog.Int("years_experience", p.TotalYearsExperience))
	s.profile = &p
	return p, nil
}

// Rank normalizes, scores, and orders raw postings against the session
// profile. The diagnostics record is always returned, even with zero kept
// postings.
func (s *Session) Rank(ctx context.Context, postings []domain.RawPosting, location string, domains []string) ([]domain.ScoredPosting, domain.FilterDiagnostics, error) {
	prof, err := s.Profile(ctx)
	if err != nil {
		return nil, domain.FilterDiagnostics{}, err
	}
	norm := match.Normalizer{
		Location: location,
		Domains:  domains,
		Profile:  prof,
		Taxonomy: s.tax,
	}
	normalized, diag := norm.Run(postings)
	recordFilterMetrics(diag)

	scored := match.ScoreAll(prof, normalized, s.tax)
	ranked := match.Rank(scored)
	return ranked, diag, nil
}

func recordFilterMetrics(d domain.FilterDiagnostics) {
	observability.PostingsDroppedTotal.WithLabelValues("location").Add(float64(d.DroppedLocation))
	observability.PostingsDroppedTotal.WithLabelValues("domain").Add(float64(d.DroppedDomain))
	observability.PostingsDroppedTotal.WithLabelValues("experience").Add(float64(d.DroppedExperience))
	observability.PostingsDroppedTotal.WithLabelValues("duplicate").Add(float64(d.DroppedDuplicate))
	observability.PostingsRankedTotal.Add(float64(d.Kept))
}

// IsParseError reports whether err is a profile parse failure, so callers
// can attach the raw model output to their error response.
func IsParseError(err error) bool {
	return errors.Is(err, domain.ErrParse)
}
