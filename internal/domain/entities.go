// Package domain holds the core entities, ports, and error taxonomy.
package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrParse              = errors.New("parse error")
	ErrSchemaInvalid      = errors.New("schema invalid")
	ErrInternal           = errors.New("internal error")
)

// Unspecified is the sentinel used for posting fields that could not be
// extracted. It flows through normalization, scoring, and export unchanged.
const Unspecified = "unspecified"

// Chunk is a bounded substring of an ingested document.
// Chunks are immutable once produced by the splitter.
type Chunk struct {
	ID     string
	Text   string
	Source string
}

// EmbeddedChunk pairs a chunk with its embedding vector for index storage.
type EmbeddedChunk struct {
	ChunkID string
	Vector  []float32
	Text    string
}

// ResumeProfile is the structured view of an ingested resume.
// Skills are lowercased and trimmed; TotalYearsExperience is never negative.
type ResumeProfile struct {
	Skills               []string `json:"skills"`
	TotalYearsExperience int      `json:"total_years_experience"`
}

// RawPosting is a job advertisement exactly as received from a posting
// source (search API, scraper export). Read-only input to normalization.
type RawPosting struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	RawContent string `json:"raw_content,omitempty"`
	URL        string `json:"url"`
	Source     string `json:"source,omitempty"`
	// Company and Experience are optional enrichments provided by sources
	// that pre-extract them (e.g. the scraper CSV export).
	Company    string `json:"company,omitempty"`
	Experience string `json:"experience,omitempty"`
}

// NormalizedPosting is the canonical posting record produced by the
// normalizer. Every field is defined; extraction misses carry Unspecified.
type NormalizedPosting struct {
	Company        string   `json:"company_name"`
	Title          string   `json:"title"`
	SkillsFound    []string `json:"skills_found"`
	Link           string   `json:"link"`
	ExperienceText string   `json:"experience_text"`
	Description    string   `json:"description"`
}

// SkillsUnspecified reports whether no skills were extracted for the posting.
func (p NormalizedPosting) SkillsUnspecified() bool {
	return len(p.SkillsFound) == 1 && p.SkillsFound[0] == Unspecified
}

// ScoredPosting is a normalized posting with its relevance verdict attached.
type ScoredPosting struct {
	NormalizedPosting
	MatchScore    float64  `json:"match_score"`
	MatchedSkills []string `json:"matched_skills"`
	ExpCompatible bool     `json:"experience_compatible"`
}

// FilterDiagnostics counts raw postings dropped at each normalization stage.
// It is returned alongside the normalized list, never silently discarded.
type FilterDiagnostics struct {
	Initial           int `json:"initial"`
	DroppedLocation   int `json:"dropped_location"`
	DroppedDomain     int `json:"dropped_domain"`
	DroppedExperience int `json:"dropped_experience"`
	DroppedDuplicate  int `json:"dropped_duplicate"`
	Kept              int `json:"kept"`
}

// AIClient (port) covers the embedding and generation service contracts.
type AIClient interface {
	// Embed returns one vector per input text, index-aligned to the request.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Chat sends a single prompt and returns the raw message content.
	Chat(ctx context.Context, prompt string) (string, error)
}

// VectorIndex (port) stores embedded chunks and answers nearest-neighbor
// queries. Implementations accumulate monotonically; there is no delete.
type VectorIndex interface {
	Upsert(ctx context.Context, points []EmbeddedChunk) error
	// Search returns the texts of the k nearest stored vectors, best first.
	Search(ctx context.Context, vector []float32, k int) ([]string, error)
}

// PostingSource (port) yields raw postings from an external provider.
type PostingSource interface {
	Search(ctx context.Context, query string, maxResults int, domains []string) ([]RawPosting, error)
}

// TextExtractor (port) turns an uploaded file into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, fileName string, data []byte) (string, error)
}
