package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amithrb/jobfinder/internal/adapter/vector/memory"
	"github.com/amithrb/jobfinder/internal/domain"
	"github.com/amithrb/jobfinder/internal/profile"
	"github.com/amithrb/jobfinder/internal/rag"
	"github.com/amithrb/jobfinder/internal/taxonomy"
	"github.com/amithrb/jobfinder/internal/usecase"
)

// stubAI returns a constant vector per text and a scripted chat reply,
// counting calls so caching behavior is observable.
type stubAI struct {
	chatReply  string
	chatErr    error
	embedCalls int
	chatCalls  int
}

func (s *stubAI) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.embedCalls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (s *stubAI) Chat(_ context.Context, _ string) (string, error) {
	s.chatCalls++
	if s.chatErr != nil {
		return "", s.chatErr
	}
	return s.chatReply, nil
}

func newTestSession(ai *stubAI) *usecase.Session {
	engine := rag.NewEngine(ai, memory.New(), 1000, 100)
	return usecase.NewSession(engine, taxonomy.Default(), profile.Parse)
}

func TestSession_ProfileWithoutIngest(t *testing.T) {
	t.Parallel()
	s := newTestSession(&stubAI{})
	_, err := s.Profile(context.Background())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSession_IngestEmptyRejected(t *testing.T) {
	t.Parallel()
	s := newTestSession(&stubAI{})
	err := s.Ingest(context.Background(), "   \n\t ", "resume.txt")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Zero(t, s.DocumentCount())
}

func TestSession_ProfileLazyAndCached(t *testing.T) {
	t.Parallel()
	ai := &stubAI{chatReply: "```json\n{\"skills\": [\"Python\", \"SQL\"], \"total_years_experience\": \"3.7\"}\n```"}
	s := newTestSession(ai)

	require.NoError(t, s.Ingest(context.Background(), "python and sql resume", "resume.txt"))
	assert.Zero(t, ai.chatCalls, "ingest must not trigger extraction")

	p, err := s.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "sql"}, p.Skills)
	assert.Equal(t, 3, p.TotalYearsExperience)
	assert.Equal(t, 1, ai.chatCalls)

	_, err = s.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ai.chatCalls, "second call must hit the cache")
}

func TestSession_IngestInvalidatesCachedProfile(t *testing.T) {
	t.Parallel()
	ai := &stubAI{chatReply: `{"skills": ["go"], "total_years_experience": 2}`}
	s := newTestSession(ai)

	require.NoError(t, s.Ingest(context.Background(), "go resume", "a.txt"))
	_, err := s.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, ai.chatCalls)

	require.NoError(t, s.Ingest(context.Background(), "more go experience", "b.txt"))
	assert.Equal(t, 2, s.DocumentCount())

	_, err = s.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ai.chatCalls, "ingest must force re-extraction")
}

func TestSession_ProfileParseFailure(t *testing.T) {
	t.Parallel()
	ai := &stubAI{chatReply: "I am sorry, I cannot help with that."}
	s := newTestSession(ai)

	require.NoError(t, s.Ingest(context.Background(), "resume text", "resume.txt"))
	_, err := s.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, usecase.IsParseError(err))
}

func TestSession_RankEndToEnd(t *testing.T) {
	t.Parallel()
	ai := &stubAI{chatReply: `{"skills": ["python", "go"], "total_years_experience": 5}`}
	s := newTestSession(ai)
	require.NoError(t, s.Ingest(context.Background(), "python and go resume", "resume.txt"))

	postings := []domain.RawPosting{
		{Title: "Go Developer", Company: "Acme", Content: "golang and python backend", URL: "https://example.com/1"},
		{Title: "Java Developer", Company: "Globex", Content: "java only", URL: "https://example.com/2"},
	}
	ranked, diag, err := s.Rank(context.Background(), postings, "", nil)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Go Developer", ranked[0].Title)
	assert.Greater(t, ranked[0].MatchScore, ranked[1].MatchScore)
	assert.Equal(t, 2, diag.Initial)
	assert.Equal(t, 2, diag.Kept)
}

func TestSession_RankPropagatesProfileError(t *testing.T) {
	t.Parallel()
	ai := &stubAI{chatErr: domain.ErrServiceUnavailable}
	s := newTestSession(ai)
	require.NoError(t, s.Ingest(context.Background(), "resume text", "resume.txt"))

	_, _, err := s.Rank(context.Background(), []domain.RawPosting{{Title: "X", Content: "y", URL: "u"}}, "", nil)
	require.ErrorIs(t, err, domain.ErrServiceUnavailable)
}
