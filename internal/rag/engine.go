package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/amithrb/jobfinder/internal/adapter/ai/tokencount"
	"github.com/amithrb/jobfinder/internal/domain"
)

const (
	// DefaultBatchSize bounds how many chunks are embedded per request.
	DefaultBatchSize = 20
	// DefaultTopK is the number of chunks retrieved for a query.
	DefaultTopK = 3
)

// Engine ties the chunk splitter, the embedding service, and the vector
// index together. Index appends are serialized; the index itself only grows.
type Engine struct {
	ai        domain.AIClient
	index     domain.VectorIndex
	chunkSize int
	overlap   int
	batchSize int
	topK      int

	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithBatchSize overrides the embedding batch size.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithTopK overrides the retrieval depth.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// NewEngine constructs an Engine over the given AI client and vector index.
func NewEngine(ai domain.AIClient, index domain.VectorIndex, chunkSize, overlap int, opts ...Option) *Engine {
	e := &Engine{
		ai:        ai,
		index:     index,
		chunkSize: chunkSize,
		overlap:   overlap,
		batchSize: DefaultBatchSize,
		topK:      DefaultTopK,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Index splits text into chunks, embeds them in batches, and stores the
// resulting points. A batch of one is valid; an empty text is a no-op.
func (e *Engine) Index(ctx context.Context, text, source string) (int, error) {
	chunks, err := Split(text, source, e.chunkSize, e.overlap)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	slog.Debug("indexing document", slog.String("source", source), slog.Int("chunks", len(chunks)))

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < len(chunks); i += e.batchSize {
		end := i + e.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]
		texts := make([]string, len(batch))
		for j, c := range batch {
			texts[j] = c.Text
		}
		vectors, err := e.ai.Embed(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embed batch %d: %w", i/e.batchSize+1, err)
		}
		if len(vectors) != len(batch) {
			return 0, fmt.Errorf("%w: embedding service returned %d vectors for %d texts", domain.ErrSchemaInvalid, len(vectors), len(batch))
		}
		points := make([]domain.EmbeddedChunk, len(batch))
		for j, c := range batch {
			points[j] = domain.EmbeddedChunk{ChunkID: c.ID, Vector: vectors[j], Text: c.Text}
		}
		if err := e.index.Upsert(ctx, points); err != nil {
			return 0, fmt.Errorf("index upsert: %w", err)
		}
	}
	return len(chunks), nil
}

// Retrieve embeds the query and returns the texts of the k nearest stored
// chunks, nearest first. k <= 0 falls back to the engine's default.
func (e *Engine) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		k = e.topK
	}
	vectors, err := e.ai.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedding service returned no vectors", domain.ErrSchemaInvalid)
	}
	return e.index.Search(ctx, vectors[0], k)
}

// Generate retrieves grounding chunks for the query, composes a prompt from
// them, and returns the generation service's unprocessed reply.
func (e *Engine) Generate(ctx context.Context, query string) (string, error) {
	docs, err := e.Retrieve(ctx, query, e.topK)
	if err != nil {
		return "", err
	}
	prompt := ComposePrompt(docs, query)
	tokens := tokencount.Count(prompt)
	slog.Debug("composed grounded prompt",
		slog.Int("retrieved", len(docs)),
		slog.Int("prompt_tokens", tokens))
	out, err := e.ai.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out, nil
}

// ComposePrompt joins retrieved texts in retrieval order, separated by blank
// lines, followed by the literal instruction.
func ComposePrompt(docs []string, query string) string {
	data := strings.Join(docs, "\n\n")
	return fmt.Sprintf("Using this data: %s. Respond to this prompt: %s", data, query)
}
