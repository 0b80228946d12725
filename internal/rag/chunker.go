// Package rag implements document chunking and retrieval-augmented generation.
//
// The chunker splits arbitrary text into overlapping fixed-size windows;
// the engine embeds chunks into a vector index and composes grounded
// prompts for the generation service.
package rag

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/amithrb/jobfinder/internal/domain"
)

// Split cuts text into consecutive windows of length size, each new window
// starting size-overlap runes after the previous one, so neighbors share
// overlap runes. The final chunk may be shorter than size. Text shorter than
// size yields exactly one chunk holding the full text.
func Split(text, source string, size, overlap int) ([]domain.Chunk, error) {
	if size <= 0 || overlap <= 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be in (0, %d)", domain.ErrInvalidArgument, overlap, size)
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}
	step := size - overlap
	chunks := make([]domain.Chunk, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			ID:     uuid.NewString(),
			Text:   string(runes[start:end]),
			Source: source,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
