// Package memory provides an in-process vector index scoped to one session.
//
// Points accumulate monotonically; there is no delete. Nearest-neighbor
// search uses cosine similarity with ties broken by insertion order, which
// keeps retrieval deterministic for repeated queries.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/amithrb/jobfinder/internal/domain"
)

// Index implements domain.VectorIndex in memory.
type Index struct {
	mu     sync.RWMutex
	points []domain.EmbeddedChunk
}

// New constructs an empty index.
func New() *Index {
	return &Index{}
}

// Upsert appends points in order. Vectors must share one dimension.
func (ix *Index) Upsert(_ context.Context, points []domain.EmbeddedChunk) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, p := range points {
		if len(ix.points) > 0 && len(p.Vector) != len(ix.points[0].Vector) {
			return fmt.Errorf("%w: vector dimension %d does not match index dimension %d",
				domain.ErrInvalidArgument, len(p.Vector), len(ix.points[0].Vector))
		}
		ix.points = append(ix.points, p)
	}
	return nil
}

// Len reports the number of stored points.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.points)
}

// Search returns the texts of the k most similar points, best first.
// Equal similarities keep insertion order (stable sort over an
// insertion-ordered slice).
func (ix *Index) Search(_ context.Context, vector []float32, k int) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(ix.points) == 0 {
		return nil, nil
	}
	type scored struct {
		idx int
		sim float64
	}
	ranked := make([]scored, len(ix.points))
	for i, p := range ix.points {
		ranked[i] = scored{idx: i, sim: cosine(vector, p.Vector)}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].sim > ranked[b].sim })
	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = ix.points[ranked[i].idx].Text
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
