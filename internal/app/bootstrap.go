package app

import (
	"context"
	"log/slog"

	qdrantcli "github.com/amithrb/jobfinder/internal/adapter/vector/qdrant"
	"github.com/amithrb/jobfinder/internal/domain"
)

// defaultVectorSize is used when the embeddings model dimension cannot be
// probed at startup.
const defaultVectorSize = 1536

// EnsureVectorCollection makes the Qdrant collection exist with the right
// vector size. The size is probed with a single embedding call; on failure
// the default is used and collection creation is retried lazily on upsert.
func EnsureVectorCollection(ctx context.Context, qcli *qdrantcli.Client, aicl domain.AIClient) {
	if qcli == nil {
		return
	}
	size := defaultVectorSize
	if aicl != nil {
		if vecs, err := aicl.Embed(ctx, []string{"dimension probe"}); err == nil && len(vecs) == 1 && len(vecs[0]) > 0 {
			size = len(vecs[0])
		} else if err != nil {
			slog.Warn("embedding dimension probe failed", slog.Any("error", err))
		}
	}
	if err := qcli.EnsureCollection(ctx, size); err != nil {
		slog.Warn("qdrant ensure collection failed", slog.Any("error", err))
	}
}
