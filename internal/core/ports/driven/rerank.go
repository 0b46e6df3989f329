package driven

import (
	"context"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// Reranker scores retrieved chunks against the query with a finer
// relevance signal than vector similarity.
//
// Implementations must return chunks ordered by descending relevance,
// at most topN of them, with scores normalised to [0, 1]. Threshold
// filtering is the caller's job so one tunable applies across
// implementations.
type Reranker interface {
	// Rerank scores the chunks against the query and returns the topN
	// most relevant, best first.
	Rerank(ctx context.Context, query string, chunks []domain.RetrievedChunk, topN int) ([]domain.RankedChunk, error)

	// ModelName returns the rerank model identifier.
	ModelName() string

	// Close releases resources.
	Close() error
}
