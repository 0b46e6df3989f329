package driving

import (
	"context"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// RetrievalService exposes direct similarity search over the indexed
// corpus, bypassing routing and synthesis.
type RetrievalService interface {
	// Retrieve returns the topK chunks most similar to the query,
	// ordered by descending similarity. topK <= 0 uses the default.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error)
}
