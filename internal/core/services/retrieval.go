package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/logger"
)

// Retriever finds the chunks most similar to a query.
//
// Retrieval is deterministic: the same query against the same index
// contents always returns the same chunks in the same order. The
// vector index guarantees ordering; the retriever only hydrates.
type Retriever struct {
	embedding   driven.EmbeddingService
	vectorIndex driven.VectorIndex
	docStore    driven.DocumentStore
}

// NewRetriever creates a retriever over the given index.
func NewRetriever(
	embedding driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	docStore driven.DocumentStore,
) *Retriever {
	return &Retriever{
		embedding:   embedding,
		vectorIndex: vectorIndex,
		docStore:    docStore,
	}
}

// Retrieve embeds the query and returns the topK most similar chunks,
// hydrated with provenance and ordered by descending similarity.
//
// Index faults are reported as domain.ErrIndexUnavailable and an index
// with no content as domain.ErrIndexEmpty, so callers can distinguish
// "broken" from "nothing ingested yet".
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error) {
	if r.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if r.vectorIndex == nil || r.docStore == nil {
		return nil, domain.ErrIndexUnavailable
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	logger.Debug("Retrieval: query=%q, topK=%d", query, topK)

	embedding, err := r.embedding.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	hits, err := r.vectorIndex.Search(ctx, embedding, topK)
	if err != nil {
		logger.Warn("Vector search failed: %v", err)
		if ctx.Err() != nil {
			return nil, fmt.Errorf("vector search: %w", ctx.Err())
		}
		return nil, fmt.Errorf("vector search: %w", domain.ErrIndexUnavailable)
	}
	if len(hits) == 0 {
		logger.Warn("Vector search returned nothing: index is empty")
		return nil, domain.ErrIndexEmpty
	}
	logger.Debug("Vector search: %d hits", len(hits))

	return r.hydrate(ctx, hits)
}

// hydrate converts vector hits into retrieved chunks with provenance.
// Hits whose chunk or document has been deleted since indexing are
// skipped.
func (r *Retriever) hydrate(ctx context.Context, hits []driven.VectorHit) ([]domain.RetrievedChunk, error) {
	results := make([]domain.RetrievedChunk, 0, len(hits))

	for _, hit := range hits {
		chunk, err := r.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}

		doc, err := r.docStore.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get document %s: %w", chunk.DocumentID, err)
		}

		results = append(results, domain.RetrievedChunk{
			Chunk:      *chunk,
			Source:     doc.URI,
			Title:      doc.Title,
			Similarity: hit.Similarity,
		})
	}

	return results, nil
}

// filterByRelevance drops ranked chunks scoring below minRelevance,
// preserving order.
func filterByRelevance(ranked []domain.RankedChunk, minRelevance float64) []domain.RankedChunk {
	kept := make([]domain.RankedChunk, 0, len(ranked))
	for _, rc := range ranked {
		if rc.Relevance >= minRelevance {
			kept = append(kept, rc)
		}
	}
	return kept
}
