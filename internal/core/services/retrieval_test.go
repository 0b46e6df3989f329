package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

func TestRetriever_Retrieve(t *testing.T) {
	store := setupAnswerDocStore(t)
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{hits: answerVectorHits()}
	retriever := NewRetriever(embedding, vectors, store)

	results, err := retriever.Retrieve(context.Background(), "additives", 10)

	require.NoError(t, err)
	require.Len(t, results, 3)

	// Hits come back hydrated, best first.
	assert.Equal(t, "chunk-doc-1", results[0].Chunk.ID)
	assert.Equal(t, "file:///corpus/additives.pdf", results[0].Source)
	assert.Equal(t, "Additives Regulation", results[0].Title)
	assert.InDelta(t, 0.92, results[0].Similarity, 1e-9)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Similarity, results[i-1].Similarity)
	}
}

func TestRetriever_Retrieve_NilEmbedding(t *testing.T) {
	retriever := NewRetriever(nil, &mockVectorIndex{}, setupAnswerDocStore(t))

	_, err := retriever.Retrieve(context.Background(), "query", 10)

	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRetriever_Retrieve_NilIndex(t *testing.T) {
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	retriever := NewRetriever(embedding, nil, setupAnswerDocStore(t))

	_, err := retriever.Retrieve(context.Background(), "query", 10)

	require.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestRetriever_Retrieve_EmbedError(t *testing.T) {
	cause := errors.New("embedding api down")
	embedding := &mockEmbeddingService{embedErr: cause}
	retriever := NewRetriever(embedding, &mockVectorIndex{}, setupAnswerDocStore(t))

	_, err := retriever.Retrieve(context.Background(), "query", 10)

	require.ErrorIs(t, err, cause)
}

func TestRetriever_Retrieve_SearchError(t *testing.T) {
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{searchErr: errors.New("index corrupted")}
	retriever := NewRetriever(embedding, vectors, setupAnswerDocStore(t))

	_, err := retriever.Retrieve(context.Background(), "query", 10)

	require.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestRetriever_Retrieve_EmptyIndex(t *testing.T) {
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	retriever := NewRetriever(embedding, &mockVectorIndex{}, setupAnswerDocStore(t))

	_, err := retriever.Retrieve(context.Background(), "query", 10)

	require.ErrorIs(t, err, domain.ErrIndexEmpty)
}

func TestRetriever_Retrieve_MissingChunkSkipped(t *testing.T) {
	store := setupAnswerDocStore(t)
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{hits: []driven.VectorHit{
		{ChunkID: "chunk-doc-1", Similarity: 0.9},
		{ChunkID: "chunk-gone", Similarity: 0.85},
		{ChunkID: "chunk-doc-2", Similarity: 0.8},
	}}
	retriever := NewRetriever(embedding, vectors, store)

	results, err := retriever.Retrieve(context.Background(), "query", 10)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "chunk-doc-1", results[0].Chunk.ID)
	assert.Equal(t, "chunk-doc-2", results[1].Chunk.ID)
}

func TestRetriever_Retrieve_DefaultTopK(t *testing.T) {
	store := setupAnswerDocStore(t)
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{hits: answerVectorHits()}
	retriever := NewRetriever(embedding, vectors, store)

	results, err := retriever.Retrieve(context.Background(), "query", 0)

	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestFilterByRelevance(t *testing.T) {
	ranked := []domain.RankedChunk{
		{RetrievedChunk: domain.RetrievedChunk{Chunk: domain.Chunk{ID: "a"}}, Relevance: 0.9},
		{RetrievedChunk: domain.RetrievedChunk{Chunk: domain.Chunk{ID: "b"}}, Relevance: 0.5},
		{RetrievedChunk: domain.RetrievedChunk{Chunk: domain.Chunk{ID: "c"}}, Relevance: 0.1},
		{RetrievedChunk: domain.RetrievedChunk{Chunk: domain.Chunk{ID: "d"}}, Relevance: 0.05},
	}

	tests := []struct {
		name         string
		minRelevance float64
		expected     []string
	}{
		{"zero keeps everything", 0, []string{"a", "b", "c", "d"}},
		{"threshold is inclusive", 0.1, []string{"a", "b", "c"}},
		{"mid threshold", 0.5, []string{"a", "b"}},
		{"nothing clears", 0.95, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept := filterByRelevance(ranked, tt.minRelevance)

			ids := make([]string, 0, len(kept))
			for _, rc := range kept {
				ids = append(ids, rc.Chunk.ID)
			}
			if tt.expected == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.expected, ids)
			}
		})
	}
}
