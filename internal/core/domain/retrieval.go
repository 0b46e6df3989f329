package domain

// RetrievedChunk is a chunk returned by vector retrieval, hydrated
// with provenance from its parent document.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Source is the URI of the document the chunk came from.
	Source string

	// Title is the parent document's title.
	Title string

	// Similarity is the vector similarity between query and chunk,
	// cosine over unit vectors, in [-1, 1].
	Similarity float64
}

// RankedChunk is a retrieved chunk after reranking.
type RankedChunk struct {
	// RetrievedChunk is the underlying retrieval hit.
	RetrievedChunk

	// Relevance is the reranker's score for the chunk against the
	// query. Scale depends on the reranker; all adapters normalise
	// to [0, 1] where higher is more relevant.
	Relevance float64
}
