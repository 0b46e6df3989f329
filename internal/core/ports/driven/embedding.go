package driven

import "context"

// EmbeddingService turns text into vectors. The same service must
// embed both chunks at ingest time and queries at answer time;
// similarity scores are only meaningful within one embedding space.
type EmbeddingService interface {
	// Embed returns the vector for one text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds many texts in one round trip. Ingest uses it
	// per document rather than calling Embed per chunk.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector size the model produces. Vectors of a
	// different size in the index mean the corpus needs re-ingesting.
	Dimensions() int

	// ModelName returns the embedding model identifier.
	ModelName() string

	// Ping makes a lightweight request to verify reachability and
	// credentials before serving queries.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
