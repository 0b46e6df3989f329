package driven

import (
	"context"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// PostProcessor is one stage of the chunking pipeline that prepares a
// normalised document for indexing.
type PostProcessor interface {
	// Name identifies the stage in settings and error messages.
	Name() string

	// Process transforms the chunk set for the document. A stage that
	// creates chunks (the chunker) receives nil; a stage that refines
	// them (the cleaner) receives the previous stage's output.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs a document through the configured stages
// and yields the chunks that will be embedded and indexed.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
