package driving

import (
	"context"
	"time"
)

// IngestOrchestrator fills the document index from the corpus directory.
type IngestOrchestrator interface {
	// Ingest indexes every supported document under dir.
	// Individual document failures are tolerated and counted.
	Ingest(ctx context.Context, dir string) (*IngestResult, error)

	// Watch ingests dir, then re-indexes documents as they change
	// until the context is cancelled.
	Watch(ctx context.Context, dir string) error
}

// IngestResult summarises an ingest run.
type IngestResult struct {
	// Documents is the count of documents indexed.
	Documents int

	// Chunks is the count of chunks indexed.
	Chunks int

	// Skipped is the count of files with unsupported types.
	Skipped int

	// Failures is the count of documents that could not be indexed.
	Failures int

	// Duration is how long the run took.
	Duration time.Duration
}
