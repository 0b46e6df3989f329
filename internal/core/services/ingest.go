package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/core/ports/driving"
	"github.com/norma-labs/norma-cli/internal/logger"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.IngestOrchestrator = (*IngestOrchestrator)(nil)

// ConnectorBuilder creates a connector rooted at the given directory.
type ConnectorBuilder func(dir string) (driven.Connector, error)

// IngestOrchestrator coordinates corpus ingestion.
//
// Each file flows through normalise, chunk, embed and index steps.
// Individual file failures are counted, not fatal; a corpus with one
// broken PDF still yields a usable index.
type IngestOrchestrator struct {
	buildConnector ConnectorBuilder
	registry       driven.NormaliserRegistry
	pipeline       driven.PostProcessorPipeline
	embedding      driven.EmbeddingService
	docStore       driven.DocumentStore
	vectorIndex    driven.VectorIndex

	mu      sync.Mutex
	running bool
}

// NewIngestOrchestrator creates a new ingest orchestrator.
func NewIngestOrchestrator(
	buildConnector ConnectorBuilder,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedding driven.EmbeddingService,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
) *IngestOrchestrator {
	return &IngestOrchestrator{
		buildConnector: buildConnector,
		registry:       registry,
		pipeline:       pipeline,
		embedding:      embedding,
		docStore:       docStore,
		vectorIndex:    vectorIndex,
	}
}

// Ingest indexes every supported document under dir.
func (o *IngestOrchestrator) Ingest(ctx context.Context, dir string) (*driving.IngestResult, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}
	defer o.end()

	connector, err := o.openConnector(ctx, dir)
	if err != nil {
		return nil, err
	}
	defer connector.Close()

	logger.Section("Ingest")
	logger.Info("Ingesting documents from %s", dir)

	start := time.Now()
	result := &driving.IngestResult{}

	docsCh, errsCh := connector.FullSync(ctx)
	if err := o.consume(ctx, docsCh, errsCh, result); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	logger.Info("Ingest complete: %d documents, %d chunks, %d skipped, %d failed in %s",
		result.Documents, result.Chunks, result.Skipped, result.Failures, result.Duration.Round(time.Millisecond))
	return result, nil
}

// Watch ingests dir, then keeps the index current until ctx is cancelled.
func (o *IngestOrchestrator) Watch(ctx context.Context, dir string) error {
	if _, err := o.Ingest(ctx, dir); err != nil {
		return err
	}

	connector, err := o.openConnector(ctx, dir)
	if err != nil {
		return err
	}
	defer connector.Close()

	if !connector.Capabilities().SupportsWatch {
		return fmt.Errorf("watch %s: connector %q does not support watching", dir, connector.Type())
	}

	changes, err := connector.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("Watching %s for changes", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case change, ok := <-changes:
			if !ok {
				return nil
			}
			o.applyChange(ctx, change)
		}
	}
}

// openConnector builds and validates a connector for dir.
func (o *IngestOrchestrator) openConnector(ctx context.Context, dir string) (driven.Connector, error) {
	if o.buildConnector == nil {
		return nil, fmt.Errorf("open connector: no connector configured")
	}
	connector, err := o.buildConnector(dir)
	if err != nil {
		return nil, fmt.Errorf("open connector: %w", err)
	}

	if connector.Capabilities().SupportsValidation {
		if err := connector.Validate(ctx); err != nil {
			connector.Close()
			return nil, fmt.Errorf("validate %s: %w", dir, err)
		}
	}
	return connector, nil
}

// consume drains the connector channels, indexing each document.
func (o *IngestOrchestrator) consume(
	ctx context.Context,
	docsCh <-chan domain.RawDocument,
	errsCh <-chan error,
	result *driving.IngestResult,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("read corpus: %w", err)
			}

		case raw, ok := <-docsCh:
			if !ok {
				return nil
			}

			logger.Debug("Processing: %s", raw.URI)
			chunks, err := o.indexOne(ctx, &raw)
			if err != nil {
				if errors.Is(err, domain.ErrUnsupportedType) {
					result.Skipped++
					logger.Debug("Skipping %s: %v", raw.URI, err)
				} else {
					result.Failures++
					logger.Warn("Failed to index %s: %v", raw.URI, err)
				}
				continue
			}
			result.Documents++
			result.Chunks += chunks
		}
	}
}

// indexOne runs one raw document through the full indexing pipeline.
// Returns the number of chunks indexed.
func (o *IngestOrchestrator) indexOne(ctx context.Context, raw *domain.RawDocument) (int, error) {
	if o.embedding == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	// 1. NORMALISE (produces Document with Content)
	normalised, err := o.registry.Normalise(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("normalise: %w", err)
	}
	doc := &normalised.Document

	// 2. CHUNK
	chunks, err := o.pipeline.Process(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}

	// 3. EMBED
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	embeddings, err := o.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embed: got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	// 4. REPLACE any previous version of this document
	if err := o.removeByURI(ctx, raw.URI); err != nil {
		return 0, fmt.Errorf("replace existing: %w", err)
	}

	// 5. SAVE
	if err := o.docStore.SaveDocument(ctx, doc); err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}
	if err := o.docStore.SaveChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("save chunks: %w", err)
	}

	// 6. INDEX vectors
	if o.vectorIndex != nil {
		for _, chunk := range chunks {
			if chunk.Embedding == nil {
				continue
			}
			if err := o.vectorIndex.Add(ctx, chunk.ID, chunk.Embedding); err != nil {
				return 0, fmt.Errorf("add vector: %w", err)
			}
		}
	}

	return len(chunks), nil
}

// applyChange handles a single watch event. Failures are logged so
// one broken file cannot stop the watch loop.
func (o *IngestOrchestrator) applyChange(ctx context.Context, change domain.RawDocumentChange) {
	switch change.Type {
	case domain.ChangeCreated, domain.ChangeUpdated:
		logger.Debug("Re-indexing: %s", change.Document.URI)
		if _, err := o.indexOne(ctx, &change.Document); err != nil {
			if errors.Is(err, domain.ErrUnsupportedType) {
				logger.Debug("Skipping %s: %v", change.Document.URI, err)
			} else {
				logger.Warn("Failed to re-index %s: %v", change.Document.URI, err)
			}
		}

	case domain.ChangeDeleted:
		logger.Debug("Removing: %s", change.Document.URI)
		if err := o.removeByURI(ctx, change.Document.URI); err != nil {
			logger.Warn("Failed to remove %s: %v", change.Document.URI, err)
		}
	}
}

// removeByURI deletes a document, its chunks and its vectors.
// A URI that was never indexed is not an error.
func (o *IngestOrchestrator) removeByURI(ctx context.Context, uri string) error {
	doc, err := o.docStore.GetDocumentByURI(ctx, uri)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find document: %w", err)
	}

	chunks, err := o.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("get chunks: %w", err)
	}

	if o.vectorIndex != nil {
		for _, chunk := range chunks {
			if err := o.vectorIndex.Delete(ctx, chunk.ID); err != nil {
				logger.Debug("Failed to delete vector %s: %v", chunk.ID, err)
			}
		}
	}

	if err := o.docStore.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// begin marks a run in progress, refusing concurrent runs.
func (o *IngestOrchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return domain.ErrIngestInProgress
	}
	o.running = true
	return nil
}

// end clears the in-progress mark.
func (o *IngestOrchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.running = false
}
