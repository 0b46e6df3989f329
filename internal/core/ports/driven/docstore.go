package driven

import (
	"context"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// DocumentStore persists documents and their chunks. Retrieval reads
// from it to hydrate vector hits with text and provenance; only the
// ingest path writes. Lookups for missing IDs return
// domain.ErrNotFound.
type DocumentStore interface {
	// SaveDocument inserts or replaces a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores a document's chunks.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument looks a document up by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByURI looks a document up by source location, used
	// to detect re-ingested files.
	GetDocumentByURI(ctx context.Context, uri string) (*domain.Document, error)

	// GetChunks returns a document's chunks in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk looks a chunk up by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns every indexed document.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// CountDocuments returns how many documents are indexed.
	CountDocuments(ctx context.Context) (int, error)

	// CountChunks returns how many chunks are indexed.
	CountChunks(ctx context.Context) (int, error)
}
