package driven

import (
	"context"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// Connector streams raw documents out of a corpus location. The only
// shipped implementation walks a local directory; the port exists so
// ingest logic never touches the filesystem directly.
type Connector interface {
	// Type identifies the connector kind in logs and ingest results.
	Type() string

	// Capabilities reports which optional operations work.
	Capabilities() ConnectorCapabilities

	// Validate checks the corpus location is usable before a run
	// starts, e.g. that the directory exists and is readable.
	Validate(ctx context.Context) error

	// FullSync streams every document in the corpus. Both channels
	// close when the walk finishes or the context is cancelled.
	FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch streams change events until the context is cancelled.
	// Callers must check SupportsWatch first.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases resources.
	Close() error
}

// ConnectorCapabilities reports a connector's optional operations.
type ConnectorCapabilities struct {
	// SupportsWatch means Watch delivers change events.
	SupportsWatch bool

	// SupportsValidation means Validate performs a real check rather
	// than always succeeding.
	SupportsValidation bool
}
