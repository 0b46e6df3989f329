package driven

import (
	"context"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// Normaliser extracts plain text from one family of file formats.
// The registry picks the highest-priority normaliser claiming the
// document's MIME type.
type Normaliser interface {
	// SupportedMIMETypes lists the MIME types this normaliser claims.
	SupportedMIMETypes() []string

	// Priority breaks ties between normalisers claiming the same
	// type; higher wins. Format-specific extractors sit around 50,
	// the plaintext fallback at 5.
	Priority() int

	// Normalise extracts a document from the raw bytes. It produces
	// text only; chunking happens in the post-processor pipeline.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult wraps the extracted document.
type NormaliseResult struct {
	Document domain.Document
}
