// Package plaintext is the fallback normaliser: it takes a file's
// bytes as its text. CSV annexes, JSON extracts and anything without
// a more specific normaliser land here.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"application/json",
		"application/xml",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback when nothing more specific matches.
}

// Normalise wraps the raw bytes in a document without transforming
// them. The title comes from connector metadata when present, else
// from the file name.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()

	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:        uuid.New().String(),
			URI:       raw.URI,
			Title:     title(raw),
			Content:   string(raw.Content),
			Metadata:  metadata(raw),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}, nil
}

// title prefers a connector-supplied display name over the file name.
func title(raw *domain.RawDocument) string {
	if t, ok := raw.Metadata["title"].(string); ok && t != "" {
		return t
	}

	name := strings.TrimSuffix(filepath.Base(raw.URI), filepath.Ext(raw.URI))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}

// metadata copies the raw metadata and records the MIME type.
func metadata(raw *domain.RawDocument) map[string]any {
	md := make(map[string]any, len(raw.Metadata)+1)
	for k, v := range raw.Metadata {
		md[k] = v
	}
	md["mime_type"] = raw.MIMEType
	return md
}
