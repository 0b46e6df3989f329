// Package cleaner provides a chunk content clean-up processor.
package cleaner

import (
	"context"
	"regexp"
	"strings"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

var (
	spaceRuns   = regexp.MustCompile(`[ \t]{2,}`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
)

// Processor tidies chunk content left behind by extraction tools.
// pdftotext -layout pads columns with runs of spaces and emits form-feed
// page breaks; both end up in embeddings unless stripped.
// It implements the PostProcessor interface.
type Processor struct{}

// New creates a new cleaner processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cleaner"
}

// Process cleans the content of each chunk and drops chunks that are empty
// afterwards. Positions are renumbered so they stay sequential.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	cleaned := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		chunk.Content = Clean(chunk.Content)
		if chunk.Content == "" {
			continue
		}
		chunk.Position = len(cleaned)
		cleaned = append(cleaned, chunk)
	}
	return cleaned, nil
}

// Clean collapses extraction artefacts in text: column padding, carriage
// returns, form feeds and excess blank lines.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
