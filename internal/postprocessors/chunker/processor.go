// Package chunker splits document text into fixed-size overlapping
// chunks, the unit the vector index stores and retrieval returns.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// Defaults sized so a chunk holds a few paragraphs of regulation
// text: enough context to answer from, small enough to rerank and
// cite individually.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Processor is the chunking stage. Sizes are in runes, not bytes:
// regulation text is full of µg/kg, °C and accented names that must
// not be split mid-character.
type Processor struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Processor)

// WithChunkSize sets the chunk size in runes. Non-positive values are
// ignored.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.size = size
		}
	}
}

// WithOverlap sets how many runes consecutive chunks share. Negative
// values are ignored.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New builds a chunker. An overlap at or above the chunk size would
// make no forward progress, so it is clamped to a quarter of the size.
func New(opts ...Option) *Processor {
	p := &Processor{size: DefaultChunkSize, overlap: DefaultChunkOverlap}
	for _, opt := range opts {
		opt(p)
	}
	if p.overlap >= p.size {
		p.overlap = p.size / 4
	}
	return p
}

// Name returns the stage name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process cuts the document text into chunks. It ignores incoming
// chunks: the chunker is the stage that creates them.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	text := []rune(doc.Content)
	if len(text) == 0 {
		return nil, nil
	}

	step := p.size - p.overlap
	chunks := make([]domain.Chunk, 0, len(text)/step+1)

	for start := 0; start < len(text); start += step {
		end := min(start+p.size, len(text))
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    string(text[start:end]),
			Position:   len(chunks),
			Metadata:   map[string]any{"rune_start": start, "rune_end": end},
		})
	}
	return chunks, nil
}
