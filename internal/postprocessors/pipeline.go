// Package postprocessors turns normalised documents into index-ready
// chunks through a configurable chain of stages.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

// Ensure Pipeline implements the port.
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs a document through its stages in order. The first
// stage sees nil chunks and is expected to create them; later stages
// refine what they receive. A failing stage aborts the document.
type Pipeline struct {
	stages []driven.PostProcessor
}

// NewPipeline builds a pipeline over the given stages.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Process feeds the document through every stage and returns the
// resulting chunks. A nil document is a caller bug, reported as
// domain.ErrInvalidInput rather than a panic deep inside a stage.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("process document: %w", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for i, stage := range p.stages {
		var err error
		chunks, err = stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i+1, stage.Name(), err)
		}
	}
	return chunks, nil
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return names
}
