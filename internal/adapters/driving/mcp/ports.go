package mcp

import (
	"github.com/norma-labs/norma-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer runs the question answering pipeline.
	Answer driving.AnswerService

	// Retrieval provides direct similarity search over the corpus.
	Retrieval driving.RetrievalService

	// Scope exposes the knowledge scope.
	Scope driving.ScopeService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Retrieval and Scope are optional; their surfaces degrade.
	return nil
}
