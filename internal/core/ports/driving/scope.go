package driving

import (
	"context"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// ScopeService manages the knowledge scope.
type ScopeService interface {
	// Get returns the current scope, loading it on first use.
	Get() (domain.KnowledgeScope, error)

	// Reload re-reads the scope from storage, picking up manual edits.
	Reload() (domain.KnowledgeScope, error)

	// Generate derives scope topics from indexed content using the
	// LLM and persists the result.
	Generate(ctx context.Context) (domain.KnowledgeScope, error)

	// Save persists an operator-edited scope.
	Save(scope domain.KnowledgeScope) error
}
