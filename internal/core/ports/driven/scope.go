package driven

import "github.com/norma-labs/norma-cli/internal/core/domain"

// ScopeStore persists the knowledge scope.
// Backed by a JSON file the operator can edit by hand.
type ScopeStore interface {
	// Load reads the scope from storage. If no scope exists yet,
	// implementations create and return the default scope.
	Load() (domain.KnowledgeScope, error)

	// Save persists the scope to storage.
	Save(scope domain.KnowledgeScope) error

	// Path returns the scope file path.
	Path() string
}
