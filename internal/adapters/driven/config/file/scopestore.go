package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

// Ensure ScopeStore implements the interface.
var _ driven.ScopeStore = (*ScopeStore)(nil)

// ScopeStore is a file-based implementation of driven.ScopeStore using JSON.
// The scope lives in a JSON file the operator can edit by hand; the scope
// command rewrites it from the indexed corpus.
type ScopeStore struct {
	mu       sync.Mutex
	filePath string
}

// scopeFile is the on-disk JSON shape of a knowledge scope.
type scopeFile struct {
	Topics      []string  `json:"topics"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewScopeStore creates a new JSON-based scope store.
// If configDir is empty, defaults to ~/.norma/knowledge_scope.json.
func NewScopeStore(configDir string) (*ScopeStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".norma")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ScopeStore{
		filePath: filepath.Join(configDir, "knowledge_scope.json"),
	}, nil
}

// Load reads the scope from disk. On first run, when no file exists yet,
// it persists and returns the default scope so the operator has a file
// to edit.
func (s *ScopeStore) Load() (domain.KnowledgeScope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			scope := domain.DefaultKnowledgeScope()
			if err := s.save(scope); err != nil {
				return domain.KnowledgeScope{}, err
			}
			return scope, nil
		}
		return domain.KnowledgeScope{}, err
	}

	var f scopeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.KnowledgeScope{}, err
	}

	return domain.KnowledgeScope{
		Topics:      f.Topics,
		Description: f.Description,
		Version:     f.Version,
		UpdatedAt:   f.UpdatedAt,
	}, nil
}

// Save persists the scope to disk.
func (s *ScopeStore) Save(scope domain.KnowledgeScope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(scope)
}

// save writes the scope to the JSON file (caller must hold lock).
func (s *ScopeStore) save(scope domain.KnowledgeScope) error {
	f := scopeFile{
		Topics:      scope.Topics,
		Description: scope.Description,
		Version:     scope.Version,
		UpdatedAt:   scope.UpdatedAt,
	}

	// Indented so the file stays hand-editable
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the scope file path.
func (s *ScopeStore) Path() string {
	return s.filePath
}
