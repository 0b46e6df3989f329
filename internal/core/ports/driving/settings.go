package driving

import "github.com/norma-labs/norma-cli/internal/core/domain"

// SettingsService reads and updates the application configuration the
// answer pipeline runs with. The Set* methods persist immediately, so
// a wizard step that succeeds is never lost to a later crash.
type SettingsService interface {
	// Get returns the current settings.
	Get() (*domain.AppSettings, error)

	// Save persists the given settings wholesale.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider switches the LLM backend.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetEmbeddingProvider switches the embedding backend. Changing
	// the model usually means reindexing: vectors of different widths
	// cannot be searched together.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetRerankProvider switches the rerank backend.
	SetRerankProvider(provider domain.RerankProvider, model, apiKey string) error

	// SetRetrieval updates the retrieval tuning knobs.
	SetRetrieval(topK, rerankTopN int, minRelevance float64) error

	// Validate checks that the current settings can run the pipeline.
	Validate() error

	// GetDefaults returns the out-of-the-box settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig() error

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error
}
