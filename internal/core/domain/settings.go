package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service backend for embeddings or LLM
// calls.
type AIProvider string

const (
	AIProviderOllama     AIProvider = "ollama"     // local Ollama instance
	AIProviderOpenAI     AIProvider = "openai"     // OpenAI cloud API
	AIProviderOpenRouter AIProvider = "openrouter" // OpenRouter gateway, OpenAI-compatible
	AIProviderAnthropic  AIProvider = "anthropic"  // Anthropic cloud API
)

var aiProviderDescriptions = map[AIProvider]string{
	AIProviderOllama:     "Ollama (local)",
	AIProviderOpenAI:     "OpenAI (cloud)",
	AIProviderOpenRouter: "OpenRouter (cloud gateway)",
	AIProviderAnthropic:  "Anthropic (cloud)",
}

// IsValid reports whether the provider is recognised.
func (p AIProvider) IsValid() bool {
	_, ok := aiProviderDescriptions[p]
	return ok
}

// RequiresAPIKey reports whether the provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p.IsValid() && !p.IsLocal()
}

// IsLocal reports whether the provider runs on this machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

func (p AIProvider) String() string {
	return string(p)
}

// Description returns a label for settings menus.
func (p AIProvider) Description() string {
	if desc, ok := aiProviderDescriptions[p]; ok {
		return desc
	}
	return unknownDescription
}

// RerankProvider identifies a reranking backend.
type RerankProvider string

const (
	// RerankProviderLocal scores chunks with lexical overlap.
	// Deterministic and needs no network or API key.
	RerankProviderLocal RerankProvider = "local"

	// RerankProviderCohere uses the Cohere rerank API.
	RerankProviderCohere RerankProvider = "cohere"
)

// IsValid reports whether the rerank provider is recognised.
func (p RerankProvider) IsValid() bool {
	return p == RerankProviderLocal || p == RerankProviderCohere
}

// RequiresAPIKey reports whether the provider needs an API key.
func (p RerankProvider) RequiresAPIKey() bool {
	return p == RerankProviderCohere
}

func (p RerankProvider) String() string {
	return string(p)
}

// Description returns a label for settings menus.
func (p RerankProvider) Description() string {
	switch p {
	case RerankProviderLocal:
		return "Local (lexical overlap, deterministic)"
	case RerankProviderCohere:
		return "Cohere (cloud rerank API)"
	default:
		return unknownDescription
	}
}

// configured is the shared readiness rule: the provider must be known,
// and cloud providers must have a key.
func configured(valid, needsKey bool, apiKey string) bool {
	if !valid {
		return false
	}
	return !needsKey || apiKey != ""
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string // endpoint override, mainly for Ollama
	APIKey   string
}

// IsConfigured reports whether embeddings are ready to use.
func (e EmbeddingSettings) IsConfigured() bool {
	return configured(e.Provider.IsValid(), e.Provider.RequiresAPIKey(), e.APIKey)
}

// LLMSettings configures the LLM provider.
type LLMSettings struct {
	Provider AIProvider

	// Model is used for answer synthesis and chitchat.
	Model string

	// RouterModel optionally names a smaller, faster model for intent
	// classification. Empty means Model routes too.
	RouterModel string

	BaseURL string
	APIKey  string
}

// IsConfigured reports whether the LLM is ready to use.
func (l LLMSettings) IsConfigured() bool {
	return configured(l.Provider.IsValid(), l.Provider.RequiresAPIKey(), l.APIKey)
}

// RerankSettings configures the reranker.
type RerankSettings struct {
	Provider RerankProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured reports whether the reranker is ready to use.
func (r RerankSettings) IsConfigured() bool {
	return configured(r.Provider.IsValid(), r.Provider.RequiresAPIKey(), r.APIKey)
}

// RetrievalSettings holds the operator-tunable retrieval knobs.
type RetrievalSettings struct {
	// TopK is how many chunks vector retrieval returns.
	TopK int

	// RerankTopN caps how many chunks survive reranking.
	RerankTopN int

	// MinRelevance is the rerank score floor. Chunks scoring below it
	// are discarded; if nothing clears it, the pipeline declines to
	// answer rather than guess.
	MinRelevance float64
}

// AnswerSettings bounds the answer pipeline's stages.
type AnswerSettings struct {
	// RouteTimeout bounds the intent classification call.
	RouteTimeout time.Duration

	// RetrieveTimeout bounds embedding plus index search plus rerank.
	RetrieveTimeout time.Duration

	// SynthesiseTimeout bounds the answer generation call.
	SynthesiseTimeout time.Duration

	// MaxHistoryTurns caps session history kept per conversation.
	MaxHistoryTurns int
}

// AppSettings is the full application configuration.
type AppSettings struct {
	LLM       LLMSettings
	Embedding EmbeddingSettings
	Rerank    RerankSettings
	Retrieval RetrievalSettings
	Answer    AnswerSettings
}

// Default retrieval and pipeline values.
const (
	// DefaultTopK is how many chunks retrieval returns before reranking.
	DefaultTopK = 20

	// DefaultRerankTopN is how many chunks survive reranking.
	DefaultRerankTopN = 8

	// DefaultMinRelevance is the rerank score floor on the [0, 1]
	// scale all rerank adapters produce.
	DefaultMinRelevance = 0.1

	// DefaultRouteTimeout bounds the small classification call.
	DefaultRouteTimeout = 20 * time.Second

	// DefaultRetrieveTimeout bounds embedding and index search.
	DefaultRetrieveTimeout = 30 * time.Second

	// DefaultSynthesiseTimeout bounds answer generation.
	DefaultSynthesiseTimeout = 60 * time.Second
)

// DefaultAppSettings returns the starting configuration. Embedding and
// LLM providers stay unconfigured until the operator runs the settings
// wizard; the local reranker works out of the box.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Rerank: RerankSettings{
			Provider: RerankProviderLocal,
		},
		Retrieval: RetrievalSettings{
			TopK:         DefaultTopK,
			RerankTopN:   DefaultRerankTopN,
			MinRelevance: DefaultMinRelevance,
		},
		Answer: AnswerSettings{
			RouteTimeout:      DefaultRouteTimeout,
			RetrieveTimeout:   DefaultRetrieveTimeout,
			SynthesiseTimeout: DefaultSynthesiseTimeout,
			MaxHistoryTurns:   DefaultMaxTurns,
		},
	}
}

// AllEmbeddingProviders returns the providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// AllLLMProviders returns the providers that support chat and
// generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderOpenRouter, AIProviderAnthropic}
}

// AllRerankProviders returns all rerank backends.
func AllRerankProviders() []RerankProvider {
	return []RerankProvider{RerankProviderLocal, RerankProviderCohere}
}

// DefaultEmbeddingModels maps each embedding provider to its default
// model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels maps each LLM provider to its default model.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:     "llama3.2",
		AIProviderOpenAI:     "gpt-4o-mini",
		AIProviderOpenRouter: "google/gemini-flash-1.5",
		AIProviderAnthropic:  "claude-3-5-sonnet-latest",
	}
}

// DefaultRerankModels maps each rerank provider to its default model.
// The local reranker has no model.
func DefaultRerankModels() map[RerankProvider]string {
	return map[RerankProvider]string{
		RerankProviderCohere: "rerank-v3.5",
	}
}

// EmbeddingDimensions returns the vector width of known embedding
// models. Mixing widths in one index would make old and new chunks
// mutually unsearchable, so the settings wizard warns on change.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,

		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig names the post-processor stages to run, in order,
// with per-stage settings keyed by stage name.
type PipelineConfig struct {
	Processors       []string
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns one stage's settings, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig runs fixed-size chunking followed by
// extraction-artefact clean-up.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker", "cleaner"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": 1000,
				"overlap":    200,
			},
		},
	}
}
