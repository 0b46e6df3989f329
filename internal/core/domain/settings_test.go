package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider(t *testing.T) {
	tests := []struct {
		provider    AIProvider
		valid       bool
		local       bool
		needsKey    bool
		description string
	}{
		{AIProviderOllama, true, true, false, "Ollama (local)"},
		{AIProviderOpenAI, true, false, true, "OpenAI (cloud)"},
		{AIProviderOpenRouter, true, false, true, "OpenRouter (cloud gateway)"},
		{AIProviderAnthropic, true, false, true, "Anthropic (cloud)"},
		{AIProvider(""), false, false, false, unknownDescription},
		{AIProvider("mistral"), false, false, false, unknownDescription},
	}

	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
			assert.Equal(t, tt.local, tt.provider.IsLocal())
			assert.Equal(t, tt.needsKey, tt.provider.RequiresAPIKey())
			assert.Equal(t, tt.description, tt.provider.Description())
			assert.Equal(t, string(tt.provider), tt.provider.String())
		})
	}
}

func TestRerankProvider(t *testing.T) {
	tests := []struct {
		provider    RerankProvider
		valid       bool
		needsKey    bool
		description string
	}{
		{RerankProviderLocal, true, false, "Local (lexical overlap, deterministic)"},
		{RerankProviderCohere, true, true, "Cohere (cloud rerank API)"},
		{RerankProvider(""), false, false, unknownDescription},
		{RerankProvider("voyage"), false, false, unknownDescription},
	}

	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
			assert.Equal(t, tt.needsKey, tt.provider.RequiresAPIKey())
			assert.Equal(t, tt.description, tt.provider.Description())
			assert.Equal(t, string(tt.provider), tt.provider.String())
		})
	}
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{
			"ollama needs no key",
			EmbeddingSettings{Provider: AIProviderOllama, Model: "nomic-embed-text", BaseURL: "http://localhost:11434"},
			true,
		},
		{
			"openai with key",
			EmbeddingSettings{Provider: AIProviderOpenAI, Model: "text-embedding-3-small", APIKey: "sk-test123"},
			true,
		},
		{
			"openai without key",
			EmbeddingSettings{Provider: AIProviderOpenAI, Model: "text-embedding-3-small"},
			false,
		},
		{
			"invalid provider",
			EmbeddingSettings{Provider: AIProvider("invalid"), Model: "some-model"},
			false,
		},
		{"zero value", EmbeddingSettings{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		want     bool
	}{
		{
			"ollama needs no key",
			LLMSettings{Provider: AIProviderOllama, Model: "llama3.2", BaseURL: "http://localhost:11434"},
			true,
		},
		{
			"openai with key",
			LLMSettings{Provider: AIProviderOpenAI, Model: "gpt-4o-mini", APIKey: "sk-test123"},
			true,
		},
		{
			"openrouter with key",
			LLMSettings{Provider: AIProviderOpenRouter, Model: "google/gemini-flash-1.5", APIKey: "sk-or-test123"},
			true,
		},
		{
			"anthropic with key",
			LLMSettings{Provider: AIProviderAnthropic, Model: "claude-3-5-sonnet-latest", APIKey: "sk-ant-test123"},
			true,
		},
		{
			"router model plays no part",
			LLMSettings{Provider: AIProviderOllama, Model: "llama3.2", RouterModel: "llama3.2:1b"},
			true,
		},
		{
			"openai without key",
			LLMSettings{Provider: AIProviderOpenAI, Model: "gpt-4o-mini"},
			false,
		},
		{
			"anthropic without key",
			LLMSettings{Provider: AIProviderAnthropic, Model: "claude-3-5-sonnet-latest"},
			false,
		},
		{
			"invalid provider",
			LLMSettings{Provider: AIProvider("invalid"), Model: "some-model"},
			false,
		},
		{"zero value", LLMSettings{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestRerankSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings RerankSettings
		want     bool
	}{
		{"local needs nothing", RerankSettings{Provider: RerankProviderLocal}, true},
		{
			"cohere with key",
			RerankSettings{Provider: RerankProviderCohere, Model: "rerank-v3.5", APIKey: "co-test123"},
			true,
		},
		{
			"cohere without key",
			RerankSettings{Provider: RerankProviderCohere, Model: "rerank-v3.5"},
			false,
		},
		{"invalid provider", RerankSettings{Provider: RerankProvider("invalid")}, false},
		{"zero value", RerankSettings{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	// Providers start unconfigured; the setup wizard fills them in.
	assert.Empty(t, settings.Embedding.Provider)
	assert.False(t, settings.Embedding.IsConfigured())
	assert.Empty(t, settings.LLM.Provider)
	assert.Empty(t, settings.LLM.RouterModel)
	assert.False(t, settings.LLM.IsConfigured())

	// Reranking defaults to the local backend, which needs no setup.
	assert.Equal(t, RerankProviderLocal, settings.Rerank.Provider)
	assert.True(t, settings.Rerank.IsConfigured())

	assert.Equal(t, DefaultTopK, settings.Retrieval.TopK)
	assert.Equal(t, DefaultRerankTopN, settings.Retrieval.RerankTopN)
	assert.InDelta(t, DefaultMinRelevance, settings.Retrieval.MinRelevance, 0.0001)

	assert.Equal(t, DefaultRouteTimeout, settings.Answer.RouteTimeout)
	assert.Equal(t, DefaultRetrieveTimeout, settings.Answer.RetrieveTimeout)
	assert.Equal(t, DefaultSynthesiseTimeout, settings.Answer.SynthesiseTimeout)
	assert.Equal(t, DefaultMaxTurns, settings.Answer.MaxHistoryTurns)
}

// The retrieval and timeout defaults are part of the tuning contract;
// changing them changes answer quality and latency for every user.
func TestDefaultTuningValues(t *testing.T) {
	assert.Equal(t, 20, DefaultTopK)
	assert.Equal(t, 8, DefaultRerankTopN)
	assert.InDelta(t, 0.1, DefaultMinRelevance, 0.0001)
	assert.Equal(t, 20*time.Second, DefaultRouteTimeout)
	assert.Equal(t, 30*time.Second, DefaultRetrieveTimeout)
	assert.Equal(t, 60*time.Second, DefaultSynthesiseTimeout)
}

func TestProviderCatalogues(t *testing.T) {
	t.Run("embedding", func(t *testing.T) {
		providers := AllEmbeddingProviders()
		require.Len(t, providers, 2)
		assert.Contains(t, providers, AIProviderOllama)
		assert.Contains(t, providers, AIProviderOpenAI)
		assert.NotContains(t, providers, AIProviderAnthropic)
	})

	t.Run("llm", func(t *testing.T) {
		providers := AllLLMProviders()
		require.Len(t, providers, 4)
		assert.Contains(t, providers, AIProviderOllama)
		assert.Contains(t, providers, AIProviderOpenAI)
		assert.Contains(t, providers, AIProviderOpenRouter)
		assert.Contains(t, providers, AIProviderAnthropic)
	})

	t.Run("rerank", func(t *testing.T) {
		providers := AllRerankProviders()
		require.Len(t, providers, 2)
		assert.Contains(t, providers, RerankProviderLocal)
		assert.Contains(t, providers, RerankProviderCohere)
	})
}

func TestDefaultModels(t *testing.T) {
	embedding := DefaultEmbeddingModels()
	assert.Equal(t, "nomic-embed-text", embedding[AIProviderOllama])
	assert.Equal(t, "text-embedding-3-small", embedding[AIProviderOpenAI])

	llm := DefaultLLMModels()
	assert.Equal(t, "llama3.2", llm[AIProviderOllama])
	assert.Equal(t, "gpt-4o-mini", llm[AIProviderOpenAI])
	assert.Equal(t, "google/gemini-flash-1.5", llm[AIProviderOpenRouter])
	assert.Equal(t, "claude-3-5-sonnet-latest", llm[AIProviderAnthropic])

	rerank := DefaultRerankModels()
	assert.Equal(t, "rerank-v3.5", rerank[RerankProviderCohere])
	_, hasLocal := rerank[RerankProviderLocal]
	assert.False(t, hasLocal, "the local backend has no model")
}

func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()

	assert.Equal(t, 768, dims["nomic-embed-text"])
	assert.Equal(t, 1024, dims["mxbai-embed-large"])
	assert.Equal(t, 384, dims["all-minilm"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
	assert.Equal(t, 3072, dims["text-embedding-3-large"])
	assert.Equal(t, 1536, dims["text-embedding-ada-002"])

	_, known := dims["unknown-model"]
	assert.False(t, known)
}

func TestAppSettings_FullyConfigured(t *testing.T) {
	settings := AppSettings{
		LLM: LLMSettings{
			Provider:    AIProviderOllama,
			Model:       "llama3.2",
			RouterModel: "llama3.2:1b",
			BaseURL:     "http://localhost:11434",
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		Rerank: RerankSettings{
			Provider: RerankProviderCohere,
			Model:    "rerank-v3.5",
			APIKey:   "co-key",
		},
		Retrieval: RetrievalSettings{
			TopK:         20,
			RerankTopN:   8,
			MinRelevance: 0.1,
		},
		Answer: AnswerSettings{
			RouteTimeout:      20 * time.Second,
			RetrieveTimeout:   30 * time.Second,
			SynthesiseTimeout: 60 * time.Second,
			MaxHistoryTurns:   20,
		},
	}

	assert.True(t, settings.LLM.IsConfigured())
	assert.True(t, settings.Embedding.IsConfigured())
	assert.True(t, settings.Rerank.IsConfigured())
	assert.Equal(t, "llama3.2:1b", settings.LLM.RouterModel)
	assert.Equal(t, 20, settings.Retrieval.TopK)
	assert.Equal(t, 20, settings.Answer.MaxHistoryTurns)
}

// Intent shares the unknown fallback with the provider types.
func TestUnknownDescriptionFallback(t *testing.T) {
	assert.Equal(t, unknownDescription, AIProvider("invalid").Description())
	assert.Equal(t, unknownDescription, RerankProvider("invalid").Description())
	assert.Equal(t, unknownDescription, Intent("invalid").Description())
}

func TestPipelineConfig(t *testing.T) {
	t.Run("per-stage lookup", func(t *testing.T) {
		config := PipelineConfig{
			Processors: []string{"chunker"},
			ProcessorConfigs: map[string]map[string]any{
				"chunker": {"chunk_size": 500, "overlap": 100},
			},
		}

		chunker := config.GetProcessorConfig("chunker")
		require.NotNil(t, chunker)
		assert.Equal(t, 500, chunker["chunk_size"])
		assert.Equal(t, 100, chunker["overlap"])

		assert.Nil(t, config.GetProcessorConfig("summariser"))
	})

	t.Run("zero value", func(t *testing.T) {
		config := PipelineConfig{}
		assert.Nil(t, config.GetProcessorConfig("chunker"))
	})

	t.Run("defaults", func(t *testing.T) {
		config := DefaultPipelineConfig()
		require.Equal(t, []string{"chunker", "cleaner"}, config.Processors)

		chunker := config.GetProcessorConfig("chunker")
		require.NotNil(t, chunker)
		assert.Equal(t, 1000, chunker["chunk_size"])
		assert.Equal(t, 200, chunker["overlap"])
	})
}
