package services

import (
	"fmt"
	"slices"
	"time"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/core/ports/driving"
)

var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys, grouped by TOML table.
//
//nolint:gosec // G101: key names, not credentials.
const (
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMRouterModel = "llm.router_model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"

	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"

	keyRerankProvider = "rerank.provider"
	keyRerankModel    = "rerank.model"
	keyRerankBaseURL  = "rerank.base_url"
	keyRerankAPIKey   = "rerank.api_key"

	keyRetrievalTopK    = "retrieval.top_k"
	keyRetrievalTopN    = "retrieval.rerank_top_n"
	keyRetrievalMinRel  = "retrieval.min_relevance"
	keyAnswerRouteTO    = "answer.route_timeout"
	keyAnswerRetrieveTO = "answer.retrieve_timeout"
	keyAnswerSynthTO    = "answer.synthesise_timeout"
	keyAnswerMaxTurns   = "answer.max_history_turns"
)

// ollamaDefaultURL is where a stock Ollama install listens.
const ollamaDefaultURL = "http://localhost:11434"

// SettingsService layers domain defaults over the config store and
// validates updates before persisting them.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a settings service. aiValidator may be
// nil, in which case the provider ping checks are skipped.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get assembles the current settings, filling unset keys from the
// domain defaults. Router model and base URLs have no default: empty
// is meaningful for both.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:    s.getAIProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			RouterModel: s.configStore.GetString(keyLLMRouterModel),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getAIProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		Rerank: domain.RerankSettings{
			Provider: s.getRerankProvider(keyRerankProvider, defaults.Rerank.Provider),
			Model:    s.getString(keyRerankModel, defaults.Rerank.Model),
			BaseURL:  s.configStore.GetString(keyRerankBaseURL),
			APIKey:   s.configStore.GetString(keyRerankAPIKey),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:         s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			RerankTopN:   s.getInt(keyRetrievalTopN, defaults.Retrieval.RerankTopN),
			MinRelevance: s.getFloat(keyRetrievalMinRel, defaults.Retrieval.MinRelevance),
		},
		Answer: domain.AnswerSettings{
			RouteTimeout:      s.getDuration(keyAnswerRouteTO, defaults.Answer.RouteTimeout),
			RetrieveTimeout:   s.getDuration(keyAnswerRetrieveTO, defaults.Answer.RetrieveTimeout),
			SynthesiseTimeout: s.getDuration(keyAnswerSynthTO, defaults.Answer.SynthesiseTimeout),
			MaxHistoryTurns:   s.getInt(keyAnswerMaxTurns, defaults.Answer.MaxHistoryTurns),
		},
	}, nil
}

// Save persists every setting. Empty API keys are skipped so a save
// that omits a key never wipes a stored one.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	pairs := []struct {
		key   string
		value any
	}{
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMRouterModel, settings.LLM.RouterModel},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedAPIKey, settings.Embedding.APIKey},
		{keyRerankProvider, settings.Rerank.Provider.String()},
		{keyRerankModel, settings.Rerank.Model},
		{keyRerankBaseURL, settings.Rerank.BaseURL},
		{keyRerankAPIKey, settings.Rerank.APIKey},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyRetrievalTopN, settings.Retrieval.RerankTopN},
		{keyRetrievalMinRel, settings.Retrieval.MinRelevance},
		{keyAnswerRouteTO, settings.Answer.RouteTimeout.String()},
		{keyAnswerRetrieveTO, settings.Answer.RetrieveTimeout.String()},
		{keyAnswerSynthTO, settings.Answer.SynthesiseTimeout.String()},
		{keyAnswerMaxTurns, settings.Answer.MaxHistoryTurns},
	}

	for _, p := range pairs {
		if isAPIKey(p.key) && p.value == "" {
			continue
		}
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}
	return nil
}

func isAPIKey(key string) bool {
	return key == keyLLMAPIKey || key == keyEmbedAPIKey || key == keyRerankAPIKey
}

// SetLLMProvider switches the LLM backend, filling in the provider's
// default model when none is given.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if m := pickModel(model, domain.DefaultLLMModels()[provider]); m != "" {
		settings.LLM.Model = m
	}
	settings.LLM.BaseURL = pickBaseURL(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetEmbeddingProvider switches the embedding backend.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	if m := pickModel(model, domain.DefaultEmbeddingModels()[provider]); m != "" {
		settings.Embedding.Model = m
	}
	settings.Embedding.BaseURL = pickBaseURL(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetRerankProvider switches the rerank backend.
func (s *SettingsService) SetRerankProvider(provider domain.RerankProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid rerank provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Rerank.Provider = provider
	if m := pickModel(model, domain.DefaultRerankModels()[provider]); m != "" {
		settings.Rerank.Model = m
	}
	settings.Rerank.APIKey = apiKey

	return s.Save(settings)
}

// SetRetrieval updates the retrieval tuning knobs after range checks.
func (s *SettingsService) SetRetrieval(topK, rerankTopN int, minRelevance float64) error {
	if topK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", topK)
	}
	if rerankTopN <= 0 {
		return fmt.Errorf("rerank_top_n must be positive, got %d", rerankTopN)
	}
	if rerankTopN > topK {
		return fmt.Errorf("rerank_top_n (%d) cannot exceed top_k (%d)", rerankTopN, topK)
	}
	if minRelevance < 0 || minRelevance > 1 {
		return fmt.Errorf("min_relevance must be in [0, 1], got %g", minRelevance)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Retrieval.TopK = topK
	settings.Retrieval.RerankTopN = rerankTopN
	settings.Retrieval.MinRelevance = minRelevance

	return s.Save(settings)
}

// Validate checks that the current settings can run the answer
// pipeline end to end.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Both the router and the synthesiser need an LLM.
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("answering requires an LLM provider to be configured")
	}
	// Retrieval needs embeddings.
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("retrieval requires an embedding provider to be configured")
	}
	if !settings.Rerank.IsConfigured() {
		return fmt.Errorf("reranking requires a rerank provider to be configured")
	}
	if settings.Retrieval.RerankTopN > settings.Retrieval.TopK {
		return fmt.Errorf("rerank_top_n (%d) cannot exceed top_k (%d)",
			settings.Retrieval.RerankTopN, settings.Retrieval.TopK)
	}
	return nil
}

// GetDefaults returns the out-of-the-box settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig pings the configured embedding provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig pings the configured LLM provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the post-processor pipeline configuration,
// layering any "pipeline.*" config keys over the defaults.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	cfg := domain.DefaultPipelineConfig()

	if stages := s.configStore.GetStringSlice("pipeline.processors"); len(stages) > 0 {
		cfg.Processors = stages
	}

	for _, name := range cfg.Processors {
		overrides := s.stageOverrides("pipeline." + name + ".")
		if len(overrides) == 0 {
			continue
		}
		if cfg.ProcessorConfigs == nil {
			cfg.ProcessorConfigs = make(map[string]map[string]any)
		}
		if cfg.ProcessorConfigs[name] == nil {
			cfg.ProcessorConfigs[name] = make(map[string]any)
		}
		for k, v := range overrides {
			cfg.ProcessorConfigs[name][k] = v
		}
	}
	return cfg
}

// stageOverrides collects the recognised per-stage settings stored
// under prefix.
func (s *SettingsService) stageOverrides(prefix string) map[string]any {
	overrides := make(map[string]any)
	for _, key := range []string{"chunk_size", "overlap", "max_length", "model"} {
		if val, ok := s.configStore.Get(prefix + key); ok {
			overrides[key] = val
		}
	}
	return overrides
}

// pickModel prefers the explicit model over the provider default.
func pickModel(explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	return fallback
}

// pickBaseURL keeps or defaults a local provider's URL and clears the
// URL for cloud providers, which use their fixed endpoints.
func pickBaseURL(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return ollamaDefaultURL
	}
	return current
}

// Typed reads with defaults. A stored zero for the int keys is
// indistinguishable from unset, which is fine: zero is invalid for
// every int setting here.

func (s *SettingsService) getString(key, fallback string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if val := s.configStore.GetInt(key); val != 0 {
		return val
	}
	return fallback
}

func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	// Zero is a valid relevance floor, so presence decides.
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, fallback time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}

func (s *SettingsService) getAIProvider(key string, fallback domain.AIProvider) domain.AIProvider {
	if p := domain.AIProvider(s.configStore.GetString(key)); p.IsValid() {
		return p
	}
	return fallback
}

func (s *SettingsService) getRerankProvider(key string, fallback domain.RerankProvider) domain.RerankProvider {
	if p := domain.RerankProvider(s.configStore.GetString(key)); p.IsValid() {
		return p
	}
	return fallback
}
