// Package ai assembles the embedding, LLM and rerank adapters from
// application settings.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/norma-labs/norma-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/norma-labs/norma-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/norma-labs/norma-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/norma-labs/norma-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/norma-labs/norma-cli/internal/adapters/driven/llm/openai"
	"github.com/norma-labs/norma-cli/internal/adapters/driven/rerank/cohere"
	"github.com/norma-labs/norma-cli/internal/adapters/driven/rerank/lexical"
	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

const pingTimeout = 5 * time.Second

// openRouterBaseURL is the OpenAI-compatible OpenRouter endpoint.
const openRouterBaseURL = "https://openrouter.ai/api/v1"

const wizardHint = "Run 'norma settings wizard' to fix"

// InitResult holds the services InitAIServices assembled.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	RouterLLM        driven.LLMService // Nil unless a dedicated router model is configured.
	Reranker         driven.Reranker
	Warnings         []string // Non-fatal issues that caused fallback.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
	if r.RouterLLM != nil {
		r.RouterLLM.Close()
	}
	if r.Reranker != nil {
		_ = r.Reranker.Close()
	}
}

// pingable is the slice of the service interfaces the reachability
// check needs.
type pingable interface {
	Ping(ctx context.Context) error
}

func checkReachable(svc pingable) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// InitAIServices creates and validates every AI service the answer
// pipeline needs. Services whose provider is not configured come back
// nil; the reranker and router model fall back with a warning rather
// than failing initialisation.
func InitAIServices(settings *domain.AppSettings) (*InitResult, error) {
	result := &InitResult{}

	llm, err := CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		return nil, err
	}
	result.LLMService = llm

	embed, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.EmbeddingService = embed

	// A dedicated router model is optional. If it cannot be created the
	// main model handles routing too.
	routerLLM, err := CreateRouterLLMService(&settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("router model unavailable, routing with %s: %v", settings.LLM.Model, err))
	} else {
		result.RouterLLM = routerLLM
	}

	reranker, err := CreateReranker(&settings.Rerank)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("reranker unavailable, falling back to local scoring: %v", err))
		reranker = lexical.NewReranker()
	}
	result.Reranker = reranker

	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and
// confirms it is reachable before handing it out.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, wizardHint)
	}
	if svc == nil {
		return nil, nil
	}

	if err := checkReachable(svc); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s",
			domain.ErrEmbeddingUnavailable, err, wizardHint)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and confirms it is
// reachable before handing it out.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, wizardHint)
	}
	if svc == nil {
		return nil, nil
	}

	if err := checkReachable(svc); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s",
			domain.ErrLLMUnavailable, err, wizardHint)
	}
	return svc, nil
}

// ValidateEmbeddingConfig checks a configuration by creating the
// service and pinging it once. The settings wizard uses it to verify
// credentials as they are entered.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()
	return checkReachable(svc)
}

// ValidateLLMConfig checks a configuration by creating the service and
// pinging it once.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()
	return checkReachable(svc)
}

// CreateEmbeddingService builds the embedding adapter for the
// configured provider, or nil when none is configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		dimensions := domain.EmbeddingDimensions()[settings.Model]
		if dimensions == 0 {
			dimensions = ollamaembed.DefaultDimensions
		}
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})

	case domain.AIProviderOpenRouter:
		// OpenRouter does not proxy embedding models.
		return nil, fmt.Errorf("openrouter does not support embeddings, use ollama or openai")

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService builds the LLM adapter for the configured provider,
// or nil when none is configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenRouter:
		// The gateway speaks the OpenAI chat completions API.
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = openRouterBaseURL
		}
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: baseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateRouterLLMService creates a second LLM service for intent
// classification when a dedicated router model is configured. Returns
// nil when no router model is set; routing then shares the main model.
func CreateRouterLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() || settings.RouterModel == "" {
		return nil, nil
	}

	routerSettings := *settings
	routerSettings.Model = settings.RouterModel
	return CreateLLMService(&routerSettings)
}

// CreateReranker builds the reranker for the configured provider.
// Defaults to the local lexical reranker when nothing is configured.
func CreateReranker(settings *domain.RerankSettings) (driven.Reranker, error) {
	if settings == nil || !settings.IsConfigured() {
		return lexical.NewReranker(), nil
	}

	switch settings.Provider {
	case domain.RerankProviderLocal:
		return lexical.NewReranker(), nil

	case domain.RerankProviderCohere:
		return cohere.NewReranker(cohere.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported rerank provider: %s", settings.Provider)
	}
}
