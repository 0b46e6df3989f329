package cli

import (
	"context"
	"time"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driving"
	"github.com/norma-labs/norma-cli/internal/core/services"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	response  *domain.Response
	status    *domain.SystemStatus
	err       error
	lastQuery string
}

func (m *mockAnswerService) Ask(
	_ context.Context,
	_ *domain.Session,
	query string,
) (*domain.Response, error) {
	m.lastQuery = query
	return m.response, m.err
}

func (m *mockAnswerService) Status(_ context.Context) (*domain.SystemStatus, error) {
	return m.status, m.err
}

// mockIngestService is a mock implementation of driving.IngestOrchestrator.
type mockIngestService struct {
	result  *driving.IngestResult
	err     error
	lastDir string
}

func (m *mockIngestService) Ingest(_ context.Context, dir string) (*driving.IngestResult, error) {
	m.lastDir = dir
	return m.result, m.err
}

func (m *mockIngestService) Watch(_ context.Context, dir string) error {
	m.lastDir = dir
	return m.err
}

// mockScopeService is a mock implementation of driving.ScopeService.
type mockScopeService struct {
	scope       domain.KnowledgeScope
	err         error
	generateErr error
}

func (m *mockScopeService) Get() (domain.KnowledgeScope, error) {
	return m.scope, m.err
}

func (m *mockScopeService) Reload() (domain.KnowledgeScope, error) {
	return m.scope, m.err
}

func (m *mockScopeService) Generate(_ context.Context) (domain.KnowledgeScope, error) {
	if m.generateErr != nil {
		return domain.KnowledgeScope{}, m.generateErr
	}
	return m.scope, m.err
}

func (m *mockScopeService) Save(_ domain.KnowledgeScope) error {
	return m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	err         error
	validateErr error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	if m.err == nil {
		m.settings = *settings
	}
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.err == nil {
		m.settings.LLM.Provider = provider
		m.settings.LLM.Model = model
		m.settings.LLM.APIKey = apiKey
	}
	return m.err
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.err == nil {
		m.settings.Embedding.Provider = provider
		m.settings.Embedding.Model = model
		m.settings.Embedding.APIKey = apiKey
	}
	return m.err
}

func (m *mockSettingsService) SetRerankProvider(provider domain.RerankProvider, model, apiKey string) error {
	if m.err == nil {
		m.settings.Rerank.Provider = provider
		m.settings.Rerank.Model = model
		m.settings.Rerank.APIKey = apiKey
	}
	return m.err
}

func (m *mockSettingsService) SetRetrieval(topK, rerankTopN int, minRelevance float64) error {
	if m.err == nil {
		m.settings.Retrieval.TopK = topK
		m.settings.Retrieval.RerankTopN = rerankTopN
		m.settings.Retrieval.MinRelevance = minRelevance
	}
	return m.err
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.validateErr
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.validateErr
}

// setupTestServices swaps the package services for mocks with sensible
// answered-state defaults. The returned cleanup restores the originals.
func setupTestServices() func() {
	oldAnswer := answerService
	oldIngest := ingestOrchestrator
	oldScope := scopeService
	oldSettings := settingsService
	oldSessions := sessionManager

	answerService = &mockAnswerService{
		response: &domain.Response{
			Answer: "Annual reports are due within 90 days [doc-1].",
			Citations: []domain.Citation{
				{
					Marker:  1,
					ChunkID: "chunk-1",
					Source:  "/corpus/reporting.md",
					Title:   "Reporting Obligations",
					Excerpt: "within 90 days of year end",
				},
			},
			Intent:  domain.IntentRegulatory,
			Outcome: domain.OutcomeAnswered,
			Model:   "test-model",
		},
		status: &domain.SystemStatus{
			LLMAvailable:       true,
			RouterAvailable:    true,
			EmbeddingAvailable: true,
			IndexAvailable:     true,
			RerankerAvailable:  true,
			DocumentCount:      12,
			ScopeTopics:        2,
			State:              domain.StateOperational,
		},
	}
	ingestOrchestrator = &mockIngestService{
		result: &driving.IngestResult{
			Documents: 3,
			Chunks:    12,
			Duration:  420 * time.Millisecond,
		},
	}
	scopeService = &mockScopeService{
		scope: domain.KnowledgeScope{
			Topics:      []string{"reporting obligations", "licensing requirements"},
			Description: "Financial conduct regulations",
			Version:     "2",
		},
	}
	settingsService = &mockSettingsService{settings: domain.DefaultAppSettings()}
	sessionManager = services.NewSessionManager(0)

	return func() {
		answerService = oldAnswer
		ingestOrchestrator = oldIngest
		scopeService = oldScope
		settingsService = oldSettings
		sessionManager = oldSessions
	}
}
