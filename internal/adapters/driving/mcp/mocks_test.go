package mcp

import (
	"context"

	"github.com/norma-labs/norma-cli/internal/core/domain"
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

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	chunks   []domain.RetrievedChunk
	err      error
	lastTopK int
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ string,
	topK int,
) ([]domain.RetrievedChunk, error) {
	m.lastTopK = topK
	return m.chunks, m.err
}

// mockScopeService is a mock implementation of driving.ScopeService.
type mockScopeService struct {
	scope domain.KnowledgeScope
	err   error
}

func (m *mockScopeService) Get() (domain.KnowledgeScope, error) {
	return m.scope, m.err
}

func (m *mockScopeService) Reload() (domain.KnowledgeScope, error) {
	return m.scope, m.err
}

func (m *mockScopeService) Generate(_ context.Context) (domain.KnowledgeScope, error) {
	return m.scope, m.err
}

func (m *mockScopeService) Save(_ domain.KnowledgeScope) error {
	return m.err
}
