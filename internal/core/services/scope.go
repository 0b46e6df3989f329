package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/core/ports/driving"
	"github.com/norma-labs/norma-cli/internal/logger"
)

// Ensure ScopeService implements the interface.
var _ driving.ScopeService = (*ScopeService)(nil)

// Scope extraction parameters. Sampling is bounded so the prompt
// stays well inside any model's context window.
const (
	scopeSampleDocs  = 5
	scopeSampleChars = 8000
	scopeMaxTopics   = 20
)

// defaultScopeExtractPrompt derives scope topics from corpus samples.
// The %s placeholder is the sampled text.
const defaultScopeExtractPrompt = `Analyse the following text extracted from regulatory documents. Identify the 5-7 main topics or themes covered.

Reply ONLY with a JSON object holding a single key "scope" containing a list of short topic strings. No prose, no code fences.

TEXT TO ANALYSE:
%s`

// ScopeService manages the knowledge scope: what the corpus covers.
//
// The scope grounds intent classification and fills refusal messages.
// It lives in a JSON file the operator can edit; Generate rewrites it
// from indexed content using the LLM.
type ScopeService struct {
	store    driven.ScopeStore
	docStore driven.DocumentStore
	llm      driven.LLMService
	prompts  driven.PromptStore

	mu     sync.RWMutex
	cached *domain.KnowledgeScope
}

// NewScopeService creates a scope service.
// The docStore and llm are only needed for Generate and may be nil.
func NewScopeService(store driven.ScopeStore, docStore driven.DocumentStore, llm driven.LLMService) *ScopeService {
	return &ScopeService{
		store:    store,
		docStore: docStore,
		llm:      llm,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *ScopeService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Get returns the current scope, loading it on first use.
func (s *ScopeService) Get() (domain.KnowledgeScope, error) {
	s.mu.RLock()
	if s.cached != nil {
		scope := *s.cached
		s.mu.RUnlock()
		return scope, nil
	}
	s.mu.RUnlock()

	return s.Reload()
}

// Reload re-reads the scope from storage, picking up manual edits.
func (s *ScopeService) Reload() (domain.KnowledgeScope, error) {
	if s.store == nil {
		return domain.KnowledgeScope{}, domain.ErrScopeUnavailable
	}

	scope, err := s.store.Load()
	if err != nil {
		return domain.KnowledgeScope{}, fmt.Errorf("load scope: %w", err)
	}

	s.mu.Lock()
	s.cached = &scope
	s.mu.Unlock()

	logger.Debug("Knowledge scope loaded: %d topics", len(scope.Topics))
	return scope, nil
}

// Save persists an operator-edited scope.
func (s *ScopeService) Save(scope domain.KnowledgeScope) error {
	if s.store == nil {
		return domain.ErrScopeUnavailable
	}

	scope.UpdatedAt = time.Now()
	if err := s.store.Save(scope); err != nil {
		return fmt.Errorf("save scope: %w", err)
	}

	s.mu.Lock()
	s.cached = &scope
	s.mu.Unlock()

	return nil
}

// Generate derives scope topics from indexed content and persists them.
//
// A bounded sample of document content goes to the LLM with a
// JSON-only instruction; the reply must parse into a non-empty topic
// list or the existing scope is left untouched.
func (s *ScopeService) Generate(ctx context.Context) (domain.KnowledgeScope, error) {
	if s.llm == nil {
		return domain.KnowledgeScope{}, domain.ErrLLMUnavailable
	}
	if s.docStore == nil {
		return domain.KnowledgeScope{}, domain.ErrIndexUnavailable
	}

	logger.Section("Scope Generation")

	sample, err := s.sampleCorpus(ctx)
	if err != nil {
		return domain.KnowledgeScope{}, err
	}
	logger.Debug("Sampled %d chars of corpus content", len(sample))

	prompt := fmt.Sprintf(s.extractPrompt(), sample)
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   routeMaxTokens * 10,
		Temperature: 0,
	})
	if err != nil {
		return domain.KnowledgeScope{}, fmt.Errorf("extract scope: %w", err)
	}

	topics, err := parseScopeReply(raw)
	if err != nil {
		logger.Warn("Scope extraction returned unusable output: %v", err)
		return domain.KnowledgeScope{}, err
	}

	scope := domain.KnowledgeScope{
		Topics:      topics,
		Description: "Generated from indexed corpus",
		Version:     time.Now().Format("2006-01-02"),
		UpdatedAt:   time.Now(),
	}
	if err := s.Save(scope); err != nil {
		return domain.KnowledgeScope{}, err
	}

	logger.Info("Knowledge scope generated: %d topics", len(topics))
	return scope, nil
}

// sampleCorpus gathers bounded content from the first few documents.
func (s *ScopeService) sampleCorpus(ctx context.Context) (string, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return "", fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return "", domain.ErrIndexEmpty
	}
	if len(docs) > scopeSampleDocs {
		docs = docs[:scopeSampleDocs]
	}

	var b strings.Builder
	for _, doc := range docs {
		if b.Len() >= scopeSampleChars {
			break
		}
		b.WriteString(doc.Content)
		b.WriteString(" ")
	}

	sample := b.String()
	if len(sample) > scopeSampleChars {
		sample = sample[:scopeSampleChars]
	}
	return sample, nil
}

// extractPrompt returns the extraction template, preferring the store copy.
func (s *ScopeService) extractPrompt() string {
	if s.prompts != nil {
		if p, err := s.prompts.Load(driven.PromptScopeExtract); err == nil && p != "" {
			return p
		}
	}
	return defaultScopeExtractPrompt
}

// parseScopeReply parses the model's JSON into a topic list.
// Code fences are tolerated; anything else unparseable is an error.
func parseScopeReply(raw string) ([]string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var reply struct {
		Scope []string `json:"scope"`
	}
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, fmt.Errorf("parse scope reply: %w", err)
	}

	topics := make([]string, 0, len(reply.Scope))
	for _, topic := range reply.Scope {
		topic = strings.TrimSpace(topic)
		if topic != "" {
			topics = append(topics, topic)
		}
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("parse scope reply: %w", domain.ErrScopeUnavailable)
	}
	if len(topics) > scopeMaxTopics {
		topics = topics[:scopeMaxTopics]
	}

	return topics, nil
}
