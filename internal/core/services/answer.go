package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/core/ports/driving"
	"github.com/norma-labs/norma-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Fallback messages for turns the pipeline cannot complete normally.
// These are responses, not errors: callers always receive a
// well-formed Response no matter which stage failed.
const (
	msgEmptyQuery = "Please enter a question."

	msgNoEvidence = "The available documents do not contain enough information to answer this question. " +
		"Try rephrasing it, or ask about another aspect of the regulations."

	msgIndexEmpty = "No documents have been ingested yet. Run 'norma ingest' to index your corpus first."

	msgTechnicalFault = "Sorry, a technical problem occurred. Please try again."
)

// AnswerService orchestrates the question answering pipeline:
// route, then retrieve, rerank and synthesise for regulatory queries,
// or short-circuit to refusal/chitchat without touching the index.
//
// Every failure mode maps to a structured Response. The only errors
// Ask returns are argument errors; infrastructure faults surface as
// OutcomeDegraded responses carrying whatever intent was decided
// before the fault.
type AnswerService struct {
	router       *Router
	retriever    *Retriever
	reranker     driven.Reranker
	synthesiser  *Synthesiser
	conversation *Conversationalist
	scope        driving.ScopeService

	llm       driven.LLMService
	routerLLM driven.LLMService
	embedding driven.EmbeddingService
	docStore  driven.DocumentStore

	retrieval domain.RetrievalSettings
	behaviour domain.AnswerSettings
}

// NewAnswerService wires the pipeline stages together.
// routerLLM may equal llm when no separate routing model is configured.
func NewAnswerService(
	llm driven.LLMService,
	routerLLM driven.LLMService,
	embedding driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	docStore driven.DocumentStore,
	reranker driven.Reranker,
	scope driving.ScopeService,
	retrieval domain.RetrievalSettings,
	behaviour domain.AnswerSettings,
) *AnswerService {
	if routerLLM == nil {
		routerLLM = llm
	}
	if retrieval.TopK <= 0 {
		retrieval.TopK = domain.DefaultTopK
	}
	if retrieval.RerankTopN <= 0 {
		retrieval.RerankTopN = domain.DefaultRerankTopN
	}
	if behaviour.RouteTimeout <= 0 {
		behaviour.RouteTimeout = domain.DefaultRouteTimeout
	}
	if behaviour.RetrieveTimeout <= 0 {
		behaviour.RetrieveTimeout = domain.DefaultRetrieveTimeout
	}
	if behaviour.SynthesiseTimeout <= 0 {
		behaviour.SynthesiseTimeout = domain.DefaultSynthesiseTimeout
	}

	return &AnswerService{
		router:       NewRouter(routerLLM),
		retriever:    NewRetriever(embedding, vectorIndex, docStore),
		reranker:     reranker,
		synthesiser:  NewSynthesiser(llm),
		conversation: NewConversationalist(llm),
		scope:        scope,
		llm:          llm,
		routerLLM:    routerLLM,
		embedding:    embedding,
		docStore:     docStore,
		retrieval:    retrieval,
		behaviour:    behaviour,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.router.SetPromptStore(store)
	s.synthesiser.SetPromptStore(store)
	s.conversation.SetPromptStore(store)
}

// Ask runs one turn of the pipeline.
//
// The session provides the history snapshot for this turn, and the
// completed exchange is appended to it before returning.
func (s *AnswerService) Ask(ctx context.Context, session *domain.Session, query string) (*domain.Response, error) {
	if session == nil {
		return nil, domain.ErrInvalidInput
	}

	logger.Section("Answer Pipeline")

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, nothing to route")
		return &domain.Response{
			Answer:  msgEmptyQuery,
			Outcome: domain.OutcomeInvalid,
		}, nil
	}

	history := session.History()
	logger.Debug("Query: %q (history: %d turns)", query, len(history))

	resp := s.answer(ctx, query, history)

	session.Append(domain.RoleUser, query)
	session.Append(domain.RoleAssistant, resp.Answer)

	logger.Info("Turn complete: intent=%s outcome=%s citations=%d",
		resp.Intent, resp.Outcome, len(resp.Citations))

	return resp, nil
}

// answer runs route and dispatch for a non-empty query.
func (s *AnswerService) answer(ctx context.Context, query string, history []domain.Turn) *domain.Response {
	scope := s.currentScope()

	routeStart := time.Now()
	routeCtx, cancel := context.WithTimeout(ctx, s.behaviour.RouteTimeout)
	intent, err := s.router.Route(routeCtx, query, scope)
	cancel()
	logger.Timing("route", routeStart)
	if err != nil {
		logger.Warn("Routing failed, returning degraded response: %v", err)
		return &domain.Response{
			Answer:  msgTechnicalFault,
			Outcome: domain.OutcomeDegraded,
		}
	}

	switch intent {
	case domain.IntentChitchat:
		return s.chitchat(ctx, query, history)
	case domain.IntentOffTopic:
		return s.refuse(query, scope)
	default:
		return s.answerRegulatory(ctx, query, history, intent)
	}
}

// chitchat handles small talk without touching the index.
func (s *AnswerService) chitchat(ctx context.Context, query string, history []domain.Turn) *domain.Response {
	chatCtx, cancel := context.WithTimeout(ctx, s.behaviour.SynthesiseTimeout)
	defer cancel()

	reply, err := s.conversation.Chat(chatCtx, query, history)
	if err != nil {
		return &domain.Response{
			Answer:  msgTechnicalFault,
			Intent:  domain.IntentChitchat,
			Outcome: domain.OutcomeDegraded,
		}
	}

	return &domain.Response{
		Answer:  reply,
		Intent:  domain.IntentChitchat,
		Outcome: domain.OutcomeChitchat,
		Model:   s.llm.ModelName(),
	}
}

// refuse declines an off-topic query with the scope listing.
func (s *AnswerService) refuse(query string, scope domain.KnowledgeScope) *domain.Response {
	return &domain.Response{
		Answer:  s.conversation.Refuse(query, scope),
		Intent:  domain.IntentOffTopic,
		Outcome: domain.OutcomeRefused,
	}
}

// answerRegulatory runs retrieve, rerank and synthesise.
func (s *AnswerService) answerRegulatory(
	ctx context.Context, query string, history []domain.Turn, intent domain.Intent,
) *domain.Response {
	retrieveCtx, cancel := context.WithTimeout(ctx, s.behaviour.RetrieveTimeout)
	defer cancel()

	retrieveStart := time.Now()
	retrieved, err := s.retriever.Retrieve(retrieveCtx, query, s.retrieval.TopK)
	logger.Timing("retrieve", retrieveStart)
	if err != nil {
		return s.degradeRetrieval(err, intent)
	}
	logger.Debug("Retrieved %d chunks", len(retrieved))

	if s.reranker == nil {
		logger.Warn("No reranker configured, returning degraded response")
		return &domain.Response{
			Answer:  msgTechnicalFault,
			Intent:  intent,
			Outcome: domain.OutcomeDegraded,
		}
	}

	rerankStart := time.Now()
	ranked, err := s.reranker.Rerank(retrieveCtx, query, retrieved, s.retrieval.RerankTopN)
	logger.Timing("rerank", rerankStart)
	if err != nil {
		logger.Warn("Rerank failed, returning degraded response: %v", err)
		return &domain.Response{
			Answer:  msgTechnicalFault,
			Intent:  intent,
			Outcome: domain.OutcomeDegraded,
		}
	}

	kept := filterByRelevance(ranked, s.retrieval.MinRelevance)
	logger.Debug("Reranked to %d chunks, %d above relevance %.2f",
		len(ranked), len(kept), s.retrieval.MinRelevance)

	if len(kept) == 0 {
		logger.Info("No chunk cleared the relevance threshold, declining to answer")
		return &domain.Response{
			Answer:  msgNoEvidence,
			Intent:  intent,
			Outcome: domain.OutcomeNoEvidence,
		}
	}

	synthCtx, cancel := context.WithTimeout(ctx, s.behaviour.SynthesiseTimeout)
	defer cancel()

	synthStart := time.Now()
	answer, citations, err := s.synthesiser.Synthesise(synthCtx, query, history, kept)
	logger.Timing("synthesise", synthStart)
	if err != nil {
		logger.Warn("Synthesis failed, returning degraded response: %v", err)
		return &domain.Response{
			Answer:  msgTechnicalFault,
			Intent:  intent,
			Outcome: domain.OutcomeDegraded,
		}
	}

	return &domain.Response{
		Answer:    answer,
		Citations: citations,
		Intent:    intent,
		Outcome:   domain.OutcomeAnswered,
		Model:     s.llm.ModelName(),
	}
}

// degradeRetrieval maps retrieval failures to their fallback messages.
func (s *AnswerService) degradeRetrieval(err error, intent domain.Intent) *domain.Response {
	msg := msgTechnicalFault
	if errors.Is(err, domain.ErrIndexEmpty) {
		msg = msgIndexEmpty
	}
	logger.Warn("Retrieval failed, returning degraded response: %v", err)
	return &domain.Response{
		Answer:  msg,
		Intent:  intent,
		Outcome: domain.OutcomeDegraded,
	}
}

// currentScope loads the knowledge scope, falling back to an empty
// scope when the store is unreadable. Routing still works without
// topics; the prompt just lists none.
func (s *AnswerService) currentScope() domain.KnowledgeScope {
	if s.scope == nil {
		return domain.KnowledgeScope{}
	}
	scope, err := s.scope.Get()
	if err != nil {
		logger.Warn("Knowledge scope unavailable: %v", err)
		return domain.KnowledgeScope{}
	}
	return scope
}

// Status pings each pipeline component and reports availability.
func (s *AnswerService) Status(ctx context.Context) (*domain.SystemStatus, error) {
	status := &domain.SystemStatus{DocumentCount: -1}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.llm != nil {
		status.LLMAvailable = s.llm.Ping(pingCtx) == nil
	}
	if s.routerLLM != nil {
		if s.routerLLM == s.llm {
			status.RouterAvailable = status.LLMAvailable
		} else {
			status.RouterAvailable = s.routerLLM.Ping(pingCtx) == nil
		}
	}
	if s.embedding != nil {
		status.EmbeddingAvailable = s.embedding.Ping(pingCtx) == nil
	}
	if s.docStore != nil {
		if count, err := s.docStore.CountChunks(ctx); err == nil {
			status.DocumentCount = count
			status.IndexAvailable = true
		}
	}
	status.RerankerAvailable = s.reranker != nil

	if s.scope != nil {
		if scope, err := s.scope.Get(); err == nil {
			status.ScopeTopics = len(scope.Topics)
		}
	}

	status.State = domain.StateDegraded
	if status.LLMAvailable && status.RouterAvailable && status.EmbeddingAvailable &&
		status.IndexAvailable && status.RerankerAvailable {
		status.State = domain.StateOperational
	}

	return status, nil
}
