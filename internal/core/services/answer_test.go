package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norma-labs/norma-cli/internal/adapters/driven/storage/memory"
	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	generateResult string
	generateErr    error
	chatResult     string
	chatErr        error

	generateCalls int
	chatCalls     int
	lastPrompt    string
	lastMessages  []driven.ChatMessage
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.generateCalls++
	m.lastPrompt = prompt
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.generateResult, nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.chatCalls++
	m.lastMessages = messages
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.chatResult, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error

	embedCalls int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits      []driven.VectorHit
	searchErr error

	searchCalls int
}

func (m *mockVectorIndex) Add(_ context.Context, _ string, _ []float32) error {
	return nil
}

func (m *mockVectorIndex) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Count(_ context.Context) (int, error) {
	return len(m.hits), nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockReranker implements driven.Reranker for testing.
// Scores come from a fixed map so tests are deterministic.
type mockReranker struct {
	scores    map[string]float64
	rerankErr error

	rerankCalls int
}

func (m *mockReranker) Rerank(
	_ context.Context, _ string, chunks []domain.RetrievedChunk, topN int,
) ([]domain.RankedChunk, error) {
	m.rerankCalls++
	if m.rerankErr != nil {
		return nil, m.rerankErr
	}

	ranked := make([]domain.RankedChunk, 0, len(chunks))
	for _, c := range chunks {
		ranked = append(ranked, domain.RankedChunk{
			RetrievedChunk: c,
			Relevance:      m.scores[c.Chunk.ID],
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

func (m *mockReranker) ModelName() string {
	return "mock-rerank"
}

func (m *mockReranker) Close() error {
	return nil
}

// mockScopeService implements driving.ScopeService for testing.
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

// --- Test helpers ---

func setupAnswerDocStore(t *testing.T) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore()
	ctx := context.Background()
	now := time.Now()

	docs := []struct {
		id      string
		title   string
		uri     string
		content string
	}{
		{"doc-1", "Additives Regulation", "file:///corpus/additives.pdf",
			"Annex II lists the food additives approved for use in foodstuffs."},
		{"doc-2", "Labelling Regulation", "file:///corpus/labelling.pdf",
			"Allergen information must be emphasised within the list of ingredients."},
		{"doc-3", "Hygiene Regulation", "file:///corpus/hygiene.pdf",
			"Food business operators must implement procedures based on HACCP principles."},
	}
	for _, d := range docs {
		doc := &domain.Document{
			ID:        d.id,
			URI:       d.uri,
			Title:     d.title,
			Content:   d.content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, store.SaveDocument(ctx, doc))
		require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
			{ID: "chunk-" + d.id, DocumentID: d.id, Content: d.content, Position: 0},
		}))
	}
	return store
}

func answerVectorHits() []driven.VectorHit {
	return []driven.VectorHit{
		{ChunkID: "chunk-doc-1", Similarity: 0.92},
		{ChunkID: "chunk-doc-2", Similarity: 0.81},
		{ChunkID: "chunk-doc-3", Similarity: 0.67},
	}
}

func answerRerankScores() map[string]float64 {
	return map[string]float64{
		"chunk-doc-1": 0.9,
		"chunk-doc-2": 0.6,
		"chunk-doc-3": 0.3,
	}
}

func testScope() *mockScopeService {
	return &mockScopeService{
		scope: domain.KnowledgeScope{
			Topics:  []string{"food additives", "allergen labelling", "food hygiene"},
			Version: "test",
		},
	}
}

// --- Tests ---

func TestNewAnswerService_AppliesDefaults(t *testing.T) {
	llm := &mockLLMService{}
	service := NewAnswerService(llm, nil, nil, nil, nil, nil, nil,
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	require.NotNil(t, service)
	assert.Equal(t, domain.DefaultTopK, service.retrieval.TopK)
	assert.Equal(t, domain.DefaultRerankTopN, service.retrieval.RerankTopN)
	assert.Equal(t, domain.DefaultRouteTimeout, service.behaviour.RouteTimeout)
	// Without a dedicated routing model the main LLM routes too.
	assert.Equal(t, driven.LLMService(llm), service.routerLLM)
}

func TestAnswerService_Ask_NilSession(t *testing.T) {
	service := NewAnswerService(&mockLLMService{}, nil, nil, nil, nil, nil, nil,
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	_, err := service.Ask(context.Background(), nil, "anything")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnswerService_Ask_EmptyQuery(t *testing.T) {
	router := &mockLLMService{generateResult: "regulatory"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	service := NewAnswerService(&mockLLMService{}, router, embedding, nil, nil, nil, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "   \t\n ")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInvalid, resp.Outcome)
	assert.Equal(t, "Please enter a question.", resp.Answer)
	// An unusable query must never reach the classifier or the index.
	assert.Zero(t, router.generateCalls)
	assert.Zero(t, embedding.embedCalls)
}

func TestAnswerService_Ask_Chitchat_NeverTouchesIndex(t *testing.T) {
	llm := &mockLLMService{chatResult: "Hello! Ask me about your regulatory documents."}
	router := &mockLLMService{generateResult: "chitchat"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{hits: answerVectorHits()}
	reranker := &mockReranker{scores: answerRerankScores()}
	store := setupAnswerDocStore(t)

	service := NewAnswerService(llm, router, embedding, vectors, store, reranker, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "hi there!")

	require.NoError(t, err)
	assert.Equal(t, domain.IntentChitchat, resp.Intent)
	assert.Equal(t, domain.OutcomeChitchat, resp.Outcome)
	assert.Equal(t, llm.chatResult, resp.Answer)
	assert.Equal(t, "mock-llm", resp.Model)
	assert.Empty(t, resp.Citations)

	// Small talk must not consult the corpus in any form.
	assert.Zero(t, embedding.embedCalls)
	assert.Zero(t, vectors.searchCalls)
	assert.Zero(t, reranker.rerankCalls)
}

func TestAnswerService_Ask_OffTopic_RefusesWithScope(t *testing.T) {
	llm := &mockLLMService{generateResult: "should never be used"}
	router := &mockLLMService{generateResult: "off_topic"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{hits: answerVectorHits()}
	service := NewAnswerService(llm, router, embedding, vectors, setupAnswerDocStore(t),
		&mockReranker{}, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "who won the World Cup?")

	require.NoError(t, err)
	assert.Equal(t, domain.IntentOffTopic, resp.Intent)
	assert.Equal(t, domain.OutcomeRefused, resp.Outcome)
	assert.Contains(t, resp.Answer, "who won the World Cup?")
	assert.Contains(t, resp.Answer, "food additives")
	assert.Empty(t, resp.Citations)

	// Refusals are templated: no retrieval and no generation beyond routing.
	assert.Zero(t, embedding.embedCalls)
	assert.Zero(t, vectors.searchCalls)
	assert.Zero(t, llm.generateCalls)
	assert.Zero(t, llm.chatCalls)
	assert.Equal(t, 1, router.generateCalls)
}

func TestAnswerService_Ask_UnknownLabel_FailsClosed(t *testing.T) {
	router := &mockLLMService{generateResult: "banana"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	service := NewAnswerService(&mockLLMService{}, router, embedding, nil, nil, nil, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "hmm?")

	require.NoError(t, err)
	assert.Equal(t, domain.IntentOffTopic, resp.Intent)
	assert.Equal(t, domain.OutcomeRefused, resp.Outcome)
	assert.Zero(t, embedding.embedCalls)
}

func TestAnswerService_Ask_Regulatory_AnswersWithCitations(t *testing.T) {
	llm := &mockLLMService{
		generateResult: "Approved additives are listed in Annex II [doc-1]. " +
			"Allergens must be emphasised in the ingredient list [doc-2].",
	}
	router := &mockLLMService{generateResult: "regulatory"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{hits: answerVectorHits()}
	reranker := &mockReranker{scores: answerRerankScores()}

	service := NewAnswerService(llm, router, embedding, vectors, setupAnswerDocStore(t),
		reranker, testScope(),
		domain.RetrievalSettings{MinRelevance: domain.DefaultMinRelevance}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"),
		"which additives are approved?")

	require.NoError(t, err)
	assert.Equal(t, domain.IntentRegulatory, resp.Intent)
	assert.Equal(t, domain.OutcomeAnswered, resp.Outcome)
	assert.Equal(t, "mock-llm", resp.Model)
	require.Len(t, resp.Citations, 2)

	// Citations line up with the markers left in the answer, in order.
	assert.Equal(t, 1, resp.Citations[0].Marker)
	assert.Equal(t, "chunk-doc-1", resp.Citations[0].ChunkID)
	assert.Equal(t, "file:///corpus/additives.pdf", resp.Citations[0].Source)
	assert.Equal(t, 2, resp.Citations[1].Marker)
	assert.Equal(t, "chunk-doc-2", resp.Citations[1].ChunkID)
	for _, c := range resp.Citations {
		assert.Contains(t, resp.Answer, "["+c.Label()+"]")
		assert.NotEmpty(t, c.Excerpt)
	}
}

func TestAnswerService_Ask_InventedCitationsStripped(t *testing.T) {
	llm := &mockLLMService{
		generateResult: "The limit is 5 mg/kg [doc-1]. Storage rules apply [doc-9].",
	}
	router := &mockLLMService{generateResult: "regulatory"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{hits: answerVectorHits()}
	reranker := &mockReranker{scores: answerRerankScores()}

	service := NewAnswerService(llm, router, embedding, vectors, setupAnswerDocStore(t),
		reranker, testScope(),
		domain.RetrievalSettings{MinRelevance: domain.DefaultMinRelevance}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "what is the limit?")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAnswered, resp.Outcome)
	require.Len(t, resp.Citations, 1)
	assert.Equal(t, 1, resp.Citations[0].Marker)
	assert.Contains(t, resp.Answer, "[doc-1]")
	assert.NotContains(t, resp.Answer, "doc-9")
}

func TestAnswerService_Ask_RouterError_Degrades(t *testing.T) {
	router := &mockLLMService{generateErr: errors.New("connection refused")}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	service := NewAnswerService(&mockLLMService{}, router, embedding, nil, nil, nil, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "what about additives?")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDegraded, resp.Outcome)
	assert.Equal(t, msgTechnicalFault, resp.Answer)
	assert.Empty(t, resp.Intent)
	assert.Zero(t, embedding.embedCalls)
}

func TestAnswerService_Ask_IndexError_DegradesKeepingIntent(t *testing.T) {
	router := &mockLLMService{generateResult: "regulatory"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{searchErr: errors.New("index corrupted")}

	service := NewAnswerService(&mockLLMService{}, router, embedding, vectors,
		setupAnswerDocStore(t), &mockReranker{}, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "which additives?")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDegraded, resp.Outcome)
	// The routing decision survives the index fault.
	assert.Equal(t, domain.IntentRegulatory, resp.Intent)
	assert.Equal(t, msgTechnicalFault, resp.Answer)
}

func TestAnswerService_Ask_EmptyIndex_SuggestsIngest(t *testing.T) {
	router := &mockLLMService{generateResult: "regulatory"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{} // no hits

	service := NewAnswerService(&mockLLMService{}, router, embedding, vectors,
		setupAnswerDocStore(t), &mockReranker{}, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "which additives?")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDegraded, resp.Outcome)
	assert.Equal(t, domain.IntentRegulatory, resp.Intent)
	assert.Contains(t, resp.Answer, "norma ingest")
}

func TestAnswerService_Ask_NothingRelevant_DeclinesToAnswer(t *testing.T) {
	llm := &mockLLMService{generateResult: "should never be used"}
	router := &mockLLMService{generateResult: "regulatory"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{hits: answerVectorHits()}
	reranker := &mockReranker{scores: map[string]float64{
		"chunk-doc-1": 0.05,
		"chunk-doc-2": 0.02,
		"chunk-doc-3": 0.01,
	}}

	service := NewAnswerService(llm, router, embedding, vectors, setupAnswerDocStore(t),
		reranker, testScope(),
		domain.RetrievalSettings{MinRelevance: domain.DefaultMinRelevance}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"),
		"what does the corpus say about submarines?")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoEvidence, resp.Outcome)
	assert.Equal(t, domain.IntentRegulatory, resp.Intent)
	assert.Equal(t, msgNoEvidence, resp.Answer)
	assert.Empty(t, resp.Citations)
	// Synthesis must not run without evidence.
	assert.Zero(t, llm.generateCalls)
}

func TestAnswerService_Ask_RerankError_Degrades(t *testing.T) {
	router := &mockLLMService{generateResult: "regulatory"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{hits: answerVectorHits()}
	reranker := &mockReranker{rerankErr: errors.New("rerank api down")}

	service := NewAnswerService(&mockLLMService{}, router, embedding, vectors,
		setupAnswerDocStore(t), reranker, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "which additives?")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDegraded, resp.Outcome)
	assert.Equal(t, domain.IntentRegulatory, resp.Intent)
}

func TestAnswerService_Ask_SynthesisError_Degrades(t *testing.T) {
	llm := &mockLLMService{generateErr: errors.New("model overloaded")}
	router := &mockLLMService{generateResult: "regulatory"}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	vectors := &mockVectorIndex{hits: answerVectorHits()}
	reranker := &mockReranker{scores: answerRerankScores()}

	service := NewAnswerService(llm, router, embedding, vectors, setupAnswerDocStore(t),
		reranker, testScope(),
		domain.RetrievalSettings{MinRelevance: domain.DefaultMinRelevance}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "which additives?")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDegraded, resp.Outcome)
	assert.Equal(t, domain.IntentRegulatory, resp.Intent)
	assert.Equal(t, msgTechnicalFault, resp.Answer)
}

func TestAnswerService_Ask_AppendsHistory(t *testing.T) {
	llm := &mockLLMService{chatResult: "Hello!"}
	router := &mockLLMService{generateResult: "chitchat"}
	service := NewAnswerService(llm, router, nil, nil, nil, nil, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	session := domain.NewSession("s1")
	resp, err := service.Ask(context.Background(), session, "hi")

	require.NoError(t, err)
	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, resp.Answer, history[1].Content)
}

func TestAnswerService_Ask_ChitchatSeesHistory(t *testing.T) {
	llm := &mockLLMService{chatResult: "You asked about additives."}
	router := &mockLLMService{generateResult: "chitchat"}
	service := NewAnswerService(llm, router, nil, nil, nil, nil, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	session := domain.NewSession("s1")
	session.Append(domain.RoleUser, "which additives are approved?")
	session.Append(domain.RoleAssistant, "Annex II lists them.")

	_, err := service.Ask(context.Background(), session, "what did I just ask?")

	require.NoError(t, err)
	// System prompt, two history turns, then the current query.
	require.Len(t, llm.lastMessages, 4)
	assert.Equal(t, "system", llm.lastMessages[0].Role)
	assert.Equal(t, "which additives are approved?", llm.lastMessages[1].Content)
	assert.Equal(t, "what did I just ask?", llm.lastMessages[3].Content)
}

func TestAnswerService_Ask_Deterministic(t *testing.T) {
	newService := func() *AnswerService {
		return NewAnswerService(
			&mockLLMService{generateResult: "Annex II applies [doc-1]."},
			&mockLLMService{generateResult: "regulatory"},
			&mockEmbeddingService{embedding: make([]float32, 4)},
			&mockVectorIndex{hits: answerVectorHits()},
			setupAnswerDocStore(t),
			&mockReranker{scores: answerRerankScores()},
			testScope(),
			domain.RetrievalSettings{MinRelevance: domain.DefaultMinRelevance},
			domain.AnswerSettings{},
		)
	}

	first, err := newService().Ask(context.Background(), domain.NewSession("a"), "which additives?")
	require.NoError(t, err)
	second, err := newService().Ask(context.Background(), domain.NewSession("b"), "which additives?")
	require.NoError(t, err)

	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Citations, second.Citations)
}

func TestAnswerService_Ask_ScopeUnavailable_StillRoutes(t *testing.T) {
	router := &mockLLMService{generateResult: "chitchat"}
	llm := &mockLLMService{chatResult: "Hi!"}
	scope := &mockScopeService{err: errors.New("scope file unreadable")}
	service := NewAnswerService(llm, router, nil, nil, nil, nil, scope,
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	resp, err := service.Ask(context.Background(), domain.NewSession("s1"), "hello")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeChitchat, resp.Outcome)
}

func TestAnswerService_Status(t *testing.T) {
	llm := &mockLLMService{}
	embedding := &mockEmbeddingService{embedding: make([]float32, 4)}
	store := setupAnswerDocStore(t)
	service := NewAnswerService(llm, nil, embedding, &mockVectorIndex{}, store,
		&mockReranker{}, testScope(),
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	status, err := service.Status(context.Background())

	require.NoError(t, err)
	assert.True(t, status.LLMAvailable)
	assert.True(t, status.RouterAvailable)
	assert.True(t, status.EmbeddingAvailable)
	assert.True(t, status.IndexAvailable)
	assert.True(t, status.RerankerAvailable)
	assert.Equal(t, 3, status.DocumentCount)
	assert.Equal(t, 3, status.ScopeTopics)
	assert.Equal(t, domain.StateOperational, status.State)
	assert.True(t, status.Operational())
}

func TestAnswerService_Status_MissingComponents(t *testing.T) {
	service := NewAnswerService(nil, nil, nil, nil, nil, nil, nil,
		domain.RetrievalSettings{}, domain.AnswerSettings{})

	status, err := service.Status(context.Background())

	require.NoError(t, err)
	assert.False(t, status.LLMAvailable)
	assert.False(t, status.EmbeddingAvailable)
	assert.False(t, status.IndexAvailable)
	assert.False(t, status.RerankerAvailable)
	assert.Equal(t, -1, status.DocumentCount)
	assert.Equal(t, domain.StateDegraded, status.State)
	assert.False(t, status.Operational())
}
