package mcp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed corpus"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string           `json:"answer"`
	Citations []CitationOutput `json:"citations,omitempty"`
	Intent    string           `json:"intent,omitempty"`
	Outcome   string           `json:"outcome"`
	Model     string           `json:"model,omitempty"`
}

// CitationOutput links an answer marker back to its source chunk.
type CitationOutput struct {
	Marker  string `json:"marker"`
	ChunkID string `json:"chunk_id"`
	Source  string `json:"source"`
	Title   string `json:"title,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

// SearchCorpusInput is the input schema for the search_corpus tool.
type SearchCorpusInput struct {
	Query string `json:"query" jsonschema:"the query to match against indexed chunks"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 10)"`
}

// SearchCorpusOutput is the output schema for the search_corpus tool.
type SearchCorpusOutput struct {
	Results []ChunkOutput `json:"results"`
	Count   int           `json:"count"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	ChunkID    string  `json:"chunk_id"`
	Source     string  `json:"source"`
	Title      string  `json:"title,omitempty"`
	Similarity float64 `json:"similarity"`
	Content    string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed regulatory corpus, with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_corpus",
		Description: "Retrieve the indexed chunks most similar to a query, without answering",
	}, s.handleSearchCorpus)
}

// handleAsk handles the ask tool invocation.
//
// Each call runs in a fresh session: MCP clients carry their own
// conversation state, so cross-call history would double it up.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	session := domain.NewSession(uuid.NewString())

	response, err := s.ports.Answer.Ask(ctx, session, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  response.Answer,
		Intent:  response.Intent.String(),
		Outcome: response.Outcome.String(),
		Model:   response.Model,
	}
	for _, c := range response.Citations {
		output.Citations = append(output.Citations, CitationOutput{
			Marker:  c.Label(),
			ChunkID: c.ChunkID,
			Source:  c.Source,
			Title:   c.Title,
			Excerpt: c.Excerpt,
		})
	}

	return nil, output, nil
}

// handleSearchCorpus handles the search_corpus tool invocation.
func (s *Server) handleSearchCorpus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchCorpusInput,
) (*mcp.CallToolResult, SearchCorpusOutput, error) {
	if s.ports.Retrieval == nil {
		return nil, SearchCorpusOutput{}, domain.ErrIndexUnavailable
	}

	topK := input.TopK
	if topK <= 0 {
		topK = 10
	}

	chunks, err := s.ports.Retrieval.Retrieve(ctx, input.Query, topK)
	if err != nil {
		// An empty index is a normal state for a client to observe.
		if errors.Is(err, domain.ErrIndexEmpty) {
			return nil, SearchCorpusOutput{Results: []ChunkOutput{}}, nil
		}
		return nil, SearchCorpusOutput{}, err
	}

	output := SearchCorpusOutput{
		Results: make([]ChunkOutput, len(chunks)),
		Count:   len(chunks),
	}

	for i := range chunks {
		output.Results[i] = ChunkOutput{
			ChunkID:    chunks[i].Chunk.ID,
			Source:     chunks[i].Source,
			Title:      chunks[i].Title,
			Similarity: chunks[i].Similarity,
			Content:    chunks[i].Chunk.Content,
		}
	}

	return nil, output, nil
}
