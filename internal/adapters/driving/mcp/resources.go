package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Norma resources.
	uriScheme = "norma://"

	scopeURI  = uriScheme + "scope"
	statusURI = uriScheme + "status"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the knowledge scope.
	s.server.AddResource(&mcp.Resource{
		URI:         scopeURI,
		Name:        "scope",
		Description: "Topics the indexed corpus can answer questions about",
		MIMEType:    "application/json",
	}, s.handleScopeResource)

	// Static resource for pipeline health.
	s.server.AddResource(&mcp.Resource{
		URI:         statusURI,
		Name:        "status",
		Description: "Availability of the pipeline components",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// scopeInfo is the wire shape of the scope resource.
type scopeInfo struct {
	Description string   `json:"description,omitempty"`
	Topics      []string `json:"topics"`
	Version     string   `json:"version,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// handleScopeResource returns the current knowledge scope.
func (s *Server) handleScopeResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := scopeInfo{Topics: []string{}}

	if s.ports.Scope != nil {
		scope, err := s.ports.Scope.Get()
		if err != nil {
			return nil, fmt.Errorf("loading scope: %w", err)
		}
		info.Description = scope.Description
		info.Version = scope.Version
		if len(scope.Topics) > 0 {
			info.Topics = scope.Topics
		}
		if !scope.UpdatedAt.IsZero() {
			info.UpdatedAt = scope.UpdatedAt.Format(time.RFC3339)
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling scope: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// statusInfo is the wire shape of the status resource.
type statusInfo struct {
	State              string `json:"state"`
	LLMAvailable       bool   `json:"llm_available"`
	RouterAvailable    bool   `json:"router_available"`
	EmbeddingAvailable bool   `json:"embedding_available"`
	IndexAvailable     bool   `json:"index_available"`
	RerankerAvailable  bool   `json:"reranker_available"`
	DocumentCount      int    `json:"document_count"`
	ScopeTopics        int    `json:"scope_topics"`
}

// handleStatusResource returns pipeline component availability.
// DocumentCount is -1 when the index cannot be counted.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Answer.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	info := statusInfo{
		State:              status.State.String(),
		LLMAvailable:       status.LLMAvailable,
		RouterAvailable:    status.RouterAvailable,
		EmbeddingAvailable: status.EmbeddingAvailable,
		IndexAvailable:     status.IndexAvailable,
		RerankerAvailable:  status.RerankerAvailable,
		DocumentCount:      status.DocumentCount,
		ScopeTopics:        status.ScopeTopics,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
