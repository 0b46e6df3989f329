package domain

// SystemState summarises overall pipeline health.
type SystemState string

// Available system states.
const (
	// StateOperational means every pipeline stage has a working backend.
	StateOperational SystemState = "operational"

	// StateDegraded means at least one stage is missing or failing;
	// queries still get responses, but possibly fallback ones.
	StateDegraded SystemState = "degraded"
)

// String returns the string representation.
func (s SystemState) String() string {
	return string(s)
}

// SystemStatus reports component availability for diagnostics.
type SystemStatus struct {
	// LLMAvailable is true when the main model responds to a ping.
	LLMAvailable bool

	// RouterAvailable is true when the routing model responds.
	RouterAvailable bool

	// EmbeddingAvailable is true when the embedding service responds.
	EmbeddingAvailable bool

	// IndexAvailable is true when the document index can be queried.
	IndexAvailable bool

	// RerankerAvailable is true when the reranker is configured.
	RerankerAvailable bool

	// DocumentCount is the number of chunks in the index, -1 when the
	// index cannot be counted.
	DocumentCount int

	// ScopeTopics is the number of knowledge scope topics loaded.
	ScopeTopics int

	// State is the overall summary.
	State SystemState
}

// Operational returns true when all components are available.
func (s SystemStatus) Operational() bool {
	return s.State == StateOperational
}
