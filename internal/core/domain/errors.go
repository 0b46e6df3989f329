package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown connector or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured
	// or not reachable. Routing, synthesis and chitchat all need it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Queries cannot be embedded without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the document index cannot be
	// queried. The pipeline degrades instead of answering.
	ErrIndexUnavailable = errors.New("document index unavailable")

	// ErrIndexEmpty indicates the index holds no chunks.
	// Nothing has been ingested yet.
	ErrIndexEmpty = errors.New("document index empty")

	// ErrClassificationAmbiguous indicates the router's output did not
	// match any known intent label. Callers fail closed to off-topic.
	ErrClassificationAmbiguous = errors.New("classification ambiguous")

	// ErrInsufficientEvidence indicates no retrieved chunk cleared the
	// relevance threshold, so no grounded answer is possible.
	ErrInsufficientEvidence = errors.New("insufficient evidence")

	// ErrSynthesisFailed indicates the answer LLM call failed or
	// returned unusable output.
	ErrSynthesisFailed = errors.New("answer synthesis failed")

	// ErrScopeUnavailable indicates the knowledge scope could not be
	// loaded or generated.
	ErrScopeUnavailable = errors.New("knowledge scope unavailable")

	// ErrIngestInProgress indicates an ingest run is already active.
	ErrIngestInProgress = errors.New("ingest in progress")
)
