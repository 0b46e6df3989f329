package domain

import "fmt"

// Outcome describes how the pipeline concluded a turn.
// Every turn produces exactly one Response with exactly one outcome;
// infrastructure failures surface as OutcomeDegraded, never as a raw
// error to the caller.
type Outcome string

// Available outcomes.
const (
	// OutcomeAnswered is a corpus-grounded answer with citations.
	OutcomeAnswered Outcome = "answered"

	// OutcomeRefused is a polite refusal for off-topic queries.
	OutcomeRefused Outcome = "refused"

	// OutcomeChitchat is a conversational reply with no retrieval.
	OutcomeChitchat Outcome = "chitchat"

	// OutcomeNoEvidence means retrieval ran but nothing scored above
	// the relevance threshold, so no answer was attempted.
	OutcomeNoEvidence Outcome = "no_evidence"

	// OutcomeDegraded means a pipeline stage failed and a fallback
	// message was returned instead of an answer.
	OutcomeDegraded Outcome = "degraded"

	// OutcomeInvalid means the query was empty or unusable.
	OutcomeInvalid Outcome = "invalid"
)

// IsValid returns true if the outcome is recognised.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeAnswered, OutcomeRefused, OutcomeChitchat,
		OutcomeNoEvidence, OutcomeDegraded, OutcomeInvalid:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (o Outcome) String() string {
	return string(o)
}

// Citation links a marker in an answer back to the chunk it cites.
type Citation struct {
	// Marker is the 1-based context position the answer cites.
	// Marker 2 renders as "doc-2" in the answer text.
	Marker int

	// ChunkID is the cited chunk's identifier.
	ChunkID string

	// Source is the URI of the cited document.
	Source string

	// Title is the cited document's title.
	Title string

	// Excerpt is a short extract of the cited chunk for display.
	Excerpt string
}

// Label returns the marker as it appears in answer text, e.g. "doc-2".
func (c Citation) Label() string {
	return fmt.Sprintf("doc-%d", c.Marker)
}

// Response is the pipeline's output for one turn.
type Response struct {
	// Answer is the text shown to the user.
	Answer string

	// Citations are the chunks the answer cites, ordered by marker.
	// Only OutcomeAnswered responses carry citations.
	Citations []Citation

	// Intent is what the router decided for the query.
	Intent Intent

	// Outcome is how the pipeline concluded.
	Outcome Outcome

	// Model is the LLM that produced the answer text, when one did.
	Model string
}

// Cited returns true if the response carries at least one citation.
func (r Response) Cited() bool {
	return len(r.Citations) > 0
}
