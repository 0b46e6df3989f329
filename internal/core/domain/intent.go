package domain

import "strings"

// Intent classifies what a user query is asking for.
// It is decided by the router before any retrieval happens and
// determines which pipeline branch handles the query.
type Intent string

// Available intents.
const (
	// IntentRegulatory is a question answerable from the regulatory corpus.
	IntentRegulatory Intent = "regulatory"

	// IntentOffTopic is a question outside the corpus scope.
	IntentOffTopic Intent = "off_topic"

	// IntentChitchat is small talk: greetings, thanks, questions about
	// the assistant itself.
	IntentChitchat Intent = "chitchat"
)

// IsValid returns true if the intent is recognised.
func (i Intent) IsValid() bool {
	switch i {
	case IntentRegulatory, IntentOffTopic, IntentChitchat:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (i Intent) String() string {
	return string(i)
}

// Description returns a human-readable description of the intent.
func (i Intent) Description() string {
	switch i {
	case IntentRegulatory:
		return "Regulatory (answerable from the corpus)"
	case IntentOffTopic:
		return "Off topic (outside the corpus scope)"
	case IntentChitchat:
		return "Chitchat (greetings and small talk)"
	default:
		return unknownDescription
	}
}

// ParseIntent maps a classifier label to an Intent.
// Matching is exact after trimming whitespace and lowercasing; anything
// else returns false so callers can fail closed.
func ParseIntent(label string) (Intent, bool) {
	intent := Intent(strings.ToLower(strings.TrimSpace(label)))
	if !intent.IsValid() {
		return "", false
	}
	return intent, true
}

// AllIntents returns all recognised intents.
func AllIntents() []Intent {
	return []Intent{
		IntentRegulatory,
		IntentOffTopic,
		IntentChitchat,
	}
}
