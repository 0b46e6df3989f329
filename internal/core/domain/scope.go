package domain

import (
	"fmt"
	"strings"
	"time"
)

// maxScopeTopicsShown bounds how many topics a refusal lists before
// collapsing the remainder into a count.
const maxScopeTopicsShown = 8

// KnowledgeScope describes what the indexed corpus covers.
// The router grounds classification on it and refusals list its
// topics so users learn what they can ask.
type KnowledgeScope struct {
	// Topics are the subject areas the corpus covers.
	Topics []string

	// Description is a one-line summary of the corpus.
	Description string

	// Version tracks scope revisions.
	Version string

	// UpdatedAt is when the scope was last written.
	UpdatedAt time.Time
}

// IsEmpty returns true if no topics are defined.
func (k KnowledgeScope) IsEmpty() bool {
	return len(k.Topics) == 0
}

// FormatTopics renders the topics as a bullet list for prompts and
// refusal messages. At most eight topics are listed; any remainder
// collapses into a trailing count line.
func (k KnowledgeScope) FormatTopics() string {
	if k.IsEmpty() {
		return "No specific topics defined."
	}

	shown := k.Topics
	if len(shown) > maxScopeTopicsShown {
		shown = shown[:maxScopeTopicsShown]
	}

	var b strings.Builder
	for i, topic := range shown {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + topic)
	}
	if extra := len(k.Topics) - maxScopeTopicsShown; extra > 0 {
		b.WriteString(fmt.Sprintf("\n- ... and %d more related topics", extra))
	}
	return b.String()
}

// DefaultKnowledgeScope returns a generic scope used until one is
// generated from the corpus or edited by the operator.
func DefaultKnowledgeScope() KnowledgeScope {
	return KnowledgeScope{
		Topics: []string{
			"Food regulations",
			"Product labelling",
			"Food safety",
			"Additives and preservatives",
			"Health inspections",
			"European legislation",
			"Ministerial decrees",
			"Quality certifications",
		},
		Description: "Regulatory and compliance documents",
		Version:     "1.0",
		UpdatedAt:   time.Now(),
	}
}
