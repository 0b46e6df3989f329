package driven

// PromptStore supplies the prompt templates the pipeline sends to the
// LLM. The file-backed implementation lets operators edit prompts
// without rebuilding; services fall back to their embedded defaults
// when a template is missing or empty.
type PromptStore interface {
	// Load returns the template for the given well-known name.
	Load(name string) (string, error)

	// Reload drops any cached templates so edited files take effect
	// on the next Load.
	Reload()
}

// Well-known prompt names. Each template's %s placeholders are part of
// its contract with the service that formats it.
const (
	// PromptRoute classifies a query's intent.
	// Placeholders: scope topics, query.
	PromptRoute = "route"

	// PromptAnswer synthesises a cited answer from numbered context.
	// Placeholders: context block, question.
	PromptAnswer = "answer"

	// PromptRefusal declines an off-topic query.
	// Placeholders: query, scope topics.
	PromptRefusal = "refusal"

	// PromptChatSystem is the system prompt for chitchat turns.
	// No placeholders.
	PromptChatSystem = "chat_system"

	// PromptScopeExtract derives scope topics from corpus samples.
	// Placeholder: sampled content.
	PromptScopeExtract = "scope_extract"
)
