package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/logger"
)

// Routing generation parameters. Classification needs a single short
// label, so token budget is tiny and temperature is zero.
const (
	routeMaxTokens   = 50
	routeTemperature = 0.0
)

// defaultRoutePrompt classifies a query before any retrieval happens.
// The first %s is the scope topics, the second is the query.
const defaultRoutePrompt = `Classify the following query for a regulatory compliance assistant.

The assistant's corpus covers these topics:
%s

CLASSIFICATION CRITERIA:
- "regulatory": questions about regulations, compliance, labelling, safety requirements, and related topics above.
- "chitchat": greetings, thanks, questions about the assistant itself.
- "off_topic": anything else (sport, politics, history, etc).

Reply with exactly one label: regulatory, chitchat or off_topic.

QUERY: '%s'`

// Router decides which pipeline branch handles a query.
//
// Classification runs on the LLM with zero temperature and a strict
// label parse. An unparseable label fails closed to off-topic rather
// than guessing; only transport failures are returned as errors.
type Router struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewRouter creates a router on the given classification model.
// The prompt store is optional; without it the embedded default
// prompt is used.
func NewRouter(llm driven.LLMService) *Router {
	return &Router{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (r *Router) SetPromptStore(store driven.PromptStore) {
	r.prompts = store
}

// Route classifies the query against the corpus scope.
//
// The returned error is non-nil only when the classifier could not be
// reached; in that case the caller decides how to degrade. A reachable
// classifier always yields a valid intent, falling back to
// domain.IntentOffTopic when the output matches no known label.
func (r *Router) Route(ctx context.Context, query string, scope domain.KnowledgeScope) (domain.Intent, error) {
	if r.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	prompt := fmt.Sprintf(r.routePrompt(), scope.FormatTopics(), query)

	raw, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   routeMaxTokens,
		Temperature: routeTemperature,
	})
	if err != nil {
		logger.Warn("Intent classification failed: %v", err)
		return "", fmt.Errorf("classify query: %w", err)
	}

	intent, err := parseIntentLabel(raw)
	if err != nil {
		// Unknown labels fail closed rather than guessing.
		logger.Warn("%v, failing closed to off-topic", err)
		return domain.IntentOffTopic, nil
	}

	logger.Debug("Query classified as %s", intent)
	return intent, nil
}

// routePrompt returns the routing template, preferring the store copy.
func (r *Router) routePrompt() string {
	if r.prompts != nil {
		if p, err := r.prompts.Load(driven.PromptRoute); err == nil && p != "" {
			return p
		}
	}
	return defaultRoutePrompt
}

// parseIntentLabel extracts an intent from raw classifier output.
// The first line is stripped of surrounding quotes and punctuation
// before the exact match; everything else is
// domain.ErrClassificationAmbiguous.
func parseIntentLabel(raw string) (domain.Intent, error) {
	label := raw
	if idx := strings.IndexByte(label, '\n'); idx >= 0 {
		label = label[:idx]
	}
	label = strings.TrimSpace(label)
	label = strings.Trim(label, `"'.`+" \t")

	intent, ok := domain.ParseIntent(label)
	if !ok {
		return "", fmt.Errorf("%w: classifier output %q", domain.ErrClassificationAmbiguous, truncate(raw, 80))
	}
	return intent, nil
}

// truncate shortens s for log output.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
