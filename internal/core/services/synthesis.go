package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/logger"
)

// Synthesis generation parameters, tuned for factual answers over
// creative ones.
const (
	synthesisMaxTokens   = 4096
	synthesisTemperature = 0.1

	// historyTurnsInPrompt caps how much conversation the answer
	// prompt carries.
	historyTurnsInPrompt = 6
)

// defaultAnswerPrompt instructs the model to answer strictly from the
// numbered context with inline citations. The first %s is the context
// block, the second is the question.
const defaultAnswerPrompt = `You are a professional consultant on regulatory compliance.

OPERATING INSTRUCTIONS:
1. Carefully analyse the context provided by the numbered documents [doc-1], [doc-2], etc.
2. Answer EXCLUSIVELY from these official documents.
3. MANDATORY CITATIONS: After every specific claim, immediately cite the source using [doc-N]. Example: "The maximum limit is 5 mg/kg [doc-2]."
4. For claims supported by multiple sources, cite them all: "Labelling must be clear [doc-1, doc-3]."
5. Do NOT group citations at the end - they must be integrated into the text.
6. If the information is not sufficient, state: "The available documents do not contain enough information to answer completely."

DOCUMENT CONTEXT:
%s

QUESTION:
%s

PROFESSIONAL ANSWER WITH INLINE CITATIONS:`

// Synthesiser turns ranked chunks into a cited answer.
type Synthesiser struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewSynthesiser creates a synthesiser on the given answer model.
func NewSynthesiser(llm driven.LLMService) *Synthesiser {
	return &Synthesiser{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *Synthesiser) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Synthesise generates an answer grounded on the ranked chunks.
//
// Chunks are presented to the model as numbered context; every doc-N
// marker in the output is validated against that numbering, with
// invalid markers stripped. The returned citations correspond one to
// one with the distinct markers remaining in the answer.
func (s *Synthesiser) Synthesise(
	ctx context.Context, query string, history []domain.Turn, chunks []domain.RankedChunk,
) (string, []domain.Citation, error) {
	if s.llm == nil {
		return "", nil, domain.ErrLLMUnavailable
	}
	if len(chunks) == 0 {
		return "", nil, domain.ErrInsufficientEvidence
	}

	prompt := fmt.Sprintf(s.answerPrompt(), buildContext(chunks), query)
	if transcript := formatHistory(history, historyTurnsInPrompt); transcript != "" {
		prompt = "CONVERSATION SO FAR:\n" + transcript + "\n\n" + prompt
	}

	logger.Debug("Synthesis: %d chunks, prompt %d chars", len(chunks), len(prompt))

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   synthesisMaxTokens,
		Temperature: synthesisTemperature,
	})
	if err != nil {
		logger.Warn("Answer generation failed: %v", err)
		return "", nil, fmt.Errorf("generate answer: %w", err)
	}

	answer, markers := sanitiseCitations(strings.TrimSpace(raw), len(chunks))
	if answer == "" {
		logger.Warn("Answer generation produced empty output")
		return "", nil, domain.ErrSynthesisFailed
	}

	citations := citationsFor(markers, chunks)
	logger.Info("Synthesised answer with %d citations from %d chunks", len(citations), len(chunks))

	return answer, citations, nil
}

// answerPrompt returns the synthesis template, preferring the store copy.
func (s *Synthesiser) answerPrompt() string {
	if s.prompts != nil {
		if p, err := s.prompts.Load(driven.PromptAnswer); err == nil && p != "" {
			return p
		}
	}
	return defaultAnswerPrompt
}

// formatHistory renders the most recent turns as a short transcript.
func formatHistory(history []domain.Turn, maxTurns int) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}

	lines := make([]string, 0, len(history))
	for _, turn := range history {
		role := "User"
		if turn.Role == domain.RoleAssistant {
			role = "Assistant"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, turn.Content))
	}
	return strings.Join(lines, "\n")
}
