package services

import (
	"context"
	"fmt"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/logger"
)

// chitchatMaxTokens bounds conversational replies; small talk never
// needs a long completion.
const chitchatMaxTokens = 512

// defaultRefusalPrompt declines an off-topic query. The first %s is
// the query, the second is the scope topics. Refusals are rendered
// from the template directly, with no model call.
const defaultRefusalPrompt = `I am an assistant specialised in regulatory compliance, and I am not able to answer the question: '%s'

My knowledge is limited to the documents in my corpus.
To get accurate answers, try asking about the topics I know well.

The main topics I can help with include:
%s

Please rephrase your question around one of these subjects.`

// defaultChatSystemPrompt sets the persona for chitchat turns.
const defaultChatSystemPrompt = `You are a friendly AI assistant specialised in regulatory compliance. Reply to greetings and small talk warmly and concisely. If asked what you can do, explain that you answer questions about the regulatory documents in your corpus, with citations.`

// Conversationalist handles the two branches that must not touch the
// index: refusals for off-topic queries and chitchat replies.
type Conversationalist struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewConversationalist creates the refusal and chitchat handler.
func NewConversationalist(llm driven.LLMService) *Conversationalist {
	return &Conversationalist{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (c *Conversationalist) SetPromptStore(store driven.PromptStore) {
	c.prompts = store
}

// Refuse renders the templated refusal for an off-topic query,
// listing the corpus scope so users learn what they can ask.
// No retrieval and no model call happens here.
func (c *Conversationalist) Refuse(query string, scope domain.KnowledgeScope) string {
	logger.Debug("Refusing off-topic query")
	return fmt.Sprintf(c.refusalPrompt(), query, scope.FormatTopics())
}

// Chat produces a conversational reply using session history.
// The index is never consulted.
func (c *Conversationalist) Chat(ctx context.Context, query string, history []domain.Turn) (string, error) {
	if c.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    "system",
		Content: c.chatSystemPrompt(),
	})
	for _, turn := range history {
		messages = append(messages, driven.ChatMessage{
			Role:    turn.Role.String(),
			Content: turn.Content,
		})
	}
	messages = append(messages, driven.ChatMessage{Role: "user", Content: query})

	reply, err := c.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   chitchatMaxTokens,
		Temperature: synthesisTemperature,
	})
	if err != nil {
		logger.Warn("Chitchat reply failed: %v", err)
		return "", fmt.Errorf("chat reply: %w", err)
	}

	return reply, nil
}

// refusalPrompt returns the refusal template, preferring the store copy.
func (c *Conversationalist) refusalPrompt() string {
	if c.prompts != nil {
		if p, err := c.prompts.Load(driven.PromptRefusal); err == nil && p != "" {
			return p
		}
	}
	return defaultRefusalPrompt
}

// chatSystemPrompt returns the chitchat system prompt, preferring the
// store copy.
func (c *Conversationalist) chatSystemPrompt() string {
	if c.prompts != nil {
		if p, err := c.prompts.Load(driven.PromptChatSystem); err == nil && p != "" {
			return p
		}
	}
	return defaultChatSystemPrompt
}
