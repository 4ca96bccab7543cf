// Package memory holds the conversational context replayed into each model
// invocation.
package memory

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	lcmemory "github.com/tmc/langchaingo/memory"
)

// Conversation is an append-only log of question/answer pairs. It has no
// size cap: eviction and summarization are out of scope.
type Conversation struct {
	history *lcmemory.ChatMessageHistory
}

func New() *Conversation {
	return &Conversation{history: lcmemory.NewChatMessageHistory()}
}

// Append records one completed exchange. Callers must only append after the
// answer succeeded; a failed model call leaves memory untouched.
func (c *Conversation) Append(ctx context.Context, question, answer string) error {
	if err := c.history.AddUserMessage(ctx, question); err != nil {
		return fmt.Errorf("recording question: %w", err)
	}
	if err := c.history.AddAIMessage(ctx, answer); err != nil {
		return fmt.Errorf("recording answer: %w", err)
	}
	return nil
}

// Context returns the prior turns in chronological order, ready to splice
// into a prompt.
func (c *Conversation) Context(ctx context.Context) ([]llms.ChatMessage, error) {
	return c.history.Messages(ctx)
}

// Len reports the number of stored messages (two per exchange).
func (c *Conversation) Len(ctx context.Context) (int, error) {
	msgs, err := c.history.Messages(ctx)
	if err != nil {
		return 0, err
	}
	return len(msgs), nil
}

// Reset clears all history. Independent of any other state: clearing chat
// never touches the document index.
func (c *Conversation) Reset(ctx context.Context) error {
	return c.history.Clear(ctx)
}
