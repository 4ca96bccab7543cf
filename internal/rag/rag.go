// Package rag orchestrates one question: retrieve, prompt, answer, cite.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"pdfchat/internal/config"
	"pdfchat/internal/helper"
	"pdfchat/internal/memory"
	"pdfchat/internal/models"
	"pdfchat/internal/retriever"
)

// Engine composes retrieved passages, prior conversation turns and the new
// question into a single model invocation.
type Engine struct {
	llm         llms.Model
	retriever   *retriever.Retriever
	temperature float64
	snippetLen  int
}

func NewEngine(llm llms.Model, r *retriever.Retriever, ragCfg *config.RAGConfig) *Engine {
	snippetLen := ragCfg.SnippetLen
	if snippetLen <= 0 {
		snippetLen = 300
	}
	return &Engine{
		llm:         llm,
		retriever:   r,
		temperature: ragCfg.Temperature,
		snippetLen:  snippetLen,
	}
}

// Answer runs the full flow for one question. Memory is appended to only
// after the model call succeeds; on failure it is left untouched so a
// failed turn never pollutes later prompts.
func (e *Engine) Answer(ctx context.Context, question string, mem *memory.Conversation) (models.Answer, error) {
	passages, err := e.retriever.Retrieve(ctx, question)
	if err != nil {
		return models.Answer{}, fmt.Errorf("retrieving context: %w", err)
	}
	log.Debug().Int("passages", len(passages)).Str("question", question).Msg("retrieved grounding context")

	history, err := mem.Context(ctx)
	if err != nil {
		return models.Answer{}, fmt.Errorf("reading conversation memory: %w", err)
	}

	messages := buildMessages(question, passages, history)
	resp, err := e.llm.GenerateContent(ctx, messages, llms.WithTemperature(e.temperature))
	if err != nil {
		return models.Answer{}, fmt.Errorf("language model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Answer{}, fmt.Errorf("language model returned no choices")
	}
	answerText := resp.Choices[0].Content

	if err := mem.Append(ctx, question, answerText); err != nil {
		return models.Answer{}, fmt.Errorf("recording exchange: %w", err)
	}

	return models.Answer{
		Text:      answerText,
		Citations: e.citations(passages),
	}, nil
}

// buildMessages lays out the prompt: system instructions, prior turns in
// chronological order, then the grounded question.
func buildMessages(question string, passages []models.Passage, history []llms.ChatMessage) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, textMessage(llms.ChatMessageTypeSystem, models.SystemPrompt))
	for _, msg := range history {
		messages = append(messages, textMessage(msg.GetType(), msg.GetContent()))
	}

	var grounding strings.Builder
	for _, p := range passages {
		fmt.Fprintf(&grounding, "[%s, page %d]\n%s\n\n", p.SourceFile, p.PageNumber, p.Text)
	}
	prompt := fmt.Sprintf(models.UserPromptTemplate, grounding.String(), question)
	messages = append(messages, textMessage(llms.ChatMessageTypeHuman, prompt))
	return messages
}

func textMessage(role llms.ChatMessageType, text string) llms.MessageContent {
	return llms.MessageContent{
		Role:  role,
		Parts: []llms.ContentPart{llms.TextContent{Text: text}},
	}
}

func (e *Engine) citations(passages []models.Passage) []models.Citation {
	citations := make([]models.Citation, len(passages))
	for i, p := range passages {
		citations[i] = models.Citation{
			SourceFile: p.SourceFile,
			PageNumber: p.PageNumber,
			Snippet:    helper.TruncateRunes(p.Text, e.snippetLen),
		}
	}
	return citations
}
