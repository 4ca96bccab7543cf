// Package embedding constructs the text embedder used for both ingestion
// and queries. The same embedder instance must serve both, or similarity
// scores are meaningless.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"pdfchat/internal/config"
	"pdfchat/internal/models"
)

// NewEmbedder builds a langchaingo embedder for the configured provider.
func NewEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return newOpenAIEmbedder(cfg)
	case config.ProviderOllama:
		return newOllamaEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

func newOpenAIEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing openai embedding client: %w", err)
	}
	return embeddings.NewEmbedder(llm)
}

func newOllamaEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing ollama embedding client: %w", err)
	}
	return embeddings.NewEmbedder(llm)
}

// EmbedPassages embeds every passage text in one batch call. The returned
// vectors are index-aligned with the input.
func EmbedPassages(ctx context.Context, embedder embeddings.Embedder, passages []models.Passage) ([][]float32, error) {
	if len(passages) == 0 {
		return nil, nil
	}
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d passages: %w", len(passages), err)
	}
	if len(vectors) != len(passages) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d passages", len(vectors), len(passages))
	}
	return vectors, nil
}
