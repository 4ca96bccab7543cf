// Package retriever performs top-k similarity search over the vector index.
package retriever

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"

	"pdfchat/internal/models"
	"pdfchat/internal/vectorstore"
)

// Retriever embeds queries with the same embedder used at ingestion and
// fetches the k nearest passages. Retrieval is single-turn: it never looks
// at conversation history.
type Retriever struct {
	store    vectorstore.Store
	embedder embeddings.Embedder
	topK     int
}

func New(store vectorstore.Store, embedder embeddings.Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{store: store, embedder: embedder, topK: topK}
}

// Retrieve returns at most topK passages ordered nearest-first. An empty
// index yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.Passage, error) {
	count, err := r.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting indexed passages: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	queryEmbedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := r.store.Search(ctx, queryEmbedding, r.topK)
	if err != nil {
		return nil, err
	}

	passages := make([]models.Passage, len(hits))
	for i, hit := range hits {
		passages[i] = hit.Passage
	}
	return passages, nil
}
