// Package vectorstore defines the persistent vector index consumed by the
// retriever, with interchangeable on-disk (chromem) and Postgres/pgvector
// backends.
package vectorstore

import (
	"context"

	"pdfchat/internal/models"
)

// Entry pairs a passage with its embedding for insertion. ID must be
// globally unique so repeated ingestions never collide.
type Entry struct {
	ID        string
	Passage   models.Passage
	Embedding []float32
}

// Hit is one similarity-search result.
type Hit struct {
	Passage    models.Passage
	Similarity float32
}

// Store is a persistent vector index. Insert is additive: existing entries
// are never modified or removed by it. Search returns hits ordered
// nearest-first and at most k of them.
type Store interface {
	Insert(ctx context.Context, entries []Entry) error
	Search(ctx context.Context, queryEmbedding []float32, k int) ([]Hit, error)
	Count(ctx context.Context) (int, error)
	DeleteBySource(ctx context.Context, sourceFile string) error
	Close() error
}
