// Package chromemdb backs the vector index with chromem-go, a persistent
// embedded vector database. This is the default backend: the index lives
// under a fixed on-disk path and re-opening the same path resumes the same
// collection.
package chromemdb

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"pdfchat/internal/models"
	"pdfchat/internal/vectorstore"
)

const compress = false

// Store wraps one chromem collection.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewStore opens (or creates) the database at path and resumes the named
// collection. inMemory skips persistence, used by tests.
func NewStore(path, collectionName string, inMemory bool) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, compress)
		if err != nil {
			return nil, fmt.Errorf("opening vector database at %s: %w", path, err)
		}
	}

	// Embeddings are always supplied explicitly, so no embedding func is
	// registered with the collection.
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", collectionName, err)
	}
	return &Store{db: db, collection: collection}, nil
}

func (s *Store) Insert(ctx context.Context, entries []vectorstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		docs[i] = chromem.Document{
			ID:      e.ID,
			Content: e.Passage.Text,
			Metadata: map[string]string{
				"source_file": e.Passage.SourceFile,
				"page_number": strconv.Itoa(e.Passage.PageNumber),
				"chunk_index": strconv.Itoa(e.Passage.ChunkIndex),
			},
			Embedding: e.Embedding,
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, queryEmbedding []float32, k int) ([]vectorstore.Hit, error) {
	// chromem rejects nResults larger than the collection, so clamp.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("querying by similarity: %w", err)
	}

	hits := make([]vectorstore.Hit, 0, len(results))
	for _, res := range results {
		hits = append(hits, vectorstore.Hit{
			Passage:    passageFromResult(res),
			Similarity: res.Similarity,
		})
	}
	return hits, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

func (s *Store) DeleteBySource(ctx context.Context, sourceFile string) error {
	err := s.collection.Delete(ctx, map[string]string{"source_file": sourceFile}, nil)
	if err != nil {
		return fmt.Errorf("deleting passages of %s: %w", sourceFile, err)
	}
	return nil
}

// Close is a no-op: chromem persists on every write.
func (s *Store) Close() error { return nil }

func passageFromResult(res chromem.Result) models.Passage {
	page, _ := strconv.Atoi(res.Metadata["page_number"])
	chunk, _ := strconv.Atoi(res.Metadata["chunk_index"])
	return models.Passage{
		Text:       res.Content,
		SourceFile: res.Metadata["source_file"],
		PageNumber: page,
		ChunkIndex: chunk,
	}
}
