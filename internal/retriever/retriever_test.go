package retriever

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"testing"

	"pdfchat/internal/models"
	"pdfchat/internal/vectorstore"
	"pdfchat/internal/vectorstore/chromemdb"
)

// hashEmbedder is a deterministic offline embedder: a bag of words hashed
// into a small vector, normalized. Texts sharing words come out similar.
type hashEmbedder struct{ dim int }

func (e hashEmbedder) embed(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(strings.Trim(word, ".,?!")))
		vec[h.Sum32()%uint32(e.dim)]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func (e hashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

func (e hashEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func seedStore(t *testing.T, emb hashEmbedder, passages []models.Passage) vectorstore.Store {
	t.Helper()
	store, err := chromemdb.NewStore("", "retriever_test", true)
	if err != nil {
		t.Fatal(err)
	}
	entries := make([]vectorstore.Entry, len(passages))
	for i, p := range passages {
		entries[i] = vectorstore.Entry{
			ID:        p.SourceFile + "-" + p.Text[:4],
			Passage:   p,
			Embedding: emb.embed(p.Text),
		}
	}
	if err := store.Insert(context.Background(), entries); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestRetrieveEmptyIndex(t *testing.T) {
	emb := hashEmbedder{dim: 16}
	store, err := chromemdb.NewStore("", "retriever_empty", true)
	if err != nil {
		t.Fatal(err)
	}
	r := New(store, emb, 3)
	passages, err := r.Retrieve(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(passages) != 0 {
		t.Errorf("expected no passages, got %d", len(passages))
	}
}

func TestRetrieveNearestFirst(t *testing.T) {
	emb := hashEmbedder{dim: 16}
	store := seedStore(t, emb, []models.Passage{
		{Text: "the sky is blue on clear days", SourceFile: "sky.pdf", PageNumber: 1, ChunkIndex: 1},
		{Text: "stock markets closed higher today", SourceFile: "finance.pdf", PageNumber: 4, ChunkIndex: 1},
		{Text: "gophers dig extensive burrow networks", SourceFile: "nature.pdf", PageNumber: 2, ChunkIndex: 1},
	})
	r := New(store, emb, 2)

	passages, err := r.Retrieve(context.Background(), "what color is the sky")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}
	if passages[0].SourceFile != "sky.pdf" {
		t.Errorf("nearest passage should come from sky.pdf, got %+v", passages[0])
	}
}

func TestRetrieveAtMostK(t *testing.T) {
	emb := hashEmbedder{dim: 16}
	store := seedStore(t, emb, []models.Passage{
		{Text: "alpha text here", SourceFile: "a.pdf", PageNumber: 1, ChunkIndex: 1},
		{Text: "beta text here", SourceFile: "b.pdf", PageNumber: 1, ChunkIndex: 1},
	})

	r := New(store, emb, 3)
	passages, err := r.Retrieve(context.Background(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if len(passages) != 2 {
		t.Errorf("k above index size should return all entries, got %d", len(passages))
	}

	r = New(store, emb, 1)
	passages, err = r.Retrieve(context.Background(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if len(passages) != 1 {
		t.Errorf("expected exactly k=1 results, got %d", len(passages))
	}
}
