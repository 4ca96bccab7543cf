// Package session owns all process-local state of one interactive chat:
// the index handle, conversation memory, transcript and document registry.
package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"

	"pdfchat/internal/chunker"
	"pdfchat/internal/config"
	"pdfchat/internal/embedding"
	"pdfchat/internal/helper"
	"pdfchat/internal/memory"
	"pdfchat/internal/models"
	"pdfchat/internal/parser"
	"pdfchat/internal/rag"
	"pdfchat/internal/retriever"
	"pdfchat/internal/vectorstore"
)

// StoreOpener defers opening the vector index until the first document
// arrives, so "does the index exist yet" is an explicit branch here rather
// than hidden state.
type StoreOpener func(ctx context.Context) (vectorstore.Store, error)

// Session processes one user action at a time; it is not safe for
// concurrent use and is not meant to be.
type Session struct {
	ragCfg    config.RAGConfig
	chunker   *chunker.Chunker
	embedder  embeddings.Embedder
	llm       llms.Model
	openStore StoreOpener

	store      vectorstore.Store
	engine     *rag.Engine
	mem        *memory.Conversation
	transcript []models.Turn
	documents  map[string]models.DocumentRecord
	docOrder   []string
}

// New creates an empty session: no index, no memory, no transcript, no
// documents.
func New(ragCfg config.RAGConfig, embedder embeddings.Embedder, llm llms.Model, openStore StoreOpener) *Session {
	return &Session{
		ragCfg:    ragCfg,
		chunker:   chunker.New(ragCfg.ChunkSize, ragCfg.ChunkOverlap),
		embedder:  embedder,
		llm:       llm,
		openStore: openStore,
		mem:       memory.New(),
		documents: make(map[string]models.DocumentRecord),
	}
}

// HasIndex reports whether any document has been ingested this session.
func (s *Session) HasIndex() bool { return s.store != nil }

// OpenIndex attaches the vector index without ingesting anything. One-shot
// query mode uses it to reach an index built by a previous run.
func (s *Session) OpenIndex(ctx context.Context) error {
	_, err := s.ensureIndex(ctx)
	return err
}

func (s *Session) ensureIndex(ctx context.Context) (vectorstore.Store, error) {
	if s.store != nil {
		return s.store, nil
	}
	store, err := s.openStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening vector index: %w", err)
	}
	s.store = store
	s.engine = rag.NewEngine(s.llm, retriever.New(store, s.embedder, s.ragCfg.TopK), &s.ragCfg)
	return store, nil
}

// IngestFile extracts, chunks, embeds and indexes one document. Re-ingesting
// a file with the same name purges its previous passages first, so stale
// content cannot be cited afterwards. On error the registry is unchanged;
// the index follows the backend's partial-failure semantics.
func (s *Session) IngestFile(ctx context.Context, path string) (models.DocumentRecord, error) {
	pages, err := parser.ExtractPages(path)
	if err != nil {
		return models.DocumentRecord{}, err
	}

	name := filepath.Base(path)
	passages, err := s.chunker.Chunk(pages, name)
	if err != nil {
		return models.DocumentRecord{}, fmt.Errorf("chunking %s: %w", name, err)
	}
	if len(passages) == 0 {
		return models.DocumentRecord{}, fmt.Errorf("%s: %w", name, models.ErrEmptyDocument)
	}

	vectors, err := embedding.EmbedPassages(ctx, s.embedder, passages)
	if err != nil {
		return models.DocumentRecord{}, err
	}

	store, err := s.ensureIndex(ctx)
	if err != nil {
		return models.DocumentRecord{}, err
	}
	if err := store.DeleteBySource(ctx, name); err != nil {
		return models.DocumentRecord{}, err
	}

	entries := make([]vectorstore.Entry, len(passages))
	for i, p := range passages {
		id, err := helper.GenerateUUID()
		if err != nil {
			return models.DocumentRecord{}, err
		}
		entries[i] = vectorstore.Entry{ID: id, Passage: p, Embedding: vectors[i]}
	}
	if err := store.Insert(ctx, entries); err != nil {
		return models.DocumentRecord{}, err
	}

	record := models.DocumentRecord{
		FileName:   name,
		PageCount:  distinctPages(passages),
		ChunkCount: len(passages),
	}
	if _, known := s.documents[name]; !known {
		s.docOrder = append(s.docOrder, name)
	}
	s.documents[name] = record

	log.Info().Str("file", name).Int("chunks", record.ChunkCount).Int("pages", record.PageCount).Msg("document indexed")
	return record, nil
}

// Ask appends the user turn and then either the assistant turn or an error
// turn. The returned turn is the one appended last; err is non-nil exactly
// when it is an error turn, so callers can still branch on failure kinds.
func (s *Session) Ask(ctx context.Context, question string) (models.Turn, error) {
	s.transcript = append(s.transcript, models.Turn{Role: models.RoleUser, Content: question})

	if s.store == nil {
		return s.failTurn(models.ErrNoIndex)
	}

	answer, err := s.engine.Answer(ctx, question, s.mem)
	if err != nil {
		return s.failTurn(err)
	}

	turn := models.Turn{
		Role:    models.RoleAssistant,
		Content: answer.Text,
		Sources: answer.Citations,
	}
	s.transcript = append(s.transcript, turn)
	return turn, nil
}

func (s *Session) failTurn(err error) (models.Turn, error) {
	turn := models.Turn{
		Role:    models.RoleAssistant,
		Content: fmt.Sprintf("Error generating response: %v", err),
		IsError: true,
	}
	s.transcript = append(s.transcript, turn)
	return turn, err
}

// ClearChat resets the transcript and conversation memory. The index and
// the document registry are untouched.
func (s *Session) ClearChat(ctx context.Context) error {
	s.transcript = nil
	return s.mem.Reset(ctx)
}

// Documents lists ingested files in ingestion order.
func (s *Session) Documents() []models.DocumentRecord {
	records := make([]models.DocumentRecord, 0, len(s.docOrder))
	for _, name := range s.docOrder {
		records = append(records, s.documents[name])
	}
	return records
}

// Transcript returns the displayed message log, oldest first.
func (s *Session) Transcript() []models.Turn {
	return s.transcript
}

// Close releases the index handle if one was opened.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func distinctPages(passages []models.Passage) int {
	seen := make(map[int]struct{})
	for _, p := range passages {
		seen[p.PageNumber] = struct{}{}
	}
	return len(seen)
}
