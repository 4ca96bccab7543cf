// Package postgres backs the vector index with Postgres and the pgvector
// extension (e.g. a Supabase instance), as an alternative to the embedded
// chromem backend.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"pdfchat/internal/config"
	"pdfchat/internal/models"
	"pdfchat/internal/vectorstore"
)

const defaultVectorSize = 768

type passageRow struct {
	bun.BaseModel `bun:"table:passages,alias:p"`

	ID         string  `bun:"id,pk"`
	Content    string  `bun:"content,notnull"`
	Embedding  string  `bun:"embedding,notnull"`
	SourceFile string  `bun:"source_file,notnull"`
	PageNumber int     `bun:"page_number,notnull"`
	ChunkIndex int     `bun:"chunk_index,notnull"`
	Similarity float32 `bun:"similarity,scanonly"`
}

// Store holds the bun connection to the passages table.
type Store struct {
	db *bun.DB
}

// NewStore connects to Postgres and ensures the passages table exists.
func NewStore(ctx context.Context, cfg *config.PostgresConfig) (*Store, error) {
	dsn := cfg.URL
	if !strings.Contains(dsn, "sslmode=") {
		dsn += "?sslmode=disable"
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Password)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	s := &Store{db: db}
	if err := s.init(ctx, cfg.VectorSize); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context, vectorSize int) error {
	if vectorSize <= 0 {
		vectorSize = defaultVectorSize
	}
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("enabling pgvector: %w", err)
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS passages (
		id text PRIMARY KEY,
		content text NOT NULL,
		embedding vector(%d) NOT NULL,
		source_file text NOT NULL,
		page_number int NOT NULL,
		chunk_index int NOT NULL
	)`, vectorSize)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating passages table: %w", err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, entries []vectorstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]passageRow, len(entries))
	for i, e := range entries {
		rows[i] = passageRow{
			ID:         e.ID,
			Content:    e.Passage.Text,
			Embedding:  vectorLiteral(e.Embedding),
			SourceFile: e.Passage.SourceFile,
			PageNumber: e.Passage.PageNumber,
			ChunkIndex: e.Passage.ChunkIndex,
		}
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("storing passages: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, queryEmbedding []float32, k int) ([]vectorstore.Hit, error) {
	lit := vectorLiteral(queryEmbedding)
	var rows []passageRow
	err := s.db.NewSelect().
		Model(&rows).
		Column("id", "content", "embedding", "source_file", "page_number", "chunk_index").
		ColumnExpr("1 - (embedding <=> ?::vector) AS similarity", lit).
		OrderExpr("embedding <=> ?::vector", lit).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching passages: %w", err)
	}

	hits := make([]vectorstore.Hit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, vectorstore.Hit{
			Passage: models.Passage{
				Text:       row.Content,
				SourceFile: row.SourceFile,
				PageNumber: row.PageNumber,
				ChunkIndex: row.ChunkIndex,
			},
			Similarity: row.Similarity,
		})
	}
	return hits, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return s.db.NewSelect().Model((*passageRow)(nil)).Count(ctx)
}

func (s *Store) DeleteBySource(ctx context.Context, sourceFile string) error {
	_, err := s.db.NewDelete().
		Model((*passageRow)(nil)).
		Where("source_file = ?", sourceFile).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("deleting passages of %s: %w", sourceFile, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// vectorLiteral renders an embedding in pgvector's input syntax: [1,2,3].
func vectorLiteral(vec []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}
