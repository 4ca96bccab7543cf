package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdfchat/internal/config"
	"pdfchat/internal/embedding"
	"pdfchat/internal/helper"
	"pdfchat/internal/llmservice"
	"pdfchat/internal/session"
	"pdfchat/internal/tui"
	"pdfchat/internal/vectorstore"
	"pdfchat/internal/vectorstore/chromemdb"
	"pdfchat/internal/vectorstore/postgres"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	filePath := flag.String("file", "", "Document to ingest, then exit (no TUI)")
	query := flag.String("query", "", "One question to answer, then exit (no TUI)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	ctx := context.Background()
	sess, err := newSession(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating session")
	}
	defer sess.Close()

	switch {
	case *filePath != "":
		ingestOnce(ctx, sess, *filePath, *query)
	case *query != "":
		if err := sess.OpenIndex(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error opening vector index")
		}
		askOnce(ctx, sess, *query)
	default:
		runTUI(ctx, sess)
	}
}

func newSession(cfg *config.Config) (*session.Session, error) {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		return nil, fmt.Errorf("initializing embedder: %w", err)
	}

	llm, err := llmservice.NewClient(&cfg.ChatLLM)
	if err != nil {
		return nil, fmt.Errorf("initializing chat model: %w", err)
	}

	opener := storeOpener(cfg)
	return session.New(cfg.RAG, embedder, llm, opener), nil
}

func storeOpener(cfg *config.Config) session.StoreOpener {
	switch cfg.Store.Type {
	case config.StorePostgres:
		return func(ctx context.Context) (vectorstore.Store, error) {
			return postgres.NewStore(ctx, cfg.Store.Postgres)
		}
	default:
		return func(ctx context.Context) (vectorstore.Store, error) {
			if err := helper.CreateFolder(cfg.Store.Path); err != nil {
				return nil, err
			}
			return chromemdb.NewStore(cfg.Store.Path, cfg.Store.Collection, false)
		}
	}
}

func ingestOnce(ctx context.Context, sess *session.Session, filePath, query string) {
	record, err := sess.IngestFile(ctx, filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", filePath).Msg("Error processing document")
	}
	log.Info().Str("file", record.FileName).Int("pages", record.PageCount).Int("chunks", record.ChunkCount).Msg("Document indexed")
	helper.PrettyPrint(record)

	// -file combined with -query ingests first, then answers against the
	// fresh index.
	if query != "" {
		askOnce(ctx, sess, query)
	}
}

func askOnce(ctx context.Context, sess *session.Session, query string) {
	turn, err := sess.Ask(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error answering query")
	}

	fmt.Printf("Q: %s\n\n%s\n", query, turn.Content)
	for _, src := range turn.Sources {
		fmt.Printf("\n  page %d of %s: %q\n", src.PageNumber, src.SourceFile, src.Snippet)
	}
}

func runTUI(ctx context.Context, sess *session.Session) {
	program := tea.NewProgram(tui.New(ctx, sess), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatal().Err(err).Msg("TUI terminated with error")
	}
}
