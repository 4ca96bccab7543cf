package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pdfchat/internal/models"
)

// Provider identifiers accepted by the llm sections.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Store backend identifiers.
const (
	StoreChromem  = "chromem"
	StorePostgres = "postgres"
)

// LLMConfig configures one langchaingo-backed model endpoint. Key is never
// read from the file; KeyEnv names the environment variable holding it.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	KeyEnv   string `yaml:"key_env"`
	Key      string `yaml:"-"`
}

// RAGConfig holds the chunking and retrieval knobs.
type RAGConfig struct {
	ChunkSize    int     `yaml:"chunk_size"`
	ChunkOverlap int     `yaml:"chunk_overlap"`
	TopK         int     `yaml:"top_k"`
	Temperature  float64 `yaml:"temperature"`
	SnippetLen   int     `yaml:"snippet_len"`
}

// PostgresConfig contains connection details for the pgvector backend.
type PostgresConfig struct {
	URL        string `yaml:"url"`
	Password   string `yaml:"password"`
	VectorSize int    `yaml:"vector_size"`
	Debug      bool   `yaml:"debug"`
}

// StoreConfig selects and configures the vector index backend.
type StoreConfig struct {
	Type       string          `yaml:"type"`
	Path       string          `yaml:"path"`
	Collection string          `yaml:"collection"`
	Postgres   *PostgresConfig `yaml:"postgres,omitempty"`
}

type Config struct {
	RAG      RAGConfig   `yaml:"rag"`
	Store    StoreConfig `yaml:"store"`
	EmbedLLM LLMConfig   `yaml:"embed_llm"`
	ChatLLM  LLMConfig   `yaml:"chat_llm"`
}

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
	defaultTopK         = 3
	defaultSnippetLen   = 300
	defaultCollection   = "pdf_chat_collection"
	defaultStorePath    = "./chroma_db"
)

// LoadConfig reads the YAML config at path, applies defaults and resolves
// credentials from the environment. A missing file yields pure defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyDefaults(&cfg)
	resolveKeys(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.RAG.ChunkSize <= 0 {
		cfg.RAG.ChunkSize = defaultChunkSize
	}
	if cfg.RAG.ChunkOverlap <= 0 {
		cfg.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if cfg.RAG.TopK <= 0 {
		cfg.RAG.TopK = defaultTopK
	}
	if cfg.RAG.SnippetLen <= 0 {
		cfg.RAG.SnippetLen = defaultSnippetLen
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = StoreChromem
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = defaultCollection
	}
	if cfg.EmbedLLM.Provider == "" {
		cfg.EmbedLLM.Provider = ProviderOpenAI
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = "text-embedding-3-small"
	}
	if cfg.EmbedLLM.KeyEnv == "" {
		cfg.EmbedLLM.KeyEnv = "OPENAI_API_KEY"
	}
	if cfg.ChatLLM.Provider == "" {
		cfg.ChatLLM.Provider = ProviderOpenAI
	}
	if cfg.ChatLLM.Model == "" {
		cfg.ChatLLM.Model = "gpt-3.5-turbo"
	}
	if cfg.ChatLLM.KeyEnv == "" {
		cfg.ChatLLM.KeyEnv = "OPENAI_API_KEY"
	}
}

func resolveKeys(cfg *Config) {
	cfg.EmbedLLM.Key = os.Getenv(cfg.EmbedLLM.KeyEnv)
	cfg.ChatLLM.Key = os.Getenv(cfg.ChatLLM.KeyEnv)
}

// Validate is the startup-time credential gate: hosted providers without a
// key block all document and question functionality.
func (cfg *Config) Validate() error {
	for _, llm := range []struct {
		name string
		cfg  LLMConfig
	}{
		{"embed_llm", cfg.EmbedLLM},
		{"chat_llm", cfg.ChatLLM},
	} {
		switch llm.cfg.Provider {
		case ProviderOpenAI:
			if llm.cfg.Key == "" {
				return fmt.Errorf("%s: %w (set %s)", llm.name, models.ErrMissingCredentials, llm.cfg.KeyEnv)
			}
		case ProviderOllama:
			// local, no key needed
		default:
			return fmt.Errorf("%s: unknown provider %q", llm.name, llm.cfg.Provider)
		}
	}
	if cfg.Store.Type == StorePostgres && (cfg.Store.Postgres == nil || cfg.Store.Postgres.URL == "") {
		return fmt.Errorf("store: postgres backend selected but no url configured")
	}
	if cfg.RAG.ChunkOverlap >= cfg.RAG.ChunkSize {
		return fmt.Errorf("rag: chunk_overlap %d must be smaller than chunk_size %d", cfg.RAG.ChunkOverlap, cfg.RAG.ChunkSize)
	}
	return nil
}
