package config

import (
	"fmt"

	"github.com/spf13/viper"

	"docuchat/internal/domain"
)

// Config holds all configuration for DocuChat
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Vector   VectorConfig   `mapstructure:"vector"`
	LLM      LLMConfig      `mapstructure:"llm"`
	RAG      RAGConfig      `mapstructure:"rag"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds document record database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig holds uploaded file storage configuration
type StorageConfig struct {
	UploadDir         string   `mapstructure:"upload_dir"`
	MaxFileSize       int64    `mapstructure:"max_file_size"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// VectorConfig holds vector store configuration
type VectorConfig struct {
	Backend     string `mapstructure:"backend"` // sqlite, pgvector, memory
	Path        string `mapstructure:"path"`    // sqlite backend
	PostgresDSN string `mapstructure:"postgres_dsn"`
	Dimension   int    `mapstructure:"dimension"` // pgvector column size
}

// LLMConfig holds LLM provider configuration
type LLMConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	ChatModel      string `mapstructure:"chat_model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// RAGConfig holds retrieval and chat engine configuration
type RAGConfig struct {
	ChunkSize          int     `mapstructure:"chunk_size"`
	ChunkOverlap       int     `mapstructure:"chunk_overlap"`
	TopK               int     `mapstructure:"top_k"`
	HistoryLimit       int     `mapstructure:"history_limit"`
	ConfidenceHigh     float64 `mapstructure:"confidence_high"`
	ConfidenceLow      float64 `mapstructure:"confidence_low"`
	SourcePreviewChars int     `mapstructure:"source_preview_chars"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("DOCUCHAT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.path", "./data/docuchat.db")

	v.SetDefault("storage.upload_dir", "./data/uploads")
	v.SetDefault("storage.max_file_size", 10*1024*1024)
	v.SetDefault("storage.allowed_extensions", []string{".pdf", ".txt", ".md", ".docx"})

	v.SetDefault("vector.backend", "sqlite")
	v.SetDefault("vector.path", "./data/vectors.db")
	v.SetDefault("vector.postgres_dsn", "")
	v.SetDefault("vector.dimension", 1536)

	v.SetDefault("llm.base_url", "http://localhost:11434/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.embedding_model", "nomic-embed-text")
	v.SetDefault("llm.chat_model", "qwen2.5:7b")
	v.SetDefault("llm.timeout_seconds", 60)

	v.SetDefault("rag.chunk_size", 1000)
	v.SetDefault("rag.chunk_overlap", 200)
	v.SetDefault("rag.top_k", 5)
	v.SetDefault("rag.history_limit", 5)
	v.SetDefault("rag.confidence_high", 0.8)
	v.SetDefault("rag.confidence_low", 0.3)
	v.SetDefault("rag.source_preview_chars", 200)
}

// Validate rejects configurations the pipeline cannot run with.
// Chunking parameters are checked here so a bad overlap fails at
// startup rather than on the first upload.
func (c *Config) Validate() error {
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("%w: rag.chunk_size must be positive, got %d", domain.ErrInvalidConfig, c.RAG.ChunkSize)
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("%w: rag.chunk_overlap must satisfy 0 <= overlap < chunk_size, got %d/%d",
			domain.ErrInvalidConfig, c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("%w: rag.top_k must be positive, got %d", domain.ErrInvalidConfig, c.RAG.TopK)
	}
	switch c.Vector.Backend {
	case "sqlite", "pgvector", "memory":
	default:
		return fmt.Errorf("%w: unknown vector backend %q", domain.ErrInvalidConfig, c.Vector.Backend)
	}
	return nil
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
