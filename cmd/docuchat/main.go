package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"docuchat/internal/api"
	"docuchat/internal/chunker"
	"docuchat/internal/config"
	"docuchat/internal/llm"
	"docuchat/internal/repository"
	"docuchat/internal/service"
	"docuchat/internal/session"
	"docuchat/internal/vectorstore"
	"docuchat/internal/vectorstore/memory"
	"docuchat/internal/vectorstore/pgvector"
	"docuchat/internal/vectorstore/sqlitevec"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database for document records
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	documentRepo := repository.NewDocumentRepository(db)

	// Initialize vector store
	store, err := newVectorStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize vector store", zap.Error(err))
	}
	defer store.Close()

	// Initialize LLM provider
	provider := llm.NewOpenAIClient(llm.OpenAIConfig{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		ChatModel:      cfg.LLM.ChatModel,
		Timeout:        time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})

	// Chunking parameters are validated by config.Load
	splitter, err := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		logger.Fatal("Failed to create chunker", zap.Error(err))
	}

	// Initialize services
	sessions := session.NewMemoryStore()

	processor := service.NewProcessorService(provider, store, splitter, logger)

	ingestService := service.NewIngestService(
		documentRepo,
		processor,
		store,
		cfg.Storage.UploadDir,
		cfg.Storage.MaxFileSize,
		cfg.Storage.AllowedExtensions,
		logger,
	)

	chatService := service.NewChatService(provider, store, sessions, service.ChatOptions{
		TopK:               cfg.RAG.TopK,
		HistoryLimit:       cfg.RAG.HistoryLimit,
		ConfidenceHigh:     cfg.RAG.ConfidenceHigh,
		ConfidenceLow:      cfg.RAG.ConfidenceLow,
		SourcePreviewChars: cfg.RAG.SourcePreviewChars,
	}, logger)

	// Setup router
	router := api.SetupRouter(ingestService, processor, chatService, documentRepo, api.RouterConfig{
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting DocuChat server",
			zap.String("address", cfg.Address()),
			zap.String("vector_backend", cfg.Vector.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newVectorStore(cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.Vector.Backend {
	case "pgvector":
		return pgvector.New(cfg.Vector.PostgresDSN, cfg.Vector.Dimension)
	case "memory":
		return memory.New(), nil
	default:
		return sqlitevec.New(cfg.Vector.Path)
	}
}
