package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docuchat/internal/chunker"
	"docuchat/internal/domain"
	"docuchat/internal/llm"
	"docuchat/internal/loader"
	"docuchat/internal/parse"
	"docuchat/internal/vectorstore"
)

// ProcessorService runs the document pipeline: load, classify,
// extract, chunk, embed, index.
type ProcessorService struct {
	provider llm.Provider
	store    vectorstore.Store
	splitter *chunker.Splitter
	logger   *zap.Logger
}

// NewProcessorService creates the document pipeline service.
func NewProcessorService(provider llm.Provider, store vectorstore.Store, splitter *chunker.Splitter, logger *zap.Logger) *ProcessorService {
	return &ProcessorService{
		provider: provider,
		store:    store,
		splitter: splitter,
		logger:   logger,
	}
}

// Process runs the pipeline for one document. Classification and
// extraction degrade gracefully; load and index failures abort with
// ErrUnsupportedFormat, ErrLoadFailed or ErrIndexFailed. Chat quality
// depends on the chunks being indexed, not on perfect metadata, so
// only the steps that create the chunks are fatal.
func (s *ProcessorService) Process(ctx context.Context, filePath, originalFilename string) (*domain.ProcessingResult, error) {
	pages, err := loader.Load(filePath)
	if err != nil {
		return nil, err
	}

	fullText := strings.Join(pages, "\n")
	if strings.TrimSpace(fullText) == "" {
		return nil, fmt.Errorf("%w: %s: document contains no text", domain.ErrLoadFailed, filePath)
	}

	documentType := s.Classify(ctx, fullText)
	extractedData := s.Extract(ctx, fullText, documentType)

	groupID := uuid.New().String()
	texts := s.splitter.Split(fullText)
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			Text:          text,
			VectorGroupID: groupID,
			Filename:      originalFilename,
			DocumentType:  documentType,
			ChunkIndex:    i,
		}
	}

	if err := s.index(ctx, chunks); err != nil {
		return nil, err
	}

	var byteSize int64
	if info, err := os.Stat(filePath); err == nil {
		byteSize = info.Size()
	}

	s.logger.Info("document processed",
		zap.String("filename", originalFilename),
		zap.String("document_type", documentType),
		zap.Int("pages", len(pages)),
		zap.Int("chunks", len(chunks)),
	)

	return &domain.ProcessingResult{
		DocumentType:  documentType,
		ExtractedData: extractedData,
		Metadata: domain.ProcessingMetadata{
			PageCount:   len(pages),
			ChunkCount:  len(chunks),
			ByteSize:    byteSize,
			ProcessedAt: time.Now(),
		},
		VectorGroupID: groupID,
	}, nil
}

// Classify asks the model for the document type. Always returns a
// taxonomy value; model failure or junk output maps to "other".
func (s *ProcessorService) Classify(ctx context.Context, text string) string {
	prompt := fmt.Sprintf(classificationPrompt, textPrefix(text, classifyPrefixBytes))
	answer, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("classification failed, defaulting to other", zap.Error(err))
		return domain.DocTypeOther
	}
	return parse.Category(answer)
}

// Extract pulls structured data from the document using the prompt
// registered for its type. Unregistered types and unparsable model
// output degrade to raw text excerpts.
func (s *ProcessorService) Extract(ctx context.Context, text, documentType string) map[string]any {
	excerpt := textPrefix(text, rawExcerptBytes)

	tmpl, ok := extractionPrompts[documentType]
	if !ok {
		return map[string]any{"raw_text": excerpt}
	}

	prompt := fmt.Sprintf(tmpl, textPrefix(text, extractPrefixBytes))
	answer, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("extraction failed, keeping raw excerpt",
			zap.String("document_type", documentType), zap.Error(err))
		return map[string]any{"raw_text": excerpt}
	}

	if data, ok := parse.JSONObject(answer); ok {
		return data
	}
	return map[string]any{"extracted_text": answer, "raw_text": excerpt}
}

// index embeds all chunks in one batch and writes them to the vector
// store. Any failure here leaves the document invisible to retrieval,
// so it aborts the pipeline.
func (s *ProcessorService) index(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embedding: %v", domain.ErrIndexFailed, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrIndexFailed, len(vectors), len(chunks))
	}

	indexed := make([]domain.IndexedChunk, len(chunks))
	for i := range chunks {
		indexed[i] = domain.IndexedChunk{Vector: vectors[i], Chunk: chunks[i]}
	}
	if err := s.store.Upsert(ctx, indexed); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexFailed, err)
	}
	return nil
}

// Search performs a pure semantic search without generation.
func (s *ProcessorService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	vector, err := s.provider.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := s.store.Search(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.SearchResult{
			Content: hit.Chunk.Text,
			Metadata: map[string]any{
				"document_id":   hit.Chunk.VectorGroupID,
				"filename":      hit.Chunk.Filename,
				"document_type": hit.Chunk.DocumentType,
				"chunk_index":   hit.Chunk.ChunkIndex,
			},
			Score: hit.Score,
		}
	}
	return results, nil
}
