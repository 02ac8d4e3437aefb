package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docuchat/internal/domain"
	"docuchat/internal/loader"
	"docuchat/internal/repository"
	"docuchat/internal/vectorstore"
)

// IngestService accepts document uploads, persists the record, and
// hands the file to the processing pipeline in the background.
type IngestService struct {
	documentRepo *repository.DocumentRepository
	processor    *ProcessorService
	store        vectorstore.Store
	uploadDir    string
	maxFileSize  int64
	allowedExts  map[string]bool
	logger       *zap.Logger
}

// NewIngestService creates a new ingest service. An empty
// allowedExtensions list admits everything the loader registry
// supports; a non-empty list narrows it further.
func NewIngestService(
	documentRepo *repository.DocumentRepository,
	processor *ProcessorService,
	store vectorstore.Store,
	uploadDir string,
	maxFileSize int64,
	allowedExtensions []string,
	logger *zap.Logger,
) *IngestService {
	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}
	return &IngestService{
		documentRepo: documentRepo,
		processor:    processor,
		store:        store,
		uploadDir:    uploadDir,
		maxFileSize:  maxFileSize,
		allowedExts:  allowed,
		logger:       logger,
	}
}

// UploadDocument validates and stores the upload, creates a record in
// processing state, and starts background processing. The caller gets
// an answer as soon as the file is on disk; results land on the record
// when the pipeline finishes.
func (s *IngestService) UploadDocument(file *multipart.FileHeader) (*domain.DocumentUploadResponse, error) {
	ext, err := s.validateUpload(file.Filename, file.Size)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	docID := uuid.New().String()
	storedName := docID + ext
	storagePath := filepath.Join(s.uploadDir, storedName)

	if err := saveUpload(file, storagePath); err != nil {
		return nil, err
	}

	document := &domain.Document{
		ID:               docID,
		Filename:         storedName,
		OriginalFilename: file.Filename,
		FilePath:         storagePath,
		FileSize:         file.Size,
		FileType:         ext,
		Status:           domain.DocumentStatusProcessing,
	}
	if err := s.documentRepo.Create(document); err != nil {
		os.Remove(storagePath)
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	// Fire-and-continue: the upload response does not wait for the
	// pipeline. The background context outlives the request.
	go s.processDocument(context.Background(), document)

	return &domain.DocumentUploadResponse{
		DocumentID: docID,
		Filename:   file.Filename,
		Status:     domain.DocumentStatusProcessing,
		Message:    "Document uploaded successfully and processing started",
	}, nil
}

// validateUpload checks the extension and size limits before anything
// is written to disk. Returns the normalized extension.
func (s *IngestService) validateUpload(filename string, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !loader.Supported(ext) || !s.allowed(ext) {
		return "", fmt.Errorf("%w: %s (allowed: %s)",
			domain.ErrUnsupportedFormat, ext, strings.Join(s.AllowedExtensions(), ", "))
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return "", fmt.Errorf("%w: file size %d exceeds maximum %d",
			domain.ErrInvalidRequest, size, s.maxFileSize)
	}
	return ext, nil
}

func (s *IngestService) allowed(ext string) bool {
	return len(s.allowedExts) == 0 || s.allowedExts[ext]
}

// AllowedExtensions returns the effective upload extensions: the
// loader registry intersected with the configured allow list.
func (s *IngestService) AllowedExtensions() []string {
	var exts []string
	for _, ext := range loader.Extensions() {
		if s.allowed(ext) {
			exts = append(exts, ext)
		}
	}
	return exts
}

// processDocument runs the pipeline and records the outcome. A record
// marked processing always ends up completed or failed.
func (s *IngestService) processDocument(ctx context.Context, document *domain.Document) {
	result, err := s.processor.Process(ctx, document.FilePath, document.OriginalFilename)
	if err != nil {
		s.logger.Error("document processing failed",
			zap.String("document_id", document.ID),
			zap.String("filename", document.OriginalFilename),
			zap.Error(err),
		)
		if dbErr := s.documentRepo.MarkFailed(document.ID, err.Error()); dbErr != nil {
			s.logger.Error("failed to mark document as failed",
				zap.String("document_id", document.ID), zap.Error(dbErr))
		}
		return
	}

	if err := s.documentRepo.MarkCompleted(document.ID, result); err != nil {
		s.logger.Error("failed to mark document as completed",
			zap.String("document_id", document.ID), zap.Error(err))
	}
}

// DeleteDocument removes the stored file, the indexed chunks and the
// record.
func (s *IngestService) DeleteDocument(ctx context.Context, id string) error {
	document, err := s.documentRepo.Get(id)
	if err != nil {
		return err
	}
	if document == nil {
		return domain.ErrNotFound
	}

	if document.FilePath != "" {
		if err := os.Remove(document.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove stored file",
				zap.String("path", document.FilePath), zap.Error(err))
		}
	}
	if document.VectorGroupID != "" {
		if err := s.store.DeleteGroup(ctx, document.VectorGroupID); err != nil {
			return fmt.Errorf("failed to delete indexed chunks: %w", err)
		}
	}

	return s.documentRepo.Delete(id)
}

func saveUpload(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create storage file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}
