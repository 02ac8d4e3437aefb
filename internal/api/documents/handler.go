package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docuchat/internal/domain"
	"docuchat/internal/repository"
	"docuchat/internal/service"
)

// Handler handles document API requests
type Handler struct {
	ingestService *service.IngestService
	processor     *service.ProcessorService
	documentRepo  *repository.DocumentRepository
}

// NewHandler creates a new documents handler
func NewHandler(
	ingestService *service.IngestService,
	processor *service.ProcessorService,
	documentRepo *repository.DocumentRepository,
) *Handler {
	return &Handler{
		ingestService: ingestService,
		processor:     processor,
		documentRepo:  documentRepo,
	}
}

// RegisterRoutes registers document routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload", h.Upload)
	r.GET("", h.List)
	r.GET("/types", h.Types)
	r.GET("/:id", h.Get)
	r.DELETE("/:id", h.Delete)
	r.POST("/search", h.Search)
}

// Upload accepts a document and starts background processing
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	resp, err := h.ingestService.UploadDocument(file)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedFormat), errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List returns document records with optional filtering
func (h *Handler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 {
		limit = 10
	}

	docs, total, err := h.documentRepo.List(repository.DocumentFilter{
		DocumentType: c.Query("document_type"),
		Status:       c.Query("status"),
		Offset:       skip,
		Limit:        limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.DocumentListResponse{
		Documents: docs,
		Total:     total,
		Page:      skip/limit + 1,
		PageSize:  limit,
	})
}

// Get returns a single document record
func (h *Handler) Get(c *gin.Context) {
	doc, err := h.documentRepo.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Delete removes a document, its stored file and its indexed chunks
func (h *Handler) Delete(c *gin.Context) {
	err := h.ingestService.DeleteDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// Search performs semantic search over indexed chunks
func (h *Handler) Search(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	results, err := h.processor.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(req.DocumentTypes) > 0 {
		wanted := make(map[string]bool, len(req.DocumentTypes))
		for _, t := range req.DocumentTypes {
			wanted[t] = true
		}
		filtered := results[:0]
		for _, r := range results {
			if t, ok := r.Metadata["document_type"].(string); ok && wanted[t] {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	c.JSON(http.StatusOK, domain.SearchResponse{
		Results: results,
		Total:   len(results),
		Query:   req.Query,
	})
}

// Types lists the classification taxonomy and supported extensions
func (h *Handler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"document_types":  domain.DocumentTypes,
		"file_extensions": h.ingestService.AllowedExtensions(),
	})
}
