package domain

import "time"

// Document status constants
const (
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

// Document type taxonomy produced by classification
const (
	DocTypeContract = "contract"
	DocTypeInvoice  = "invoice"
	DocTypeReport   = "report"
	DocTypeLetter   = "letter"
	DocTypeOther    = "other"
)

// DocumentTypes lists the classification taxonomy in a stable order.
var DocumentTypes = []string{
	DocTypeContract,
	DocTypeInvoice,
	DocTypeReport,
	DocTypeLetter,
	DocTypeOther,
}

// Document represents a stored document record
type Document struct {
	ID               string         `json:"id"`
	Filename         string         `json:"filename"`
	OriginalFilename string         `json:"original_filename"`
	FilePath         string         `json:"file_path,omitempty"`
	FileSize         int64          `json:"file_size"`
	FileType         string         `json:"file_type"`
	DocumentType     string         `json:"document_type,omitempty"`
	Status           string         `json:"status"`
	ExtractedData    map[string]any `json:"extracted_data,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	VectorGroupID    string         `json:"vector_group_id,omitempty"`
	Error            string         `json:"error,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ProcessingMetadata describes a completed pipeline run
type ProcessingMetadata struct {
	PageCount   int       `json:"page_count"`
	ChunkCount  int       `json:"chunk_count"`
	ByteSize    int64     `json:"byte_size"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ProcessingResult is the output of the document pipeline
type ProcessingResult struct {
	DocumentType  string             `json:"document_type"`
	ExtractedData map[string]any     `json:"extracted_data"`
	Metadata      ProcessingMetadata `json:"metadata"`
	VectorGroupID string             `json:"vector_group_id"`
}

// DocumentUploadResponse is returned immediately after upload while
// processing continues in the background
type DocumentUploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// DocumentListResponse is the response for listing documents
type DocumentListResponse struct {
	Documents []*Document `json:"documents"`
	Total     int         `json:"total"`
	Page      int         `json:"page"`
	PageSize  int         `json:"page_size"`
}

// SearchRequest is a semantic search request over indexed chunks
type SearchRequest struct {
	Query         string   `json:"query" binding:"required"`
	Limit         int      `json:"limit"`
	DocumentTypes []string `json:"document_types,omitempty"`
}

// SearchResult is a single semantic search match
type SearchResult struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Score    float64        `json:"score"`
}

// SearchResponse is the response for semantic search
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
	Query   string         `json:"query"`
}
