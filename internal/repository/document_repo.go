package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"docuchat/internal/domain"
)

// DocumentRepository handles document record persistence
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// DocumentFilter narrows List results
type DocumentFilter struct {
	DocumentType string
	Status       string
	Offset       int
	Limit        int
}

// Create inserts a new document record
func (r *DocumentRepository) Create(doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.Status == "" {
		doc.Status = domain.DocumentStatusProcessing
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO documents (id, filename, original_filename, file_path, file_size, file_type, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, doc.OriginalFilename, doc.FilePath, doc.FileSize,
		doc.FileType, doc.Status, doc.CreatedAt, doc.UpdatedAt)

	return err
}

// Get retrieves a document record by ID. Returns nil when not found.
func (r *DocumentRepository) Get(id string) (*domain.Document, error) {
	row := r.db.QueryRow(`
		SELECT id, filename, original_filename, file_path, file_size, file_type,
		       document_type, status, extracted_data, metadata, vector_group_id,
		       error, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List retrieves document records matching the filter plus the total
// match count.
func (r *DocumentRepository) List(filter DocumentFilter) ([]*domain.Document, int, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.DocumentType != "" {
		where += " AND document_type = ?"
		args = append(args, filter.DocumentType)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM documents"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT id, filename, original_filename, file_path, file_size, file_type,
		       document_type, status, extracted_data, metadata, vector_group_id,
		       error, created_at, updated_at
		FROM documents` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, append(args, limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var documents []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		documents = append(documents, doc)
	}
	return documents, total, rows.Err()
}

// MarkCompleted stores the processing result and flips the record to
// completed.
func (r *DocumentRepository) MarkCompleted(id string, result *domain.ProcessingResult) error {
	extractedJSON, _ := json.Marshal(result.ExtractedData)
	metadataJSON, _ := json.Marshal(result.Metadata)

	_, err := r.db.Exec(`
		UPDATE documents
		SET status = ?, document_type = ?, extracted_data = ?, metadata = ?,
		    vector_group_id = ?, error = '', updated_at = ?
		WHERE id = ?
	`, domain.DocumentStatusCompleted, result.DocumentType, string(extractedJSON),
		string(metadataJSON), result.VectorGroupID, time.Now(), id)
	return err
}

// MarkFailed flips the record to failed with the failure reason, so a
// document never stays stuck in processing.
func (r *DocumentRepository) MarkFailed(id, errMsg string) error {
	_, err := r.db.Exec(`
		UPDATE documents SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, domain.DocumentStatusFailed, errMsg, time.Now(), id)
	return err
}

// Delete removes a document record
func (r *DocumentRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	doc := &domain.Document{}
	var documentType, extractedJSON, metadataJSON, groupID, errMsg sql.NullString

	err := row.Scan(&doc.ID, &doc.Filename, &doc.OriginalFilename, &doc.FilePath,
		&doc.FileSize, &doc.FileType, &documentType, &doc.Status,
		&extractedJSON, &metadataJSON, &groupID, &errMsg,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}

	doc.DocumentType = documentType.String
	doc.VectorGroupID = groupID.String
	doc.Error = errMsg.String
	if extractedJSON.Valid && extractedJSON.String != "" {
		json.Unmarshal([]byte(extractedJSON.String), &doc.ExtractedData)
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata)
	}
	return doc, nil
}
