// Package sqlitevec persists chunk vectors in a SQLite database. The
// search is a brute-force cosine scan over all stored vectors, which
// is adequate for a single-process corpus of tens of thousands of
// chunks.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"docuchat/internal/domain"
	"docuchat/internal/vectorstore"
)

// Store is a SQLite-backed vector store.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the vector database at path.
func New(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vector database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector database: %w", err)
	}

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			group_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			document_type TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			text TEXT NOT NULL,
			vector TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_group ON chunks(group_id)`,
	}
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			db.Close()
			return nil, fmt.Errorf("vector store migration failed: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Upsert writes all vector/chunk pairs in a single transaction.
func (s *Store) Upsert(ctx context.Context, chunks []domain.IndexedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (group_id, filename, document_type, chunk_index, text, vector)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chunks {
		vec, err := json.Marshal(c.Vector)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			c.Chunk.VectorGroupID, c.Chunk.Filename, c.Chunk.DocumentType,
			c.Chunk.ChunkIndex, c.Chunk.Text, string(vec)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Search loads all vectors and ranks them by cosine similarity.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievalHit, error) {
	if topK <= 0 {
		topK = 5
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT group_id, filename, document_type, chunk_index, text, vector FROM chunks
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []domain.RetrievalHit
	for rows.Next() {
		var chunk domain.Chunk
		var vecJSON string
		if err := rows.Scan(&chunk.VectorGroupID, &chunk.Filename, &chunk.DocumentType,
			&chunk.ChunkIndex, &chunk.Text, &vecJSON); err != nil {
			return nil, err
		}
		var vec []float32
		if err := json.Unmarshal([]byte(vecJSON), &vec); err != nil {
			return nil, fmt.Errorf("corrupt vector for chunk %s/%d: %w", chunk.VectorGroupID, chunk.ChunkIndex, err)
		}
		hits = append(hits, domain.RetrievalHit{
			Chunk: chunk,
			Score: vectorstore.Cosine(vector, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK], nil
}

// DeleteGroup removes every chunk indexed under a vector group id.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE group_id = ?`, groupID)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
