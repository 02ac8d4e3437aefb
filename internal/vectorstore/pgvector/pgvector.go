// Package pgvector backs the vector store with PostgreSQL and the
// pgvector extension. Similarity is computed server-side with the
// cosine distance operator and converted to similarity (1 - distance)
// so the score convention matches the other backends.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	pgv "github.com/pgvector/pgvector-go"

	"docuchat/internal/domain"
)

// Store is a pgvector-backed vector store.
type Store struct {
	db *sql.DB
}

// New connects to PostgreSQL, enables the vector extension and
// creates the chunks table for the given embedding dimension.
func New(dsn string, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension: %d", dimension)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	setup := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			id BIGSERIAL PRIMARY KEY,
			group_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			document_type TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			text TEXT NOT NULL,
			vector vector(%d) NOT NULL
		)`, dimension),
		`CREATE INDEX IF NOT EXISTS idx_chunks_group ON chunks(group_id)`,
	}
	for _, q := range setup {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, fmt.Errorf("vector store setup failed: %w", err)
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
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx,
			c.Chunk.VectorGroupID, c.Chunk.Filename, c.Chunk.DocumentType,
			c.Chunk.ChunkIndex, c.Chunk.Text, pgv.NewVector(c.Vector)); err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	return tx.Commit()
}

// Search ranks chunks by cosine distance server-side.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievalHit, error) {
	if topK <= 0 {
		topK = 5
	}

	vec := pgv.NewVector(vector)
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_id, filename, document_type, chunk_index, text,
		       1 - (vector <=> $1) AS score
		FROM chunks
		ORDER BY vector <=> $1
		LIMIT $2
	`, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	var hits []domain.RetrievalHit
	for rows.Next() {
		var hit domain.RetrievalHit
		if err := rows.Scan(&hit.Chunk.VectorGroupID, &hit.Chunk.Filename,
			&hit.Chunk.DocumentType, &hit.Chunk.ChunkIndex, &hit.Chunk.Text,
			&hit.Score); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating through chunks: %w", err)
	}

	return hits, nil
}

// DeleteGroup removes every chunk indexed under a vector group id.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE group_id = $1`, groupID)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
