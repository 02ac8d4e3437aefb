// Package memory provides an in-process vector store using brute-force
// cosine similarity. Suitable for tests and small corpora; nothing is
// persisted.
package memory

import (
	"context"
	"sort"
	"sync"

	"docuchat/internal/domain"
	"docuchat/internal/vectorstore"
)

// Store is an in-memory vector store.
type Store struct {
	mu      sync.RWMutex
	entries []domain.IndexedChunk
}

// New creates an empty in-memory store.
func New() *Store { return &Store{} }

// Upsert appends vector/chunk pairs.
func (s *Store) Upsert(_ context.Context, chunks []domain.IndexedChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, chunks...)
	return nil
}

// Search scans all entries and returns the topK most similar.
func (s *Store) Search(_ context.Context, vector []float32, topK int) ([]domain.RetrievalHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 {
		topK = 5
	}

	hits := make([]domain.RetrievalHit, 0, len(s.entries))
	for _, e := range s.entries {
		hits = append(hits, domain.RetrievalHit{
			Chunk: e.Chunk,
			Score: vectorstore.Cosine(vector, e.Vector),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK], nil
}

// DeleteGroup removes all entries for a vector group id.
func (s *Store) DeleteGroup(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.Chunk.VectorGroupID != groupID {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// Len returns the number of indexed chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
