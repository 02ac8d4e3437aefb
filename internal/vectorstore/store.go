// Package vectorstore defines the vector index abstraction used by the
// document pipeline and the chat engine, plus shared vector math.
//
// Scores returned by every backend are cosine similarity: higher is
// better, 1 is identical direction. Ranking and confidence computation
// rely on this convention uniformly.
package vectorstore

import (
	"context"
	"math"

	"docuchat/internal/domain"
)

// Store persists chunk vectors with their metadata and supports
// similarity search.
type Store interface {
	// Upsert writes vector/chunk pairs as one batch.
	Upsert(ctx context.Context, chunks []domain.IndexedChunk) error
	// Search returns up to topK hits ordered by descending similarity.
	Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievalHit, error)
	// DeleteGroup removes every chunk indexed under a vector group id.
	DeleteGroup(ctx context.Context, groupID string) error
	Close() error
}

// Cosine returns the cosine similarity of two vectors. Zero-magnitude
// or mismatched-length inputs score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
