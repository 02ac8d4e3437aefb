package memory

import (
	"context"
	"testing"

	"docuchat/internal/domain"
)

func chunk(group, filename string, index int, vec []float32) domain.IndexedChunk {
	return domain.IndexedChunk{
		Vector: vec,
		Chunk: domain.Chunk{
			Text:          "text",
			VectorGroupID: group,
			Filename:      filename,
			ChunkIndex:    index,
		},
	}
}

func TestStore_SearchRanking(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Upsert(ctx, []domain.IndexedChunk{
		chunk("g1", "a.txt", 0, []float32{1, 0, 0}),
		chunk("g1", "b.txt", 1, []float32{0, 1, 0}),
		chunk("g2", "c.txt", 0, []float32{0.9, 0.1, 0}),
	})
	if err != nil {
		t.Fatal(err)
	}

	hits, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Chunk.Filename != "a.txt" {
		t.Errorf("expected exact match first, got %q", hits[0].Chunk.Filename)
	}
	if hits[1].Chunk.Filename != "c.txt" {
		t.Errorf("expected near match second, got %q", hits[1].Chunk.Filename)
	}
	if hits[0].Score < hits[1].Score {
		t.Error("hits not ordered by descending score")
	}
}

func TestStore_SearchEmptyAndClamp(t *testing.T) {
	ctx := context.Background()
	store := New()

	hits, err := store.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits from empty store, got %d", len(hits))
	}

	store.Upsert(ctx, []domain.IndexedChunk{chunk("g1", "a.txt", 0, []float32{1, 0})})
	hits, _ = store.Search(ctx, []float32{1, 0}, 10)
	if len(hits) != 1 {
		t.Errorf("expected topK clamped to store size, got %d", len(hits))
	}
}

func TestStore_DeleteGroup(t *testing.T) {
	ctx := context.Background()
	store := New()

	store.Upsert(ctx, []domain.IndexedChunk{
		chunk("g1", "a.txt", 0, []float32{1, 0}),
		chunk("g1", "a.txt", 1, []float32{0, 1}),
		chunk("g2", "b.txt", 0, []float32{1, 1}),
	})

	if err := store.DeleteGroup(ctx, "g1"); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 chunk left, got %d", store.Len())
	}
	hits, _ := store.Search(ctx, []float32{1, 1}, 10)
	if len(hits) != 1 || hits[0].Chunk.VectorGroupID != "g2" {
		t.Errorf("unexpected survivors: %+v", hits)
	}
}
