package domain

// Chunk is a bounded text segment of a source document, tagged with
// provenance metadata. Immutable once created; owned by the vector
// store after indexing.
type Chunk struct {
	Text          string `json:"text"`
	VectorGroupID string `json:"vector_group_id"`
	Filename      string `json:"filename"`
	DocumentType  string `json:"document_type"`
	ChunkIndex    int    `json:"chunk_index"`
}

// IndexedChunk pairs a chunk with its embedding vector. The pairing is
// 1:1 and permanent; created only by the embedding step of the
// document pipeline.
type IndexedChunk struct {
	Vector []float32
	Chunk  Chunk
}

// RetrievalHit is a chunk matched by similarity search. Score is
// cosine similarity, higher is better; transient, never persisted.
type RetrievalHit struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
