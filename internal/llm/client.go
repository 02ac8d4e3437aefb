package llm

import "context"

// Embedder maps text to fixed-dimension vectors for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces text from a single prompt. Single-turn, no
// built-in memory; conversation state is the caller's concern.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider combines the two model capabilities the core consumes.
type Provider interface {
	Embedder
	Generator
}
