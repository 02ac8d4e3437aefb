// Package chunker splits document text into overlapping, size-bounded
// segments for embedding and retrieval.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"docuchat/internal/domain"
)

// Default chunking parameters, matching the ingestion defaults.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Separator groups tried in order when choosing a cut point: paragraph
// breaks first, then sentence ends, then word boundaries.
var separatorGroups = [][]string{
	{"\n\n"},
	{". ", "! ", "? ", "\n"},
	{" "},
}

// Splitter produces overlapping chunks of at most size bytes. Chunks
// are raw slices of the input, so concatenating chunk 0 with every
// later chunk minus its shared prefix reconstructs the input exactly.
// The shared prefix is the configured overlap, shortened when the
// overlap distance lands inside a multi-byte character: every chunk
// begins and ends on a rune boundary.
type Splitter struct {
	size    int
	overlap int
}

// New creates a Splitter. The overlap must be smaller than the chunk
// size, otherwise consecutive chunks could never advance.
func New(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap must satisfy 0 <= overlap < size, got %d/%d",
			domain.ErrInvalidConfig, overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Size returns the configured maximum chunk size in bytes.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the configured overlap in bytes.
func (s *Splitter) Overlap() int { return s.overlap }

// Split chunks text into segments of at most size bytes where each
// segment shares at most its first overlap bytes with the tail of the
// previous one. Cut points prefer paragraph, then sentence, then word
// boundaries before falling back to a hard cut on a rune boundary.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		remaining := len(text) - start
		if remaining <= s.size {
			chunks = append(chunks, text[start:])
			return chunks
		}

		end := s.cutPoint(text, start)
		chunks = append(chunks, text[start:end])
		start = end - s.overlap
		// The overlap distance may land inside a multi-byte character;
		// advance to the next rune start so the chunk is a valid string.
		for start < end && !utf8.RuneStart(text[start]) {
			start++
		}
	}
}

// cutPoint picks the end offset for a chunk beginning at start. The
// cut must land strictly after start+overlap so the next chunk makes
// forward progress.
func (s *Splitter) cutPoint(text string, start int) int {
	limit := start + s.size
	window := text[start:limit]
	minCut := s.overlap + 1

	for _, group := range separatorGroups {
		best := -1
		for _, sep := range group {
			if idx := strings.LastIndex(window, sep); idx >= 0 {
				cut := idx + len(sep)
				if cut >= minCut && cut > best {
					best = cut
				}
			}
		}
		if best > 0 {
			return start + best
		}
	}

	// Hard cut: back off to a rune boundary so multi-byte characters
	// are never split across chunks.
	end := limit
	for end > start+minCut && !utf8.RuneStart(text[end]) {
		end--
	}
	if end <= start+s.overlap {
		end = limit
	}
	return end
}
