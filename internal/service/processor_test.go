package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docuchat/internal/chunker"
	"docuchat/internal/domain"
	"docuchat/internal/vectorstore/memory"
)

func newProcessorFixture(t *testing.T) (*ProcessorService, *fakeProvider, *memory.Store) {
	t.Helper()
	provider := &fakeProvider{
		embedVec: []float32{1, 0, 0},
		generateFn: func(prompt string) (string, error) {
			switch {
			case strings.Contains(prompt, "Classification"):
				return "invoice", nil
			case strings.Contains(prompt, "Return as JSON"):
				return `{"invoice_number": "INV-42", "total_amount": "$100"}`, nil
			}
			return "ok", nil
		},
	}
	splitter, err := chunker.New(200, 40)
	require.NoError(t, err)
	store := memory.New()
	return NewProcessorService(provider, store, splitter, zap.NewNop()), provider, store
}

func writeTempText(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func invoiceText() string {
	var b strings.Builder
	b.WriteString("Invoice INV-42 issued to Acme Corp.\n\n")
	for i := 0; i < 20; i++ {
		b.WriteString("Line item: consulting services, 4 hours at $25 per hour. ")
	}
	return b.String()
}

func TestProcess_FullPipeline(t *testing.T) {
	svc, provider, store := newProcessorFixture(t)
	path := writeTempText(t, "invoice_a.txt", invoiceText())

	result, err := svc.Process(context.Background(), path, "invoice_a.pdf")
	require.NoError(t, err)

	// All chunks are embedded in a single batch request.
	require.Equal(t, 1, provider.batchCalls)

	require.Equal(t, domain.DocTypeInvoice, result.DocumentType)
	require.Equal(t, "INV-42", result.ExtractedData["invoice_number"])
	require.NotEmpty(t, result.VectorGroupID)
	require.Equal(t, 1, result.Metadata.PageCount)
	require.Greater(t, result.Metadata.ChunkCount, 1)
	require.Greater(t, result.Metadata.ByteSize, int64(0))
	require.Equal(t, result.Metadata.ChunkCount, store.Len())

	// Every chunk carries the group id, the original filename and a
	// contiguous index.
	hits, err := store.Search(context.Background(), []float32{1, 0, 0}, store.Len())
	require.NoError(t, err)
	indices := make([]int, 0, len(hits))
	for _, hit := range hits {
		require.Equal(t, result.VectorGroupID, hit.Chunk.VectorGroupID)
		require.Equal(t, "invoice_a.pdf", hit.Chunk.Filename)
		require.Equal(t, domain.DocTypeInvoice, hit.Chunk.DocumentType)
		indices = append(indices, hit.Chunk.ChunkIndex)
	}
	sort.Ints(indices)
	for i, idx := range indices {
		require.Equal(t, i, idx)
	}
}

func TestProcess_UnsupportedFormat(t *testing.T) {
	svc, _, store := newProcessorFixture(t)
	path := writeTempText(t, "spreadsheet.xlsx", "not really a spreadsheet")

	_, err := svc.Process(context.Background(), path, "spreadsheet.xlsx")
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	require.Zero(t, store.Len(), "nothing should reach the index")
}

func TestProcess_EmptyDocument(t *testing.T) {
	svc, _, store := newProcessorFixture(t)
	path := writeTempText(t, "blank.txt", "   \n\n  ")

	_, err := svc.Process(context.Background(), path, "blank.txt")
	require.ErrorIs(t, err, domain.ErrLoadFailed)
	require.Zero(t, store.Len())
}

func TestProcess_EmbeddingFailureAborts(t *testing.T) {
	svc, provider, store := newProcessorFixture(t)
	provider.embedErr = errors.New("embedding service down")
	path := writeTempText(t, "doc.txt", invoiceText())

	_, err := svc.Process(context.Background(), path, "doc.txt")
	require.ErrorIs(t, err, domain.ErrIndexFailed)
	require.Zero(t, store.Len())
}

func TestClassify(t *testing.T) {
	svc, provider, _ := newProcessorFixture(t)

	t.Run("clean answer", func(t *testing.T) {
		provider.generateFn = func(string) (string, error) { return "Contract.", nil }
		require.Equal(t, domain.DocTypeContract, svc.Classify(context.Background(), "some text"))
	})

	t.Run("garbage answer", func(t *testing.T) {
		provider.generateFn = func(string) (string, error) {
			return "I am not sure what kind of document this is.", nil
		}
		require.Equal(t, domain.DocTypeOther, svc.Classify(context.Background(), "some text"))
	})

	t.Run("generation failure", func(t *testing.T) {
		provider.generateFn = func(string) (string, error) { return "", errors.New("boom") }
		require.Equal(t, domain.DocTypeOther, svc.Classify(context.Background(), "some text"))
	})
}

func TestExtract(t *testing.T) {
	svc, provider, _ := newProcessorFixture(t)

	t.Run("parsable JSON", func(t *testing.T) {
		provider.generateFn = func(string) (string, error) {
			return "```json\n{\"parties\": [\"Acme\", \"Globex\"]}\n```", nil
		}
		data := svc.Extract(context.Background(), "contract text", domain.DocTypeContract)
		require.Contains(t, data, "parties")
	})

	t.Run("unparsable output keeps both texts", func(t *testing.T) {
		provider.generateFn = func(string) (string, error) {
			return "The contract is between Acme and Globex.", nil
		}
		data := svc.Extract(context.Background(), "contract text", domain.DocTypeContract)
		require.Equal(t, "The contract is between Acme and Globex.", data["extracted_text"])
		require.Equal(t, "contract text", data["raw_text"])
	})

	t.Run("unregistered type skips the model", func(t *testing.T) {
		provider.generateFn = func(string) (string, error) {
			t.Fatal("Generate must not be called for types without a prompt")
			return "", nil
		}
		data := svc.Extract(context.Background(), "plain text", domain.DocTypeOther)
		require.Equal(t, map[string]any{"raw_text": "plain text"}, data)
	})

	t.Run("generation failure keeps raw excerpt", func(t *testing.T) {
		provider.generateFn = func(string) (string, error) { return "", errors.New("boom") }
		data := svc.Extract(context.Background(), "invoice text", domain.DocTypeInvoice)
		require.Equal(t, map[string]any{"raw_text": "invoice text"}, data)
	})
}

func TestSearch(t *testing.T) {
	svc, _, store := newProcessorFixture(t)
	require.NoError(t, store.Upsert(context.Background(), []domain.IndexedChunk{{
		Vector: []float32{1, 0, 0},
		Chunk: domain.Chunk{
			Text:          "Quarterly revenue grew 12%.",
			VectorGroupID: "g1",
			Filename:      "q3.pdf",
			DocumentType:  "report",
			ChunkIndex:    2,
		},
	}}))

	results, err := svc.Search(context.Background(), "revenue growth", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Quarterly revenue grew 12%.", results[0].Content)
	require.Equal(t, "q3.pdf", results[0].Metadata["filename"])
	require.Equal(t, "report", results[0].Metadata["document_type"])
	require.Equal(t, 2, results[0].Metadata["chunk_index"])
	require.Greater(t, results[0].Score, 0.0)
}

func TestSearch_EmbedFailure(t *testing.T) {
	svc, provider, _ := newProcessorFixture(t)
	provider.embedErr = errors.New("embedding service down")

	_, err := svc.Search(context.Background(), "anything", 5)
	require.Error(t, err)
}
