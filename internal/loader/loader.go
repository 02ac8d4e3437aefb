// Package loader reads documents from disk as ordered page texts,
// keyed by file extension.
package loader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"docuchat/internal/domain"
)

// Loader reads a document file and returns its text as an ordered
// sequence of pages. Formats without a page concept return a single
// page.
type Loader interface {
	Load(path string) ([]string, error)
}

var registry = map[string]Loader{
	".pdf":      pdfLoader{},
	".txt":      textLoader{},
	".md":       textLoader{},
	".markdown": textLoader{},
	".docx":     docxLoader{},
}

// Load reads the document at path using the loader registered for its
// extension. Returns ErrUnsupportedFormat for unknown extensions and
// ErrLoadFailed when reading or parsing fails.
func Load(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := registry[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}

	pages, err := l.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLoadFailed, path, err)
	}
	return pages, nil
}

// Supported reports whether a loader is registered for the extension.
func Supported(ext string) bool {
	_, ok := registry[strings.ToLower(ext)]
	return ok
}

// Extensions returns the registered extensions in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
