package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidConfig indicates invalid configuration parameters
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnsupportedFormat indicates an unknown document file extension
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrLoadFailed indicates a document could not be read or parsed
	ErrLoadFailed = errors.New("document load failed")
	// ErrIndexFailed indicates embeddings could not be computed or written
	ErrIndexFailed = errors.New("vector index write failed")
)
