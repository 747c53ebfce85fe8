package rag

import (
	"fmt"
	"time"
)

// Chunking strategies.
const (
	StrategyFixed     = "fixed"
	StrategyRecursive = "recursive"
)

// Config is the single configuration object consumed by the orchestrator.
type Config struct {
	// LLMModel is the completion model identifier, e.g. "phi3:mini"
	LLMModel string

	// EmbeddingModel is the embedding model identifier, e.g.
	// "nomic-embed-text"
	EmbeddingModel string

	// ChunkSize is the maximum chunk length in characters
	ChunkSize int

	// ChunkOverlap is the number of characters shared with the previous
	// chunk
	ChunkOverlap int

	// ChunkStrategy selects the splitting algorithm, StrategyFixed or
	// StrategyRecursive
	ChunkStrategy string

	// TopK is the default number of chunks retrieved per query
	TopK int

	// DocsDir is the local corpus directory
	DocsDir string

	// CacheDir holds the persisted index files
	CacheDir string

	// ModelTimeout bounds every embedding and completion call
	ModelTimeout time.Duration

	// MaxAnswerLength caps answer length in characters; answers above it
	// are summarized. Zero disables the cap.
	MaxAnswerLength int

	// IncludeSources controls whether answers carry their source chunks
	IncludeSources bool

	// BootstrapSample writes a small sample document when the corpus is
	// empty at initialization
	BootstrapSample bool
}

// Validate checks the values that are fatal at startup.
func (c Config) Validate() error {
	if c.LLMModel == "" {
		return fmt.Errorf("%w: llm model is required", ErrInvalidConfiguration)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("%w: embedding model is required", ErrInvalidConfiguration)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfiguration, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidConfiguration, c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrInvalidConfiguration, c.ChunkOverlap, c.ChunkSize)
	}
	switch c.ChunkStrategy {
	case "", StrategyFixed, StrategyRecursive:
	default:
		return fmt.Errorf("%w: unknown chunk strategy %q", ErrInvalidConfiguration, c.ChunkStrategy)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: top-k must be positive, got %d", ErrInvalidConfiguration, c.TopK)
	}
	if c.MaxAnswerLength < 0 {
		return fmt.Errorf("%w: max answer length must not be negative, got %d", ErrInvalidConfiguration, c.MaxAnswerLength)
	}
	return nil
}
