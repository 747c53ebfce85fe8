package rag

import (
	"context"
	"fmt"
)

// Retriever embeds a query and returns the most similar chunks from an
// index. Scores are dropped after ranking.
type Retriever struct {
	embedder Embedder
	defaultK int
}

func NewRetriever(embedder Embedder, defaultK int) (*Retriever, error) {
	if defaultK <= 0 {
		return nil, fmt.Errorf("%w: default top-k must be positive, got %d", ErrInvalidConfiguration, defaultK)
	}
	return &Retriever{
		embedder: embedder,
		defaultK: defaultK,
	}, nil
}

// Retrieve returns the top-k chunks for a query. A zero k falls back to the
// configured default, a negative k is rejected.
func (r *Retriever) Retrieve(ctx context.Context, index Index, query string, k int) ([]Chunk, error) {
	if k == 0 {
		k = r.defaultK
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", ErrInvalidConfiguration, k)
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored, err := index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	chunks := make([]Chunk, len(scored))
	for i, result := range scored {
		chunks[i] = result.Chunk
	}

	return chunks, nil
}
