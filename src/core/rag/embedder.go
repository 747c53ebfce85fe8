package rag

import (
	"context"
	"fmt"
	"time"

	"docrag/src/infrastructure/integrations/ollama"
)

// OllamaEmbedder adapts the Ollama client to the Embedder interface. Every
// call gets its own deadline; failures map onto the embedding error
// taxonomy and are never retried here, the caller decides.
type OllamaEmbedder struct {
	client  *ollama.Client
	model   string
	timeout time.Duration
}

func NewOllamaEmbedder(client *ollama.Client, model string, timeout time.Duration) *OllamaEmbedder {
	return &OllamaEmbedder{
		client:  client,
		model:   model,
		timeout: timeout,
	}
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	vector, err := e.client.GetEmbedding(ctx, e.model, text)
	if err != nil {
		return nil, embeddingError(err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: model %s returned an empty vector", ErrEmbeddingUnavailable, e.model)
	}

	return vector, nil
}

func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d of %d: %w", i+1, len(texts), err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (e *OllamaEmbedder) Model() string {
	return e.model
}

func embeddingError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", ErrEmbeddingTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
}
