package rag_test

import (
	"context"
	"crypto/sha256"
	"sync"
)

// stubEmbedder returns fixed vectors for known texts and a deterministic
// hash-derived vector otherwise. All vectors have dimension 3.
type stubEmbedder struct {
	model   string
	vectors map[string][]float32
	err     error

	mu    sync.Mutex
	calls int
}

func newStubEmbedder(model string) *stubEmbedder {
	return &stubEmbedder{
		model:   model,
		vectors: map[string][]float32{},
	}
}

func textVector(text string) []float32 {
	h := sha256.Sum256([]byte(text))
	return []float32{float32(h[0]) + 1, float32(h[1]) + 1, float32(h[2]) + 1}
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if e.err != nil {
		return nil, e.err
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return textVector(text), nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func (e *stubEmbedder) Model() string {
	return e.model
}

func (e *stubEmbedder) embedCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// stubLLM records the last prompt and returns a canned answer.
type stubLLM struct {
	answer string
	err    error

	lastModel  string
	lastSystem string
	lastPrompt string
	calls      int
}

func (l *stubLLM) Generate(ctx context.Context, model, system, prompt string, options map[string]interface{}) (string, error) {
	l.calls++
	l.lastModel = model
	l.lastSystem = system
	l.lastPrompt = prompt
	if l.err != nil {
		return "", l.err
	}
	return l.answer, nil
}
