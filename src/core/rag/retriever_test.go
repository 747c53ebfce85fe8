package rag_test

import (
	"context"
	"errors"
	"testing"

	"docrag/src/core/rag"
)

func retrievalIndex(t *testing.T, embedder *stubEmbedder) rag.Index {
	t.Helper()

	embedder.vectors["chunk about cats"] = []float32{1, 0, 0}
	embedder.vectors["chunk about dogs"] = []float32{0, 1, 0}
	embedder.vectors["chunk about fish"] = []float32{0, 0, 1}
	embedder.vectors["tell me about cats"] = []float32{0.9, 0.1, 0}

	index, err := rag.NewMemoryIndex(testKey(),
		[]rag.Chunk{
			{Document: "pets.txt", Seq: 0, Text: "chunk about cats"},
			{Document: "pets.txt", Seq: 1, Text: "chunk about dogs"},
			{Document: "pets.txt", Seq: 2, Text: "chunk about fish"},
		},
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	)
	if err != nil {
		t.Fatalf("NewMemoryIndex() error = %v", err)
	}
	return index
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()
	embedder := newStubEmbedder("test-model")
	index := retrievalIndex(t, embedder)

	retriever, err := rag.NewRetriever(embedder, 2)
	if err != nil {
		t.Fatalf("NewRetriever() error = %v", err)
	}

	chunks, err := retriever.Retrieve(ctx, index, "tell me about cats", 1)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Retrieve() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != "chunk about cats" {
		t.Errorf("Retrieve() top chunk = %q, want chunk about cats", chunks[0].Text)
	}
}

func TestRetrieveDefaultK(t *testing.T) {
	ctx := context.Background()
	embedder := newStubEmbedder("test-model")
	index := retrievalIndex(t, embedder)

	retriever, err := rag.NewRetriever(embedder, 2)
	if err != nil {
		t.Fatalf("NewRetriever() error = %v", err)
	}

	chunks, err := retriever.Retrieve(ctx, index, "tell me about cats", 0)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("Retrieve() with k=0 returned %d chunks, want the default 2", len(chunks))
	}

	if _, err := retriever.Retrieve(ctx, index, "anything", -1); !errors.Is(err, rag.ErrInvalidConfiguration) {
		t.Errorf("Retrieve() with k=-1 error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestRetrieveEmbedderFailure(t *testing.T) {
	ctx := context.Background()
	embedder := newStubEmbedder("test-model")
	index := retrievalIndex(t, embedder)
	embedder.err = rag.ErrEmbeddingTimeout

	retriever, err := rag.NewRetriever(embedder, 2)
	if err != nil {
		t.Fatalf("NewRetriever() error = %v", err)
	}

	if _, err := retriever.Retrieve(ctx, index, "anything", 1); !errors.Is(err, rag.ErrEmbeddingTimeout) {
		t.Errorf("Retrieve() error = %v, want ErrEmbeddingTimeout", err)
	}
}
