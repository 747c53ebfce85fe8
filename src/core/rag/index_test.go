package rag_test

import (
	"context"
	"testing"

	"docrag/src/core/rag"
)

func testKey() rag.CacheKey {
	return rag.CacheKey{
		CorpusFingerprint: "0123456789abcdef0123456789abcdef",
		EmbeddingModel:    "nomic-embed-text",
	}
}

func TestNewMemoryIndexValidation(t *testing.T) {
	chunks := []rag.Chunk{{Document: "a.txt", Text: "one"}, {Document: "a.txt", Text: "two"}}

	tests := []struct {
		name    string
		vectors [][]float32
		wantErr bool
	}{
		{name: "matching", vectors: [][]float32{{1, 0, 0}, {0, 1, 0}}, wantErr: false},
		{name: "count mismatch", vectors: [][]float32{{1, 0, 0}}, wantErr: true},
		{name: "dimension mismatch", vectors: [][]float32{{1, 0, 0}, {0, 1}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rag.NewMemoryIndex(testKey(), chunks, tt.vectors)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMemoryIndex() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchOrdering(t *testing.T) {
	ctx := context.Background()

	chunks := []rag.Chunk{
		{Document: "a.txt", Seq: 0, Text: "north"},
		{Document: "a.txt", Seq: 1, Text: "east"},
		{Document: "b.txt", Seq: 0, Text: "northeast"},
	}
	vectors := [][]float32{
		{0, 1, 0},
		{1, 0, 0},
		{1, 1, 0},
	}

	index, err := rag.NewMemoryIndex(testKey(), chunks, vectors)
	if err != nil {
		t.Fatalf("NewMemoryIndex() error = %v", err)
	}

	// Query points north, slightly east
	results, err := index.Search(ctx, []float32{0.2, 1, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	if results[0].Text != "north" {
		t.Errorf("Search() first result = %q, want north", results[0].Text)
	}
	if results[1].Text != "northeast" {
		t.Errorf("Search() second result = %q, want northeast", results[1].Text)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("Search() scores out of order: %f then %f", results[0].Score, results[1].Score)
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()

	chunks := []rag.Chunk{
		{Document: "a.txt", Seq: 0, Text: "first"},
		{Document: "a.txt", Seq: 1, Text: "second"},
		{Document: "a.txt", Seq: 2, Text: "third"},
	}
	// Identical vectors give identical scores
	vectors := [][]float32{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}

	index, err := rag.NewMemoryIndex(testKey(), chunks, vectors)
	if err != nil {
		t.Fatalf("NewMemoryIndex() error = %v", err)
	}

	results, err := index.Search(ctx, []float32{1, 1, 1}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if results[i].Text != want {
			t.Errorf("result %d = %q, want %q", i, results[i].Text, want)
		}
	}
}

func TestSearchEdgeCases(t *testing.T) {
	ctx := context.Background()

	empty, err := rag.NewMemoryIndex(testKey(), nil, nil)
	if err != nil {
		t.Fatalf("NewMemoryIndex() error = %v", err)
	}
	results, err := empty.Search(ctx, []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Search() on empty index error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() on empty index returned %d results, want 0", len(results))
	}

	index, err := rag.NewMemoryIndex(testKey(),
		[]rag.Chunk{{Document: "a.txt", Text: "only"}},
		[][]float32{{1, 0, 0}},
	)
	if err != nil {
		t.Fatalf("NewMemoryIndex() error = %v", err)
	}

	// k larger than the index truncates, not errors
	results, err = index.Search(ctx, []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Search() returned %d results, want 1", len(results))
	}

	if _, err := index.Search(ctx, []float32{1, 0, 0}, 0); err == nil {
		t.Errorf("Search() with k=0 expected error, got nil")
	}
	if _, err := index.Search(ctx, []float32{1, 0}, 1); err == nil {
		t.Errorf("Search() with mismatched dimension expected error, got nil")
	}
}
