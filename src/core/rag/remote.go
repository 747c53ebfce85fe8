package rag

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/weaviate/weaviate/entities/models"

	"docrag/src/infrastructure/log"
	"docrag/src/storage/weaviate"
)

// remoteBatchSize bounds how many vectors are written to Weaviate at once.
const remoteBatchSize = 64

// WeaviateIndexStore keeps vectors in a Weaviate instance instead of a local
// cache file. One class holds one corpus snapshot; the class name encodes
// the cache key, so a changed corpus or model lands in a fresh class and an
// existing class is a cache hit. Save is a no-op because Build already
// persists server-side.
type WeaviateIndexStore struct {
	sdk      *weaviate.SDK
	embedder Embedder
}

func NewWeaviateIndexStore(sdk *weaviate.SDK, embedder Embedder) *WeaviateIndexStore {
	return &WeaviateIndexStore{
		sdk:      sdk,
		embedder: embedder,
	}
}

// weaviateClassName derives a valid Weaviate class name from a cache key.
func weaviateClassName(key CacheKey) string {
	sum := sha256.Sum256([]byte(key.CorpusFingerprint + "\x00" + key.EmbeddingModel))
	return fmt.Sprintf("Docrag_%x", sum[:8])
}

func (s *WeaviateIndexStore) Build(ctx context.Context, chunks []Chunk, key CacheKey) (Index, error) {
	className := weaviateClassName(key)

	properties := []*models.Property{
		{Name: "document", DataType: []string{"text"}},
		{Name: "seq", DataType: []string{"int"}},
		{Name: "content", DataType: []string{"text"}},
		{Name: "start", DataType: []string{"int"}},
		{Name: "end", DataType: []string{"int"}},
	}
	if err := s.sdk.EnsureSchema(ctx, className, properties); err != nil {
		return nil, fmt.Errorf("failed to prepare weaviate class: %w", err)
	}

	for offset := 0; offset < len(chunks); offset += remoteBatchSize {
		limit := offset + remoteBatchSize
		if limit > len(chunks) {
			limit = len(chunks)
		}

		texts := make([]string, 0, limit-offset)
		for _, chunk := range chunks[offset:limit] {
			texts = append(texts, chunk.Text)
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to build index: %w", err)
		}

		objects := make([]weaviate.VectorObject, 0, limit-offset)
		for i, chunk := range chunks[offset:limit] {
			objects = append(objects, weaviate.VectorObject{
				Vector: vectors[i],
				Properties: map[string]interface{}{
					"document": chunk.Document,
					"seq":      chunk.Seq,
					"content":  chunk.Text,
					"start":    chunk.Start,
					"end":      chunk.End,
				},
			})
		}

		if err := s.sdk.BatchAddVectors(ctx, className, objects); err != nil {
			return nil, fmt.Errorf("failed to store vectors: %w", err)
		}
	}

	log.Info("built weaviate index", "class", className, "chunks", len(chunks))
	return &weaviateIndex{sdk: s.sdk, className: className, key: key, size: len(chunks)}, nil
}

// Save is a no-op, vectors are already persisted server-side during Build.
func (s *WeaviateIndexStore) Save(ctx context.Context, index Index) error {
	return nil
}

// Load treats an existing class for the cache key as a hit.
func (s *WeaviateIndexStore) Load(ctx context.Context, key CacheKey) (Index, error) {
	className := weaviateClassName(key)

	exists, err := s.sdk.ClassExists(ctx, className)
	if err != nil {
		return nil, fmt.Errorf("failed to check weaviate class: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: no weaviate class %s", ErrIndexNotFound, className)
	}

	size, err := s.sdk.CountObjects(ctx, className)
	if err != nil {
		return nil, fmt.Errorf("failed to count weaviate objects: %w", err)
	}

	return &weaviateIndex{sdk: s.sdk, className: className, key: key, size: size}, nil
}

type weaviateIndex struct {
	sdk       *weaviate.SDK
	className string
	key       CacheKey
	size      int
}

func (idx *weaviateIndex) Search(ctx context.Context, query []float32, k int) ([]ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidConfiguration, k)
	}
	if idx.size == 0 {
		return []ScoredChunk{}, nil
	}

	results, err := idx.sdk.QueryVectors(ctx, idx.className, query, weaviate.QueryConfig{
		Fields: []string{"document", "seq", "content", "start", "end"},
		Limit:  k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query weaviate: %w", err)
	}

	scored := make([]ScoredChunk, 0, len(results))
	for _, result := range results {
		chunk := Chunk{ID: result.ID}
		if document, ok := result.Properties["document"].(string); ok {
			chunk.Document = document
		}
		if content, ok := result.Properties["content"].(string); ok {
			chunk.Text = content
		}
		if seq, ok := result.Properties["seq"].(float64); ok {
			chunk.Seq = int(seq)
		}
		if start, ok := result.Properties["start"].(float64); ok {
			chunk.Start = int(start)
		}
		if end, ok := result.Properties["end"].(float64); ok {
			chunk.End = int(end)
		}

		scored = append(scored, ScoredChunk{
			Chunk: chunk,
			// Weaviate reports cosine distance, similarity is its complement
			Score: 1 - result.Distance,
		})
	}

	// Descending by similarity, ties by chunk order
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Document != scored[j].Document {
			return scored[i].Document < scored[j].Document
		}
		return scored[i].Seq < scored[j].Seq
	})

	return scored, nil
}

func (idx *weaviateIndex) Size() int {
	return idx.size
}

func (idx *weaviateIndex) Key() CacheKey {
	return idx.key
}
