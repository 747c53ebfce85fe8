package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// memoryIndex holds embedded chunks in process memory. It is immutable after
// construction: rebuilds create a fresh index which the orchestrator swaps in
// atomically, so readers never observe a partially built index.
type memoryIndex struct {
	key       CacheKey
	chunks    []Chunk
	vectors   [][]float32
	dimension int
}

// NewMemoryIndex constructs an index over parallel chunk and vector slices.
// All vectors must share one dimensionality, mixing embedding models
// invalidates an index.
func NewMemoryIndex(key CacheKey, chunks []Chunk, vectors [][]float32) (Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunk count %d does not match vector count %d", len(chunks), len(vectors))
	}

	dimension := 0
	for i, vector := range vectors {
		if i == 0 {
			dimension = len(vector)
			continue
		}
		if len(vector) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(vector), dimension)
		}
	}

	return &memoryIndex{
		key:       key,
		chunks:    chunks,
		vectors:   vectors,
		dimension: dimension,
	}, nil
}

func (idx *memoryIndex) Search(ctx context.Context, query []float32, k int) ([]ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidConfiguration, k)
	}
	if len(idx.chunks) == 0 {
		return []ScoredChunk{}, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), idx.dimension)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]ScoredChunk, len(idx.chunks))
	for i := range idx.chunks {
		results[i] = ScoredChunk{
			Chunk: idx.chunks[i],
			Score: cosineSimilarity(query, idx.vectors[i]),
		}
	}

	// Stable sort keeps insertion order for equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func (idx *memoryIndex) Size() int {
	return len(idx.chunks)
}

func (idx *memoryIndex) Key() CacheKey {
	return idx.key
}

// Chunks exposes the indexed chunks for persistence.
func (idx *memoryIndex) Chunks() []Chunk {
	return idx.chunks
}

// Vectors exposes the embeddings for persistence.
func (idx *memoryIndex) Vectors() [][]float32 {
	return idx.vectors
}

// cosineSimilarity is the similarity metric of the index; embedding models
// served by Ollama are trained for cosine comparison.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
