package rag

import (
	"context"
	"fmt"
	"strings"
)

// Chunk is a contiguous piece of a document, the unit of embedding and
// retrieval. Start and End are rune offsets into the source document.
// The ID is assigned by the index store once the chunk is embedded.
type Chunk struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Seq      int    `json:"seq"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// ScoredChunk pairs a chunk with its similarity score for one query.
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// Answer is the result of one query: the generated text and the chunks the
// generation was conditioned on. Answers are not persisted.
type Answer struct {
	Text    string  `json:"text"`
	Sources []Chunk `json:"sources,omitempty"`
}

// CacheKey identifies one built index: the same corpus embedded with the
// same model always maps to the same key, and any change to either side
// invalidates it.
type CacheKey struct {
	CorpusFingerprint string `json:"corpus_fingerprint"`
	EmbeddingModel    string `json:"embedding_model"`
}

// Filename returns the cache file name for this key.
func (k CacheKey) Filename() string {
	model := strings.NewReplacer(":", "_", "/", "_").Replace(k.EmbeddingModel)
	fingerprint := k.CorpusFingerprint
	if len(fingerprint) > 16 {
		fingerprint = fingerprint[:16]
	}
	return fmt.Sprintf("index_%s_%s.json", model, fingerprint)
}

// Embedder converts text into fixed-size vectors via the embedding model.
// All vectors produced by one Embedder share the same dimensionality.
type Embedder interface {
	// Embed converts a single text into a vector
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts several texts, preserving input order
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the identity of the embedding model
	Model() string
}

// Index is a searchable snapshot of embedded chunks for one cache key.
type Index interface {
	// Search returns up to k chunks ordered by descending similarity.
	// Fewer than k results are returned when the index holds fewer
	// chunks; an empty index yields an empty result, not an error.
	Search(ctx context.Context, query []float32, k int) ([]ScoredChunk, error)

	// Size returns the number of chunks held by the index
	Size() int

	// Key returns the cache key the index was built for
	Key() CacheKey
}

// IndexStore builds, persists and reloads indexes.
type IndexStore interface {
	// Build embeds every chunk and returns a ready-to-query index
	Build(ctx context.Context, chunks []Chunk, key CacheKey) (Index, error)

	// Save persists a built index under its cache key
	Save(ctx context.Context, index Index) error

	// Load retrieves a previously saved index. A missing, unreadable or
	// mismatched cache entry yields ErrIndexNotFound, never a partial
	// index.
	Load(ctx context.Context, key CacheKey) (Index, error)
}

// LLMProvider is the completion side of the model-serving endpoint.
// Implemented by the Ollama client.
type LLMProvider interface {
	Generate(ctx context.Context, model, system, prompt string, options map[string]interface{}) (string, error)
}
