package rag

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bwmarrin/snowflake"

	"docrag/src/fsutil"
	"docrag/src/infrastructure/log"
	"docrag/src/storage/indexfile"
)

// embedBatchSize bounds how many chunks are handed to the embedder at once.
const embedBatchSize = 32

// FileIndexStore keeps the index in process memory and persists snapshots to
// a cache directory, one file per cache key. The cache directory has a single
// writer (the orchestrator); writes go through a temp file and rename so
// concurrent readers of an already-persisted snapshot are safe.
type FileIndexStore struct {
	embedder Embedder
	cacheDir string
	fs       fsutil.FileStore
	node     *snowflake.Node
	progress func(done, total int)
}

// FileIndexStoreOption configures a FileIndexStore.
type FileIndexStoreOption func(*FileIndexStore)

// WithBuildProgress installs a callback invoked as chunks are embedded
// during Build.
func WithBuildProgress(fn func(done, total int)) FileIndexStoreOption {
	return func(s *FileIndexStore) {
		s.progress = fn
	}
}

func NewFileIndexStore(embedder Embedder, cacheDir string, fs fsutil.FileStore, opts ...FileIndexStoreOption) (*FileIndexStore, error) {
	if cacheDir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := fs.MakeDirectory(cacheDir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	s := &FileIndexStore{
		embedder: embedder,
		cacheDir: cacheDir,
		fs:       fs,
		node:     node,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Build embeds every chunk in batches and returns a ready-to-query index.
// Embedding failures abort the build and propagate to the caller.
func (s *FileIndexStore) Build(ctx context.Context, chunks []Chunk, key CacheKey) (Index, error) {
	indexed := make([]Chunk, len(chunks))
	copy(indexed, chunks)

	vectors := make([][]float32, 0, len(indexed))
	for start := 0; start < len(indexed); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(indexed) {
			end = len(indexed)
		}

		texts := make([]string, 0, end-start)
		for _, chunk := range indexed[start:end] {
			texts = append(texts, chunk.Text)
		}

		batch, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to build index: %w", err)
		}
		vectors = append(vectors, batch...)

		if s.progress != nil {
			s.progress(end, len(indexed))
		}
	}

	// The store owns chunks once embedded and assigns their identifiers
	for i := range indexed {
		if indexed[i].ID == "" {
			indexed[i].ID = s.node.Generate().String()
		}
	}

	return NewMemoryIndex(key, indexed, vectors)
}

// Save writes a snapshot of the index under its cache key.
func (s *FileIndexStore) Save(ctx context.Context, index Index) error {
	mem, ok := index.(*memoryIndex)
	if !ok {
		return fmt.Errorf("cannot persist index of type %T", index)
	}

	key := mem.Key()
	records := make([]indexfile.ChunkRecord, len(mem.Chunks()))
	for i, chunk := range mem.Chunks() {
		records[i] = indexfile.ChunkRecord{
			ID:       chunk.ID,
			Document: chunk.Document,
			Seq:      chunk.Seq,
			Text:     chunk.Text,
			Start:    chunk.Start,
			End:      chunk.End,
		}
	}

	data, err := indexfile.Encode(indexfile.Snapshot{
		CorpusFingerprint: key.CorpusFingerprint,
		EmbeddingModel:    key.EmbeddingModel,
		Dimension:         mem.dimension,
		Chunks:            records,
		Vectors:           mem.Vectors(),
	})
	if err != nil {
		return err
	}

	path := filepath.Join(s.cacheDir, key.Filename())
	if err := s.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write index cache: %w", err)
	}

	log.Info("persisted index", "path", path, "chunks", len(records))
	return nil
}

// Load reads the snapshot for a cache key. A missing file, an unparsable
// file or a key mismatch all yield ErrIndexNotFound so the caller falls back
// to a full rebuild.
func (s *FileIndexStore) Load(ctx context.Context, key CacheKey) (Index, error) {
	path := filepath.Join(s.cacheDir, key.Filename())

	exists, err := s.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check index cache: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: no cache at %s", ErrIndexNotFound, path)
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index cache: %w", err)
	}

	snapshot, err := indexfile.Decode(data)
	if err != nil {
		log.Error(err, "discarding unreadable index cache", "path", path)
		return nil, fmt.Errorf("%w: %v", ErrIndexNotFound, err)
	}

	if snapshot.CorpusFingerprint != key.CorpusFingerprint || snapshot.EmbeddingModel != key.EmbeddingModel {
		return nil, fmt.Errorf("%w: cache at %s was built for a different corpus or model", ErrIndexNotFound, path)
	}

	chunks := make([]Chunk, len(snapshot.Chunks))
	for i, record := range snapshot.Chunks {
		chunks[i] = Chunk{
			ID:       record.ID,
			Document: record.Document,
			Seq:      record.Seq,
			Text:     record.Text,
			Start:    record.Start,
			End:      record.End,
		}
	}

	return NewMemoryIndex(key, chunks, snapshot.Vectors)
}
