// Package indexfile serializes built indexes to disk so a restart with an
// unchanged corpus and model avoids re-embedding.
package indexfile

import (
	"encoding/json"
	"fmt"
)

// FormatVersion guards against loading snapshots written by an incompatible
// release.
const FormatVersion = 1

// ChunkRecord mirrors one indexed chunk in the cache file.
type ChunkRecord struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Seq      int    `json:"seq"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Snapshot is the serialized form of one index. The fingerprint and model
// fields repeat the cache key so a loaded file can be verified against the
// key it was requested for.
type Snapshot struct {
	Version           int           `json:"version"`
	CorpusFingerprint string        `json:"corpus_fingerprint"`
	EmbeddingModel    string        `json:"embedding_model"`
	Dimension         int           `json:"dimension"`
	Chunks            []ChunkRecord `json:"chunks"`
	Vectors           [][]float32   `json:"vectors"`
}

// Encode serializes a snapshot.
func Encode(s Snapshot) ([]byte, error) {
	s.Version = FormatVersion
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode index snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot and checks its integrity. Callers treat any error
// as a cache miss.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode index snapshot: %w", err)
	}
	if s.Version != FormatVersion {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if len(s.Chunks) != len(s.Vectors) {
		return Snapshot{}, fmt.Errorf("snapshot holds %d chunks but %d vectors", len(s.Chunks), len(s.Vectors))
	}
	for i, vector := range s.Vectors {
		if len(vector) != s.Dimension {
			return Snapshot{}, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(vector), s.Dimension)
		}
	}
	return s, nil
}
