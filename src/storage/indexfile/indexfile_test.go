package indexfile_test

import (
	"strings"
	"testing"

	"docrag/src/storage/indexfile"
)

func sampleSnapshot() indexfile.Snapshot {
	return indexfile.Snapshot{
		CorpusFingerprint: "0123456789abcdef",
		EmbeddingModel:    "nomic-embed-text",
		Dimension:         3,
		Chunks: []indexfile.ChunkRecord{
			{ID: "1", Document: "a.txt", Seq: 0, Text: "first", Start: 0, End: 5},
			{ID: "2", Document: "a.txt", Seq: 1, Text: "second", Start: 3, End: 9},
		},
		Vectors: [][]float32{{1, 0, 0}, {0, 1, 0}},
	}
}

func TestEncodeDecode(t *testing.T) {
	data, err := indexfile.Encode(sampleSnapshot())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := indexfile.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Version != indexfile.FormatVersion {
		t.Errorf("Decode() version = %d, want %d", got.Version, indexfile.FormatVersion)
	}
	if got.CorpusFingerprint != "0123456789abcdef" || got.EmbeddingModel != "nomic-embed-text" {
		t.Errorf("Decode() key = %s/%s, want original key", got.CorpusFingerprint, got.EmbeddingModel)
	}
	if len(got.Chunks) != 2 || got.Chunks[1].Text != "second" {
		t.Errorf("Decode() chunks = %v, want originals", got.Chunks)
	}
	if len(got.Vectors) != 2 || got.Vectors[1][1] != 1 {
		t.Errorf("Decode() vectors = %v, want originals", got.Vectors)
	}
}

func TestDecodeRejectsCorruptSnapshots(t *testing.T) {
	valid, err := indexfile.Encode(sampleSnapshot())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "not json", data: []byte("{broken")},
		{name: "wrong version", data: []byte(strings.Replace(string(valid), `"version":1`, `"version":99`, 1))},
		{name: "missing vector", data: []byte(strings.Replace(string(valid), `[[1,0,0],[0,1,0]]`, `[[1,0,0]]`, 1))},
		{name: "short vector", data: []byte(strings.Replace(string(valid), `[0,1,0]`, `[0,1]`, 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := indexfile.Decode(tt.data); err == nil {
				t.Errorf("Decode() expected error, got nil")
			}
		})
	}
}
