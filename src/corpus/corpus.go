package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"
)

// Document is a named unit of source text. Documents are immutable once
// loaded; re-ingestion replaces them wholesale.
type Document struct {
	Name     string
	Text     string
	LoadedAt time.Time
}

// Source lists the documents of a corpus and accepts new ones. The RAG core
// only depends on this interface so tests can substitute an in-memory corpus.
type Source interface {
	// List returns every supported document in the corpus
	List(ctx context.Context) ([]Document, error)

	// Put stores a new document under the given name
	Put(ctx context.Context, name string, content []byte) error
}

// Fingerprint derives a deterministic identifier from the corpus content.
// Documents are hashed in name order so directory listing order does not
// matter. Any change to a document name or body changes the fingerprint.
func Fingerprint(docs []Document) string {
	sorted := make([]Document, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	h := sha256.New()
	for _, doc := range sorted {
		fmt.Fprintf(h, "%s\x00%d\x00", doc.Name, len(doc.Text))
		h.Write([]byte(doc.Text))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
