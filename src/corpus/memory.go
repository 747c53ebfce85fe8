package corpus

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemorySource is an in-memory Source used by tests and as a building block
// for programmatic corpora.
type MemorySource struct {
	mu   sync.RWMutex
	docs map[string]string
}

func NewMemorySource(docs map[string]string) *MemorySource {
	copied := make(map[string]string, len(docs))
	for name, text := range docs {
		copied[name] = text
	}
	return &MemorySource{docs: copied}
}

func (s *MemorySource) List(ctx context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)

	now := time.Now().UTC()
	docs := make([]Document, 0, len(names))
	for _, name := range names {
		docs = append(docs, Document{
			Name:     name,
			Text:     s.docs[name],
			LoadedAt: now,
		})
	}

	return docs, nil
}

func (s *MemorySource) Put(ctx context.Context, name string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = string(content)
	return nil
}
