package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"docrag/src/fsutil"
	"docrag/src/infrastructure/log"
)

// LocalSource reads documents from a directory on the local filesystem.
// Plain text files are read as-is, PDF files go through text extraction,
// everything else is skipped.
type LocalSource struct {
	dir string
	fs  fsutil.FileStore
}

// NewLocalSource creates a Source over the given directory, creating the
// directory if it does not exist yet.
func NewLocalSource(dir string, fs fsutil.FileStore) (*LocalSource, error) {
	if dir == "" {
		return nil, fmt.Errorf("documents directory is required")
	}
	if err := fs.MakeDirectory(dir); err != nil {
		return nil, fmt.Errorf("failed to create documents directory: %w", err)
	}

	return &LocalSource{
		dir: dir,
		fs:  fs,
	}, nil
}

func (s *LocalSource) List(ctx context.Context) ([]Document, error) {
	names, err := s.fs.ListFiles(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents directory: %w", err)
	}

	now := time.Now().UTC()
	var docs []Document
	for _, name := range names {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		text, ok, err := s.readDocument(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debug("skipping unsupported document", "name", name)
			continue
		}

		docs = append(docs, Document{
			Name:     name,
			Text:     text,
			LoadedAt: now,
		})
	}

	return docs, nil
}

func (s *LocalSource) Put(ctx context.Context, name string, content []byte) error {
	if name == "" {
		return fmt.Errorf("document name is required")
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("document name must not contain path separators: %s", name)
	}

	if err := s.fs.WriteFile(filepath.Join(s.dir, name), content); err != nil {
		return fmt.Errorf("failed to write document %s: %w", name, err)
	}

	return nil
}

// readDocument reads one file, returning ok=false for unsupported types.
func (s *LocalSource) readDocument(name string) (string, bool, error) {
	path := filepath.Join(s.dir, name)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return "", false, fmt.Errorf("failed to read document %s: %w", name, err)
		}
		return string(data), true, nil
	case ".pdf":
		text, err := extractPDFText(path)
		if err != nil {
			return "", false, fmt.Errorf("failed to extract text from %s: %w", name, err)
		}
		return text, true, nil
	default:
		return "", false, nil
	}
}
