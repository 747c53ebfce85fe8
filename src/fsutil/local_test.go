package fsutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docrag/src/fsutil"
)

func TestWriteFileIsAtomic(t *testing.T) {
	fs := fsutil.NewLocalFileStore()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	if err := fs.WriteFile(path, []byte("first")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := fs.WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("WriteFile() overwrite error = %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("ReadFile() = %q, want second", data)
	}

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("leftover temporary file %s", entry.Name())
		}
	}
}

func TestListFilesSkipsDirectories(t *testing.T) {
	fs := fsutil.NewLocalFileStore()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	names, err := fs.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(names) != 1 || names[0] != "a.txt" {
		t.Errorf("ListFiles() = %v, want just a.txt", names)
	}
}

func TestExistsAndStats(t *testing.T) {
	fs := fsutil.NewLocalFileStore()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")

	exists, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for missing file")
	}

	if err := fs.WriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	exists, err = fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for written file")
	}

	count, size, err := fs.GetFileStats(dir)
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if count != 1 || size != 5 {
		t.Errorf("GetFileStats() = %d files %d bytes, want 1 file 5 bytes", count, size)
	}
}
