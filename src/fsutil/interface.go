package fsutil

import "io"

// FileStore provides an interface for file system operations
type FileStore interface {
	// ReadFile reads a file and returns its contents
	ReadFile(path string) ([]byte, error)

	// ReadFileAsStream opens a file and returns a reader
	ReadFileAsStream(path string) (io.ReadCloser, error)

	// WriteFile writes data to a file, replacing any previous contents.
	// The write goes through a temporary file and a rename so readers
	// never observe a partially written file.
	WriteFile(path string, data []byte) error

	// ListFiles returns the names of all regular files in a directory
	ListFiles(path string) ([]string, error)

	// MakeDirectory creates a new directory and all necessary parents
	MakeDirectory(path string) error

	// RemoveAll removes a path and any children it contains
	RemoveAll(path string) error

	// Exists reports whether a path exists
	Exists(path string) (bool, error)

	// GetFileStats returns the total count and size of files in a directory
	GetFileStats(path string) (count int, size int64, err error)
}
