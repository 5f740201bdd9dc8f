// Package storage defines the document-root file-system abstraction.
package storage

import "time"

// Entry describes one document file found by List.
type Entry struct {
	Path    string    // relative to the document root, slash separated
	Size    int64     // bytes
	ModTime time.Time // last modification
}

// Provider is the interface for document-root file operations.
// All paths are relative to the root.
type Provider interface {
	// Root returns the absolute path of the document root.
	Root() string
	// List returns the .md files that are immediate children of dir.
	List(dir string) ([]Entry, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the full content of path.
	Write(path string, content []byte) error
	// Exists reports whether path names an existing file or directory
	// inside the root.
	Exists(path string) bool
}
