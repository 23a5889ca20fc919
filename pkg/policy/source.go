package policy

import (
	"fmt"
	"os"
)

// Source provides the raw bytes of a policy definition list.
// Implementations must be safe to call more than once; the watcher
// re-reads the source on change.
type Source interface {
	// Load returns the raw definition document.
	Load() ([]byte, error)

	// Describe returns a human-readable description of the source for
	// logging (e.g. a file path).
	Describe() string
}

// FileSource loads policy definitions from a YAML file on disk.
type FileSource struct {
	path string
}

// NewFileSource creates a file-based policy source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads the definition file.
func (s *FileSource) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %q: %w", s.path, err)
	}
	return data, nil
}

// Describe returns the file path.
func (s *FileSource) Describe() string {
	return s.path
}

// Path returns the watched file path.
func (s *FileSource) Path() string {
	return s.path
}

// MemorySource serves an in-memory definition document. It is intended
// for tests and for embedding default definitions.
type MemorySource struct {
	data []byte
}

// NewMemorySource creates an in-memory policy source.
func NewMemorySource(data []byte) *MemorySource {
	return &MemorySource{data: data}
}

// Load returns a copy of the in-memory document.
func (s *MemorySource) Load() ([]byte, error) {
	data := make([]byte, len(s.data))
	copy(data, s.data)
	return data, nil
}

// Describe identifies the source as in-memory.
func (s *MemorySource) Describe() string {
	return "<memory>"
}
