package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements Store on the local filesystem, one file per
// namespace. Writes go through a temp file and rename so a crash mid-write
// cannot leave a half-serialized blob behind.
type FileStore struct {
	basePath string
}

// NewFileStore creates a filesystem-backed store rooted at basePath
// (created if it doesn't exist).
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create kv directory: %w", err)
	}

	return &FileStore{basePath: basePath}, nil
}

// Load returns the blob stored for the namespace.
func (s *FileStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	blob, err := os.ReadFile(s.path(namespace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read namespace %q: %w", namespace, err)
	}

	return blob, nil
}

// Save replaces the blob stored for the namespace.
func (s *FileStore) Save(ctx context.Context, namespace string, blob []byte) error {
	target := s.path(namespace)

	tmp, err := os.CreateTemp(s.basePath, ".kv-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write namespace %q: %w", namespace, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to flush namespace %q: %w", namespace, err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace namespace %q: %w", namespace, err)
	}

	return nil
}

func (s *FileStore) path(namespace string) string {
	// Namespaces contain session IDs with characters unfit for filenames.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, namespace)

	return filepath.Join(s.basePath, safe+".json")
}
