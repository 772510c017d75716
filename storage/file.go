package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type fileStore struct {
	dir string
}

var _ DocumentStore = (*fileStore)(nil)

// NewFileStore stores each key as <dir>/<key>.json.
func NewFileStore(dir string) (*fileStore, error) {
	if dir == "" {
		return nil, errors.New("storage: file store directory is required")
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key)+".json")
}

func (s *fileStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return b, nil
}

func (s *fileStore) Put(ctx context.Context, key string, body []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("storage: create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(s.path(key), body, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}
