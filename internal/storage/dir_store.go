package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// DirStore writes objects below a local directory. URLs are file paths.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at dir
func NewDirStore(dir string) *DirStore {
	return &DirStore{root: dir}
}

// Put writes data to root/key, creating parent directories
func (s *DirStore) Put(_ context.Context, key string, data []byte, _ string) (*Object, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	p := s.URL(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", key, err)
	}
	return &Object{Key: key, URL: p}, nil
}

// URL is the local file path of key
func (s *DirStore) URL(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Get reads root/key. The MIME type is derived from the extension.
func (s *DirStore) Get(_ context.Context, key string) ([]byte, string, error) {
	if err := ValidateKey(key); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, mime.TypeByExtension(filepath.Ext(key)), nil
}
