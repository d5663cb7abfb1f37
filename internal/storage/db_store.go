package storage

import (
	"context"
	"fmt"
)

// BlobRepository persists raw bytes by key
type BlobRepository interface {
	PutBlob(ctx context.Context, key string, data []byte, mimeType string) error
	GetBlob(ctx context.Context, key string) (data []byte, mimeType string, found bool, err error)
}

// DBStore keeps objects in the database and serves them from {baseURL}/files/{key}
type DBStore struct {
	repo    BlobRepository
	baseURL string
}

// NewDBStore creates a database-backed store. baseURL is the public server URL.
func NewDBStore(repo BlobRepository, baseURL string) *DBStore {
	return &DBStore{repo: repo, baseURL: baseURL}
}

// Put stores data under key, replacing any existing object
func (s *DBStore) Put(ctx context.Context, key string, data []byte, mimeType string) (*Object, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if err := s.repo.PutBlob(ctx, key, data, mimeType); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", key, err)
	}
	return &Object{Key: key, URL: s.URL(key)}, nil
}

// URL serves key from the files route
func (s *DBStore) URL(key string) string {
	return joinURL(s.baseURL, "files/"+key)
}

// Get returns the object bytes and MIME type
func (s *DBStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	if err := ValidateKey(key); err != nil {
		return nil, "", err
	}
	data, mimeType, found, err := s.repo.GetBlob(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !found {
		return nil, "", ErrNotFound
	}
	return data, mimeType, nil
}
