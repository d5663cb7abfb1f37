package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore writes objects to a Google Cloud Storage bucket
type GCSStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewGCSStore opens a client for bucket. An empty baseURL uses the public
// storage.googleapis.com address.
func NewGCSStore(ctx context.Context, bucket, baseURL string, opts ...option.ClientOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + bucket
	}
	return &GCSStore{client: client, bucket: bucket, baseURL: baseURL}, nil
}

// Put uploads data under key
func (s *GCSStore) Put(ctx context.Context, key string, data []byte, mimeType string) (*Object, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return &Object{Key: key, URL: s.URL(key)}, nil
}

func (s *GCSStore) URL(key string) string {
	return joinURL(s.baseURL, key)
}

// Get downloads the object under key
func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	if err := ValidateKey(key); err != nil {
		return nil, "", err
	}

	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, r.Attrs.ContentType, nil
}

// Close releases the client
func (s *GCSStore) Close() error {
	return s.client.Close()
}
