// Package storage puts uploaded files and generated documents into object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no object exists under the key
var ErrNotFound = errors.New("object not found")

// Object identifies a stored object
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Store is an object storage backend
type Store interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (*Object, error)
	Get(ctx context.Context, key string) ([]byte, string, error)
	// URL is the address Put reports for key
	URL(key string) string
}

// UploadKey builds "{prefix}/{userID}/{unixMillis}_{base name}" for a user upload
func UploadKey(prefix string, userID uuid.UUID, now time.Time, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	if base == "." || base == "/" {
		base = "file"
	}
	return fmt.Sprintf("%s/%s/%d_%s", prefix, userID, now.UnixMilli(), base)
}

// ValidateKey rejects keys that are empty, absolute or escape their prefix
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("invalid object key: empty")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("invalid object key: %q", key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("invalid object key: %q", key)
		}
	}
	return nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
