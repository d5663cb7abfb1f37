package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/storage"
)

// MaxPhotoBytes is the largest accepted profile photo
const MaxPhotoBytes = 5 << 20

const photoPrefix = "photos"

var photoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// UploadPhotoInput is a base64 encoded profile photo
type UploadPhotoInput struct {
	FileName string `json:"file_name" validate:"required"`
	FileData string `json:"file_data" validate:"required"`
	MIMEType string `json:"mime_type" validate:"required"`
}

// UploadPhoto stores a profile photo for later use in generated resumes
func (s *Service) UploadPhoto(ctx context.Context, userID uuid.UUID, in UploadPhotoInput) (*storage.Object, error) {
	if !photoTypes[in.MIMEType] {
		return nil, invalidInput("only JPG and PNG images are supported")
	}
	data, err := decodeBase64(in.FileData)
	if err != nil {
		return nil, invalidInput("file data is not valid base64")
	}
	if len(data) > MaxPhotoBytes {
		return nil, invalidInput("photo size must be less than 5MB")
	}

	key := storage.UploadKey(photoPrefix, userID, s.now(), in.FileName)
	obj, err := s.store.Put(ctx, key, data, in.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}
	return obj, nil
}

// ownedPhotoKey resolves a customization's photo to a key under the user's
// photos/{userID}/ prefix. A URL must be one the store issued for such a key.
// Photos of other users and outside addresses are rejected.
func (s *Service) ownedPhotoKey(userID uuid.UUID, key, url string) (string, error) {
	prefix := photoPrefix + "/" + userID.String() + "/"
	if url != "" {
		base := strings.TrimSuffix(s.store.URL(prefix), "/") + "/"
		rest, ok := strings.CutPrefix(url, base)
		if !ok || rest == "" {
			return "", invalidInput("photo not found or unauthorized")
		}
		if key != "" && key != prefix+rest {
			return "", invalidInput("photo key and URL do not match")
		}
		key = prefix + rest
	}
	if key == "" {
		return "", nil
	}
	if !strings.HasPrefix(key, prefix) || storage.ValidateKey(key) != nil {
		return "", invalidInput("photo not found or unauthorized")
	}
	return key, nil
}
