package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/storage"
)

// UploadResumeInput is a base64 encoded resume file
type UploadResumeInput struct {
	FileName string `json:"file_name" validate:"required"`
	FileData string `json:"file_data" validate:"required"`
	MIMEType string `json:"mime_type" validate:"required"`
}

// UploadResume stores the file, extracts and parses its text and persists the result
func (s *Service) UploadResume(ctx context.Context, userID uuid.UUID, in UploadResumeInput) (*db.Resume, error) {
	data, err := decodeBase64(in.FileData)
	if err != nil {
		return nil, invalidInput("file data is not valid base64")
	}
	if len(data) == 0 {
		return nil, invalidInput("file is empty")
	}

	key := storage.UploadKey("resumes", userID, s.now(), in.FileName)
	obj, err := s.store.Put(ctx, key, data, in.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("failed to store resume: %w", err)
	}

	text, err := ingestion.ExtractResumeText(data, in.MIMEType)
	if err != nil {
		return nil, err
	}

	parsed, err := parsing.ParseResume(ctx, s.llm, text)
	if err != nil {
		return nil, err
	}

	resume := &db.Resume{
		UserID:   userID,
		FileName: in.FileName,
		FileKey:  obj.Key,
		FileURL:  obj.URL,
		MIMEType: in.MIMEType,
		RawText:  text,
		Content:  parsed,
	}
	if err := s.repo.CreateResume(ctx, resume); err != nil {
		return nil, err
	}
	s.logger.Info("resume uploaded",
		zap.String("resume_id", resume.ID.String()),
		zap.String("file_key", obj.Key),
		zap.Int("skills", len(parsed.Skills)))
	return resume, nil
}

// ListResumes returns the user's resumes, newest first
func (s *Service) ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error) {
	return s.repo.ListResumes(ctx, userID)
}

// GetResume returns one of the user's resumes
func (s *Service) GetResume(ctx context.Context, userID, id uuid.UUID) (*db.Resume, error) {
	resume, err := s.repo.GetResume(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, notFound("resume not found")
	}
	return resume, nil
}

// decodeBase64 accepts plain base64 and data URLs
func decodeBase64(s string) ([]byte, error) {
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}
