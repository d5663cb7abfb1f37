package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/parsing"
)

// CreateJobInput is a pasted job description or a posting URL to import
type CreateJobInput struct {
	Description string `json:"description"`
	URL         string `json:"url" validate:"omitempty,url"`
	CompanyName string `json:"company_name"`
	RoleName    string `json:"role_name"`
}

// CreateJob analyzes a job description and persists it
func (s *Service) CreateJob(ctx context.Context, userID uuid.UUID, in CreateJobInput) (*db.JobDescription, error) {
	description := in.Description
	if strings.TrimSpace(description) == "" {
		if in.URL == "" {
			return nil, invalidInput("either description or url is required")
		}
		fetched, err := s.fetchJob(ctx, in.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch job posting: %w", err)
		}
		description = fetched
	}

	description, err := ingestion.NormalizeJobDescription(description)
	if err != nil {
		return nil, err
	}
	if description == "" {
		return nil, invalidInput("job description is empty")
	}

	analysis, err := parsing.AnalyzeJobDescription(ctx, s.llm, description)
	if err != nil {
		return nil, err
	}

	job := &db.JobDescription{
		UserID:      userID,
		CompanyName: strings.TrimSpace(in.CompanyName),
		RoleName:    strings.TrimSpace(in.RoleName),
		SourceURL:   in.URL,
		Description: description,
		Analysis:    analysis,
	}
	if err := s.repo.CreateJobDescription(ctx, job); err != nil {
		return nil, err
	}
	s.logger.Info("job analyzed",
		zap.String("job_id", job.ID.String()),
		zap.Int("required_skills", len(analysis.RequiredSkills)),
		zap.Int("keywords", len(analysis.Keywords)))
	return job, nil
}

// ListJobs returns the user's job descriptions, newest first
func (s *Service) ListJobs(ctx context.Context, userID uuid.UUID) ([]db.JobDescription, error) {
	return s.repo.ListJobDescriptions(ctx, userID)
}

// GetJob returns one of the user's job descriptions
func (s *Service) GetJob(ctx context.Context, userID, id uuid.UUID) (*db.JobDescription, error) {
	job, err := s.repo.GetJobDescription(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, notFound("job description not found")
	}
	return job, nil
}
