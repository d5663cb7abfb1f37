package pipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/ats"
	"github.com/jonathan/resume-tailor/internal/batch"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/rewriting"
	"github.com/jonathan/resume-tailor/internal/templates"
	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultTemplateID is used when a customization names no template
const DefaultTemplateID = "classic"

// CreateCustomizationInput selects the resume and job to tailor
type CreateCustomizationInput struct {
	ResumeID     uuid.UUID `json:"resume_id" validate:"required"`
	JobID        uuid.UUID `json:"job_id" validate:"required"`
	TemplateID   string    `json:"template_id"`
	IncludePhoto bool      `json:"include_photo"`
	PhotoURL     string    `json:"photo_url" validate:"omitempty,url"`
	PhotoKey     string    `json:"photo_key"`
}

// CreateCustomization scores, rewrites and writes a cover letter for a resume and job pair
func (s *Service) CreateCustomization(ctx context.Context, userID uuid.UUID, in CreateCustomizationInput) (*db.Customization, error) {
	resume, err := s.repo.GetResume(ctx, userID, in.ResumeID)
	if err != nil {
		return nil, err
	}
	job, err := s.repo.GetJobDescription(ctx, userID, in.JobID)
	if err != nil {
		return nil, err
	}
	if resume == nil || job == nil {
		return nil, notFound("resume or job not found")
	}
	if job.Analysis == nil {
		return nil, invalidInput("job analysis not available")
	}
	if resume.Content == nil {
		return nil, invalidInput("resume content not available")
	}
	photoKey, err := s.ownedPhotoKey(userID, in.PhotoKey, in.PhotoURL)
	if err != nil {
		return nil, err
	}

	score, err := matching.CalculateMatchScore(ctx, s.llm, resume.Content, job.Analysis)
	if err != nil {
		return nil, err
	}

	customized, explanation, err := rewriting.CustomizeResume(ctx, s.llm, resume.Content, job.Analysis, job.Description)
	if err != nil {
		return nil, err
	}

	company := defaultString(job.CompanyName, "the company")
	role := defaultString(job.RoleName, "this position")
	coverLetter, err := rewriting.GenerateCoverLetter(ctx, s.llm, resume.Content, job.Description, company, role)
	if err != nil {
		return nil, err
	}

	c := &db.Customization{
		UserID:           userID,
		ResumeID:         resume.ID,
		JobID:            job.ID,
		MatchScore:       score,
		CustomizedResume: customized,
		CoverLetter:      coverLetter,
		Explanation:      explanation,
		TemplateID:       defaultString(in.TemplateID, DefaultTemplateID),
		IncludePhoto:     in.IncludePhoto,
		PhotoKey:         photoKey,
		PhotoURL:         in.PhotoURL,
	}
	if err := s.repo.CreateCustomization(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("customization created",
		zap.String("customization_id", c.ID.String()),
		zap.Int("match", score.OverallMatch),
		zap.String("template", c.TemplateID))
	return c, nil
}

// GenerateFiles renders the customization's resume and cover letter as PDF and DOCX
// and attaches the download URLs to it
func (s *Service) GenerateFiles(ctx context.Context, userID, customizationID uuid.UUID) (*types.GeneratedFiles, error) {
	c, err := s.GetCustomization(ctx, userID, customizationID)
	if err != nil {
		return nil, err
	}
	job, err := s.repo.GetJobDescription(ctx, userID, c.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, notFound("job description not found")
	}

	in := rendering.FilesInput{
		Resume:      c.CustomizedResume,
		CoverLetter: c.CoverLetter,
		Company:     defaultString(job.CompanyName, "Company"),
		Role:        defaultString(job.RoleName, "Role"),
		TemplateID:  c.TemplateID,
	}
	if c.IncludePhoto {
		in.PhotoKey = c.PhotoKey
	}

	files, err := s.files.GenerateAll(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCustomizationFiles(ctx, userID, c.ID, files); err != nil {
		return nil, err
	}
	return files, nil
}

// ListCustomizations returns the user's customizations, newest first
func (s *Service) ListCustomizations(ctx context.Context, userID uuid.UUID) ([]db.Customization, error) {
	return s.repo.ListCustomizations(ctx, userID)
}

// GetCustomization returns one of the user's customizations
func (s *Service) GetCustomization(ctx context.Context, userID, id uuid.UUID) (*db.Customization, error) {
	c, err := s.repo.GetCustomization(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("customization not found")
	}
	return c, nil
}

// GetCustomizationByResumeAndJob returns the newest customization of the pair, or nil
func (s *Service) GetCustomizationByResumeAndJob(ctx context.Context, userID, resumeID, jobID uuid.UUID) (*db.Customization, error) {
	return s.repo.GetLatestCustomization(ctx, userID, resumeID, jobID)
}

// DeleteCustomization removes one of the user's customizations
func (s *Service) DeleteCustomization(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.repo.DeleteCustomization(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("customization not found or unauthorized")
	}
	return nil
}

// AnalyzeATS scans the customized resume against its job description
func (s *Service) AnalyzeATS(ctx context.Context, userID, customizationID uuid.UUID) (*types.ATSAnalysis, error) {
	view, description, err := s.atsInput(ctx, userID, customizationID)
	if err != nil {
		return nil, err
	}
	return s.scanner.Analyze(ctx, view, description)
}

// SafeOptimizations rewords the customized resume for ATS parsers without adding content
func (s *Service) SafeOptimizations(ctx context.Context, userID, customizationID uuid.UUID) (string, error) {
	view, description, err := s.atsInput(ctx, userID, customizationID)
	if err != nil {
		return "", err
	}
	return s.scanner.GenerateSafeOptimizations(ctx, view, description)
}

func (s *Service) atsInput(ctx context.Context, userID, customizationID uuid.UUID) (ats.ResumeView, string, error) {
	c, err := s.GetCustomization(ctx, userID, customizationID)
	if err != nil {
		return ats.ResumeView{}, "", err
	}
	job, err := s.repo.GetJobDescription(ctx, userID, c.JobID)
	if err != nil {
		return ats.ResumeView{}, "", err
	}
	if job == nil {
		return ats.ResumeView{}, "", notFound("job description not found")
	}
	if c.CustomizedResume == nil {
		return ats.ResumeView{}, "", invalidInput("customized resume not available")
	}
	return ats.FromCustomized(c.CustomizedResume), job.Description, nil
}

// BatchOptimizeInput tailors one stored resume to several pasted jobs
type BatchOptimizeInput struct {
	ResumeID   uuid.UUID        `json:"resume_id" validate:"required"`
	Jobs       []types.BatchJob `json:"jobs" validate:"required,min=1,max=10,dive"`
	TemplateID string           `json:"template_id"`
}

// BatchOptimizeResult holds the per-job results, best match first, and their comparison
type BatchOptimizeResult struct {
	Results        []types.BatchResult    `json:"results"`
	Comparison     *types.BatchComparison `json:"comparison"`
	CommonKeywords types.CommonKeywords   `json:"common_keywords"`
	TemplateID     string                 `json:"template_id"`
}

// BatchOptimize tailors the resume to every job and compares the outcomes
func (s *Service) BatchOptimize(ctx context.Context, userID uuid.UUID, in BatchOptimizeInput) (*BatchOptimizeResult, error) {
	if len(in.Jobs) == 0 || len(in.Jobs) > batch.MaxJobs {
		return nil, invalidInput("between 1 and 10 jobs are required")
	}
	resume, err := s.GetResume(ctx, userID, in.ResumeID)
	if err != nil {
		return nil, err
	}
	if resume.Content == nil {
		return nil, invalidInput("resume content not available")
	}

	results, err := s.batch.Process(ctx, resume.Content, in.Jobs)
	if err != nil {
		return nil, err
	}
	return &BatchOptimizeResult{
		Results:        results,
		Comparison:     batch.Compare(results),
		CommonKeywords: batch.CommonKeywords(results),
		TemplateID:     defaultString(in.TemplateID, DefaultTemplateID),
	}, nil
}

// ListTemplates returns the resume template catalogue
func (s *Service) ListTemplates() []templates.Template {
	return templates.All()
}

func defaultString(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}
