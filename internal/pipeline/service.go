// Package pipeline orchestrates the resume tailoring operations: uploads, job
// analysis, customization, document generation, ATS scans, batch optimization
// and the application tracker.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/ats"
	"github.com/jonathan/resume-tailor/internal/batch"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/storage"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Repository persists the pipeline's records. *db.DB satisfies it.
type Repository interface {
	CreateResume(ctx context.Context, r *db.Resume) error
	GetResume(ctx context.Context, userID, id uuid.UUID) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)

	CreateJobDescription(ctx context.Context, j *db.JobDescription) error
	GetJobDescription(ctx context.Context, userID, id uuid.UUID) (*db.JobDescription, error)
	ListJobDescriptions(ctx context.Context, userID uuid.UUID) ([]db.JobDescription, error)

	CreateCustomization(ctx context.Context, c *db.Customization) error
	GetCustomization(ctx context.Context, userID, id uuid.UUID) (*db.Customization, error)
	GetLatestCustomization(ctx context.Context, userID, resumeID, jobID uuid.UUID) (*db.Customization, error)
	ListCustomizations(ctx context.Context, userID uuid.UUID) ([]db.Customization, error)
	UpdateCustomizationFiles(ctx context.Context, userID, id uuid.UUID, files *types.GeneratedFiles) error
	DeleteCustomization(ctx context.Context, userID, id uuid.UUID) (bool, error)

	CreateApplication(ctx context.Context, a *db.Application) error
	ListApplications(ctx context.Context, userID uuid.UUID) ([]db.Application, error)
	UpdateApplicationStatus(ctx context.Context, userID, id uuid.UUID, update db.ApplicationStatusUpdate) (*db.Application, error)
	DeleteApplication(ctx context.Context, userID, id uuid.UUID) (bool, error)
	CountApplicationsByStatus(ctx context.Context, userID uuid.UUID) (map[types.ApplicationStatus]int, error)
}

// FileGenerator renders and stores the documents of a customization
type FileGenerator interface {
	GenerateAll(ctx context.Context, in rendering.FilesInput) (*types.GeneratedFiles, error)
}

// BatchProcessor tailors one resume to several jobs
type BatchProcessor interface {
	Process(ctx context.Context, resume *types.ParsedResume, jobs []types.BatchJob) ([]types.BatchResult, error)
}

// JobFetcher returns the main text of the job posting at url
type JobFetcher func(ctx context.Context, url string) (string, error)

// Deps are the collaborators of a Service. Batch, FetchJob and Logger are optional.
type Deps struct {
	Repo     Repository
	LLM      llm.Client
	Store    storage.Store
	Files    FileGenerator
	Batch    BatchProcessor
	FetchJob JobFetcher
	Logger   *zap.Logger
}

// Service implements every client-facing operation
type Service struct {
	repo     Repository
	llm      llm.Client
	store    storage.Store
	files    FileGenerator
	batch    BatchProcessor
	scanner  *ats.Scanner
	fetchJob JobFetcher
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a Service, filling optional dependencies with defaults
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:     d.Repo,
		llm:      d.LLM,
		store:    d.Store,
		files:    d.Files,
		batch:    d.Batch,
		scanner:  ats.NewScanner(d.LLM, logger),
		fetchJob: d.FetchJob,
		logger:   logger,
		now:      time.Now,
	}
	if s.batch == nil {
		s.batch = batch.NewProcessor(d.LLM, logger)
	}
	if s.fetchJob == nil {
		s.fetchJob = DefaultJobFetcher(logger)
	}
	return s
}

// DefaultJobFetcher fetches postings over HTTP with the headless browser fallback
func DefaultJobFetcher(logger *zap.Logger) JobFetcher {
	return func(ctx context.Context, url string) (string, error) {
		opts := fetch.DefaultOptions()
		opts.Logger = logger
		posting, err := fetch.JobPosting(ctx, url, opts)
		if err != nil {
			return "", err
		}
		return posting.Text, nil
	}
}
