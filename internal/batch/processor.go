// Package batch tailors one resume to several jobs concurrently and compares the outcomes.
package batch

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/ats"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/rewriting"
	"github.com/jonathan/resume-tailor/internal/types"
)

// MaxJobs is the largest batch accepted by Process
const MaxJobs = 10

// Processor runs the per-job tailoring pipeline for a batch
type Processor struct {
	client  llm.Client
	scanner *ats.Scanner
	logger  *zap.Logger
}

// NewProcessor creates a Processor. A nil logger discards output.
func NewProcessor(client llm.Client, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		client:  client,
		scanner: ats.NewScanner(client, logger),
		logger:  logger,
	}
}

// Process tailors the resume to every job concurrently. Results are sorted by
// match score, highest first. The first failing job cancels the rest and its
// error is returned.
func (p *Processor) Process(ctx context.Context, resume *types.ParsedResume, jobs []types.BatchJob) ([]types.BatchResult, error) {
	if resume == nil {
		return nil, &parsing.ValidationError{Field: "resume", Message: "resume is required"}
	}
	if len(jobs) == 0 || len(jobs) > MaxJobs {
		return nil, &parsing.ValidationError{Field: "jobs", Message: fmt.Sprintf("between 1 and %d jobs are required", MaxJobs)}
	}

	results := make([]types.BatchResult, len(jobs))
	g, gCtx := errgroup.WithContext(ctx)

	for i, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		g.Go(func() error {
			result, err := p.processJob(gCtx, resume, job)
			if err != nil {
				p.logger.Error("batch job failed", zap.String("job_id", job.ID), zap.Error(err))
				return fmt.Errorf("job %s (%s - %s): %w", job.ID, job.CompanyName, job.RoleName, err)
			}
			results[i] = *result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].MatchScore > results[b].MatchScore
	})
	return results, nil
}

func (p *Processor) processJob(ctx context.Context, resume *types.ParsedResume, job types.BatchJob) (*types.BatchResult, error) {
	analysis, err := parsing.AnalyzeJobDescription(ctx, p.client, job.Description)
	if err != nil {
		return nil, err
	}

	score, err := matching.CalculateMatchScore(ctx, p.client, resume, analysis)
	if err != nil {
		return nil, err
	}

	customized, _, err := rewriting.CustomizeResume(ctx, p.client, resume, analysis, job.Description)
	if err != nil {
		return nil, err
	}

	coverLetter, err := rewriting.GenerateCoverLetter(ctx, p.client, resume, job.Description, job.CompanyName, job.RoleName)
	if err != nil {
		return nil, err
	}

	atsAnalysis, err := p.scanner.Analyze(ctx, ats.FromCustomized(customized), job.Description)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("batch job done",
		zap.String("job_id", job.ID),
		zap.Int("match_score", score.OverallMatch),
		zap.Int("ats_score", atsAnalysis.ATSScore),
	)

	return &types.BatchResult{
		JobID:            job.ID,
		CompanyName:      job.CompanyName,
		RoleName:         job.RoleName,
		MatchScore:       score.OverallMatch,
		ATSScore:         atsAnalysis.ATSScore,
		CustomizedResume: *customized,
		CoverLetter:      coverLetter,
		Explanation:      fmt.Sprintf("Customized for %s - %s position with %d%% match score", job.CompanyName, job.RoleName, score.OverallMatch),
		Keywords:         atsAnalysis.KeywordAnalysis,
		Analysis:         analysis,
	}, nil
}
