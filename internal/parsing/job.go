package parsing

import (
	"context"
	"strings"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

// AnalyzeJobDescription extracts skills, responsibilities and keywords from a job description
func AnalyzeJobDescription(ctx context.Context, client llm.Client, description string) (*types.JobAnalysis, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, &ValidationError{Field: "description", Message: "job description is empty"}
	}

	system, err := prompts.Get(prompts.JobFile, "analyze-system")
	if err != nil {
		return nil, err
	}
	user, err := prompts.Render(prompts.JobFile, "analyze-user", map[string]string{
		"JobDescription": description,
	})
	if err != nil {
		return nil, err
	}

	var analysis types.JobAnalysis
	if err := llm.GenerateStructured(ctx, client, "analyze_job", llm.TierStandard, system, user, schemas.JobAnalysis, &analysis); err != nil {
		return nil, WrapLLMError("analyze job description", err)
	}

	analysis.RequiredSkills = DedupeFold(analysis.RequiredSkills)
	analysis.NiceToHaveSkills = DedupeFold(analysis.NiceToHaveSkills)
	analysis.Responsibilities = DedupeFold(analysis.Responsibilities)
	analysis.Keywords = DedupeFold(analysis.Keywords)
	analysis.SoftSkills = DedupeFold(analysis.SoftSkills)

	return &analysis, nil
}
