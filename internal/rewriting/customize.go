// Package rewriting tailors a parsed resume to a job and writes the matching cover letter.
package rewriting

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

// customizationResponse is the shape the LLM returns for the customization schema
type customizationResponse struct {
	Summary     types.Revision               `json:"summary"`
	Experience  []types.CustomizedExperience `json:"experience"`
	Explanation types.Explanation            `json:"explanation"`
}

// CustomizeResume rewrites the summary and experience bullets of a resume for a job.
// Skills, projects and education are copied from the parsed resume whatever the LLM returns.
func CustomizeResume(ctx context.Context, client llm.Client, resume *types.ParsedResume, analysis *types.JobAnalysis, jobDescription string) (*types.CustomizedResume, *types.Explanation, error) {
	if resume == nil || analysis == nil {
		return nil, nil, &parsing.ValidationError{Message: "resume and job analysis are required"}
	}

	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal resume: %w", err)
	}
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal job analysis: %w", err)
	}

	system, err := prompts.Get(prompts.CustomizationFile, "customize-system")
	if err != nil {
		return nil, nil, err
	}
	user, err := prompts.Render(prompts.CustomizationFile, "customize-user", map[string]string{
		"Resume":         string(resumeJSON),
		"JobAnalysis":    string(analysisJSON),
		"JobDescription": jobDescription,
	})
	if err != nil {
		return nil, nil, err
	}

	var resp customizationResponse
	if err := llm.GenerateStructured(ctx, client, "customize_resume", llm.TierAdvanced, system, user, schemas.Customization, &resp); err != nil {
		return nil, nil, parsing.WrapLLMError("customize resume", err)
	}

	customized := &types.CustomizedResume{
		Summary:    resp.Summary,
		Experience: alignExperience(resume.Experience, resp.Experience),
		Skills:     append([]string{}, resume.Skills...),
		Projects:   copyProjects(resume.Projects),
		Education:  append([]types.Education{}, resume.Education...),
	}
	if customized.Summary.Original == "" {
		customized.Summary.Original = resume.Summary
	}

	explanation := resp.Explanation
	if explanation.SkillEmphasis == nil {
		explanation.SkillEmphasis = []string{}
	}
	if explanation.WordingChanges == nil {
		explanation.WordingChanges = []string{}
	}
	if explanation.ATSImprovements == nil {
		explanation.ATSImprovements = []string{}
	}

	return customized, &explanation, nil
}

func copyProjects(projects []types.Project) []types.Project {
	out := make([]types.Project, len(projects))
	for i, p := range projects {
		p.Technologies = slices.Clone(p.Technologies)
		out[i] = p
	}
	return out
}

// alignExperience restores the factual fields of each rewritten entry from the
// original. When the LLM returned the same number of entries they are paired by
// position; otherwise the rewritten entries are kept as returned.
func alignExperience(original []types.Experience, rewritten []types.CustomizedExperience) []types.CustomizedExperience {
	out := make([]types.CustomizedExperience, 0, len(rewritten))
	for i, exp := range rewritten {
		if len(original) == len(rewritten) {
			exp.Company = original[i].Company
			exp.Role = original[i].Role
			exp.Duration = original[i].Duration
		}
		bullets := make([]types.Revision, 0, len(exp.Bullets))
		for _, b := range exp.Bullets {
			b.Original = strings.TrimSpace(b.Original)
			b.Revised = strings.TrimSpace(b.Revised)
			if b.Original == "" && b.Revised == "" {
				continue
			}
			bullets = append(bullets, b)
		}
		exp.Bullets = bullets
		out = append(out, exp)
	}
	return out
}
