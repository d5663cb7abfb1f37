// Package matching scores how well a parsed resume fits an analyzed job.
package matching

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

// CalculateMatchScore asks the LLM to rate the resume against the job analysis.
// Every score in the result is clamped to 0-100.
func CalculateMatchScore(ctx context.Context, client llm.Client, resume *types.ParsedResume, analysis *types.JobAnalysis) (*types.MatchScore, error) {
	if resume == nil || analysis == nil {
		return nil, &parsing.ValidationError{Message: "resume and job analysis are required"}
	}

	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job analysis: %w", err)
	}

	system, err := prompts.Get(prompts.MatchingFile, "score-system")
	if err != nil {
		return nil, err
	}
	user, err := prompts.Render(prompts.MatchingFile, "score-user", map[string]string{
		"Resume":      string(resumeJSON),
		"JobAnalysis": string(analysisJSON),
	})
	if err != nil {
		return nil, err
	}

	var score types.MatchScore
	if err := llm.GenerateStructured(ctx, client, "match_score", llm.TierStandard, system, user, schemas.MatchScore, &score); err != nil {
		return nil, parsing.WrapLLMError("calculate match score", err)
	}

	score.Clamp()
	if score.Strengths == nil {
		score.Strengths = []string{}
	}
	if score.Gaps == nil {
		score.Gaps = []string{}
	}
	return &score, nil
}
