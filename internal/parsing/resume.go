// Package parsing turns raw resume and job description text into structured data using the LLM.
package parsing

import (
	"context"
	"strings"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

// ParseResume extracts a structured resume from plain resume text
func ParseResume(ctx context.Context, client llm.Client, text string) (*types.ParsedResume, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Message: "resume text is empty"}
	}

	system, err := prompts.Get(prompts.ResumeFile, "parse-system")
	if err != nil {
		return nil, err
	}
	user, err := prompts.Render(prompts.ResumeFile, "parse-user", map[string]string{
		"ResumeText": text,
	})
	if err != nil {
		return nil, err
	}

	var resume types.ParsedResume
	if err := llm.GenerateStructured(ctx, client, "parse_resume", llm.TierStandard, system, user, schemas.ParsedResume, &resume); err != nil {
		return nil, WrapLLMError("parse resume", err)
	}

	resume.Summary = strings.TrimSpace(resume.Summary)
	resume.Skills = DedupeFold(resume.Skills)
	for i := range resume.Experience {
		resume.Experience[i].Bullets = trimAll(resume.Experience[i].Bullets)
	}
	resume.Normalize()

	return &resume, nil
}
