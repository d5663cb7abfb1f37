package rewriting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Placeholders used when the company or role is unknown
const (
	DefaultCompany = "the company"
	DefaultRole    = "this position"
)

// GenerateCoverLetter writes a plain-text cover letter grounded in the parsed resume
func GenerateCoverLetter(ctx context.Context, client llm.Client, resume *types.ParsedResume, jobDescription, company, role string) (string, error) {
	if resume == nil {
		return "", fmt.Errorf("failed to generate cover letter: resume is required")
	}

	company = strings.TrimSpace(company)
	if company == "" {
		company = DefaultCompany
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = DefaultRole
	}

	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal resume: %w", err)
	}

	system, err := prompts.Get(prompts.CustomizationFile, "cover-letter-system")
	if err != nil {
		return "", err
	}
	user, err := prompts.Render(prompts.CustomizationFile, "cover-letter-user", map[string]string{
		"Company":        company,
		"Role":           role,
		"JobDescription": jobDescription,
		"Resume":         string(resumeJSON),
	})
	if err != nil {
		return "", err
	}

	letter, err := llm.GenerateText(ctx, client, "cover_letter", llm.TierAdvanced, system, user)
	if err != nil {
		return "", fmt.Errorf("failed to generate cover letter: %w", err)
	}
	return letter, nil
}
