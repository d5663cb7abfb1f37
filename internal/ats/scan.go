package ats

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

var technicalPattern = regexp.MustCompile(`(?i)\b(python|javascript|typescript|java|c\+\+|react|angular|vue|node|express|django|flask|spring|kubernetes|docker|aws|azure|gcp|sql|mongodb|postgresql|redis|elasticsearch|kafka|git|jenkins|terraform|ansible|ci/cd|rest|graphql|microservices|serverless|lambda|ec2|s3|rds|dynamodb|cloudformation|prometheus|grafana|datadog|new relic|splunk)\b`)

// TermWarning lists technical terms a suggestion introduces that the resume never mentions
type TermWarning struct {
	Suggestion string   `json:"suggestion"`
	Terms      []string `json:"terms"`
}

// Scanner runs ATS scans with an LLM client
type Scanner struct {
	client llm.Client
	logger *zap.Logger
}

// NewScanner creates a Scanner. A nil logger discards warnings.
func NewScanner(client llm.Client, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{client: client, logger: logger}
}

// Analyze scores the resume against a job description. The score is clamped
// and suggestions that introduce new technical terms are logged.
func (s *Scanner) Analyze(ctx context.Context, view ResumeView, jobDescription string) (*types.ATSAnalysis, error) {
	resumeText := BuildResumeText(view)

	system, err := prompts.Get(prompts.ATSFile, "analyze-system")
	if err != nil {
		return nil, err
	}
	user, err := prompts.Render(prompts.ATSFile, "analyze-user", map[string]string{
		"ResumeText":     resumeText,
		"JobDescription": jobDescription,
	})
	if err != nil {
		return nil, err
	}

	var analysis types.ATSAnalysis
	if err := llm.GenerateStructured(ctx, s.client, "ats_analysis", llm.TierStandard, system, user, schemas.ATSAnalysis, &analysis); err != nil {
		return nil, parsing.WrapLLMError("get ATS analysis", err)
	}

	analysis.Normalize()
	if err := analysis.Validate(); err != nil {
		return nil, &parsing.ParseError{Message: "invalid ATS analysis", Cause: err}
	}

	s.ValidateSuggestions(analysis.Suggestions, view)
	return &analysis, nil
}

// ValidateSuggestions logs a warning for every suggestion that may introduce
// technical terms absent from the resume. It never fails.
func (s *Scanner) ValidateSuggestions(suggestions []types.Suggestion, view ResumeView) []TermWarning {
	warnings := CheckSuggestions(suggestions, view)
	for _, w := range warnings {
		s.logger.Warn("ATS suggestion may introduce new terms",
			zap.Strings("terms", w.Terms),
			zap.String("suggestion", w.Suggestion),
		)
	}
	return warnings
}

// GenerateSafeOptimizations asks for a reworded resume that keeps every fact.
// An empty answer yields "" without error.
func (s *Scanner) GenerateSafeOptimizations(ctx context.Context, view ResumeView, jobDescription string) (string, error) {
	system, err := prompts.Get(prompts.ATSFile, "optimize-system")
	if err != nil {
		return "", err
	}
	user, err := prompts.Render(prompts.ATSFile, "optimize-user", map[string]string{
		"ResumeText":     BuildResumeText(view),
		"JobDescription": jobDescription,
	})
	if err != nil {
		return "", err
	}

	text, err := llm.GenerateText(ctx, s.client, "ats_optimize", llm.TierStandard, system, user)
	if errors.Is(err, llm.ErrNoContent) {
		return "", nil
	}
	if err != nil {
		return "", parsing.WrapLLMError("generate optimizations", err)
	}
	return text, nil
}

// CheckSuggestions returns the suggestions that mention technical terms found
// neither in the resume text nor inside any listed skill
func CheckSuggestions(suggestions []types.Suggestion, view ResumeView) []TermWarning {
	resumeContent := strings.ToLower(BuildResumeText(view))
	skills := make([]string, len(view.Skills))
	for i, skill := range view.Skills {
		skills[i] = strings.ToLower(skill)
	}

	var warnings []TermWarning
	for _, sug := range suggestions {
		var newTerms []string
		for _, term := range ExtractTechnicalTerms(sug.Suggestion) {
			if strings.Contains(resumeContent, term) || containsInAny(skills, term) {
				continue
			}
			newTerms = append(newTerms, term)
		}
		if len(newTerms) > 0 {
			warnings = append(warnings, TermWarning{Suggestion: sug.Suggestion, Terms: newTerms})
		}
	}
	return warnings
}

// ExtractTechnicalTerms returns the known technical terms in text, lowercased,
// deduplicated and in order of first appearance
func ExtractTechnicalTerms(text string) []string {
	matches := technicalPattern.FindAllString(text, -1)
	terms := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		m = strings.ToLower(m)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		terms = append(terms, m)
	}
	return terms
}

func containsInAny(items []string, term string) bool {
	for _, item := range items {
		if strings.Contains(item, term) {
			return true
		}
	}
	return false
}
