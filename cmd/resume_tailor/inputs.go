package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/types"
)

// loadResume reads a resume. JSON files are taken as an already parsed resume;
// PDF, Word and text files are extracted and parsed with the LLM.
func loadResume(ctx context.Context, client llm.Client, path string) (*types.ParsedResume, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return readParsedResume(path)
	}
	text, err := ingestion.ReadResumeFile(path)
	if err != nil {
		return nil, err
	}
	return parsing.ParseResume(ctx, client, text)
}

func readParsedResume(path string) (*types.ParsedResume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	var resume types.ParsedResume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to decode parsed resume %s: %w", path, err)
	}
	return &resume, nil
}

// readJobDescription reads a pasted description (plain text or saved HTML) from path
func readJobDescription(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	text, err := ingestion.NormalizeJobDescription(string(data))
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("job description %s is empty", path)
	}
	return text, nil
}

// writeJSON writes v indented to path, or to stdout when path is empty
func writeJSON(path string, v any, stdout io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if path == "" {
		_, err = stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
