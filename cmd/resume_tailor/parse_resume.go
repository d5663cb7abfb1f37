package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/parsing"
)

func newParseResumeCmd(opts *globalOptions) *cobra.Command {
	var inPath, outPath string
	cmd := &cobra.Command{
		Use:   "parse-resume",
		Short: "Extract and parse a resume file into structured JSON",
		Long:  "Extract the text of a PDF, Word or text resume and parse it into contact info, experience, skills, education and projects.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := e.newLLMClient(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			text, err := ingestion.ReadResumeFile(inPath)
			if err != nil {
				return err
			}
			resume, err := parsing.ParseResume(ctx, client, text)
			if err != nil {
				return fmt.Errorf("failed to parse resume: %w", err)
			}

			printer(opts, cmd.ErrOrStderr()).PrintParsedResume(resume)
			return writeJSON(outPath, resume, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Path to the resume (PDF, DOCX, DOC or TXT)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Path to the output JSON file (default stdout)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
