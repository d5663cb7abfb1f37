package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/parsing"
)

func newAnalyzeJobCmd(opts *globalOptions) *cobra.Command {
	var inPath, url, outPath string
	cmd := &cobra.Command{
		Use:   "analyze-job",
		Short: "Extract requirements and keywords from a job description",
		Long:  "Analyze a job description from a file or a posting URL into required and preferred skills, responsibilities, keywords and experience level.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var description string
			if inPath != "" {
				description, err = readJobDescription(inPath)
			} else {
				description, err = jobFetcher(e)(ctx, url)
				if err == nil {
					description, err = ingestion.NormalizeJobDescription(description)
				}
			}
			if err != nil {
				return err
			}

			client, err := e.newLLMClient(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			analysis, err := parsing.AnalyzeJobDescription(ctx, client, description)
			if err != nil {
				return fmt.Errorf("failed to analyze job description: %w", err)
			}

			printer(opts, cmd.ErrOrStderr()).PrintJobAnalysis(analysis)
			return writeJSON(outPath, analysis, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Path to a job description (text or HTML)")
	cmd.Flags().StringVar(&url, "url", "", "URL of a job posting to fetch")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Path to the output JSON file (default stdout)")
	cmd.MarkFlagsOneRequired("in", "url")
	cmd.MarkFlagsMutuallyExclusive("in", "url")
	return cmd
}
