package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/ats"
)

func newATSScanCmd(opts *globalOptions) *cobra.Command {
	var resumePath, jobPath, outPath string
	var optimize bool
	cmd := &cobra.Command{
		Use:   "ats-scan",
		Short: "Score a resume for applicant tracking systems",
		Long:  "Check keyword coverage and formatting of a resume against a job description and suggest rewordings that add no new content.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !supportedResumeExt(resumePath) {
				return fmt.Errorf("unsupported resume file %s (want PDF, DOCX, DOC, TXT or JSON)", resumePath)
			}
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			description, err := readJobDescription(jobPath)
			if err != nil {
				return err
			}

			client, err := e.newLLMClient(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			resume, err := loadResume(ctx, client, resumePath)
			if err != nil {
				return err
			}
			view := ats.FromParsed(resume)
			scanner := ats.NewScanner(client, e.logger)

			report, err := scanner.Analyze(ctx, view, description)
			if err != nil {
				return err
			}
			printer(opts, cmd.ErrOrStderr()).PrintATSAnalysis(report)
			if err := writeJSON(outPath, report, cmd.OutOrStdout()); err != nil {
				return err
			}

			if optimize {
				optimized, err := scanner.GenerateSafeOptimizations(ctx, view, description)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", optimized)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&resumePath, "resume", "", "Resume file (PDF, DOCX, TXT, or parsed JSON)")
	cmd.Flags().StringVar(&jobPath, "job", "", "Job description file (text or HTML)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Path to the report JSON (default stdout)")
	cmd.Flags().BoolVar(&optimize, "optimize", false, "Also print an ATS-safe rewording of the resume")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}
