package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/ats"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/rewriting"
	"github.com/jonathan/resume-tailor/internal/storage"
	"github.com/jonathan/resume-tailor/internal/templates"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Output file names written by customize
const (
	fileParsedResume     = "parsed_resume.json"
	fileJobAnalysis      = "job_analysis.json"
	fileMatchScore       = "match_score.json"
	fileCustomizedResume = "customized_resume.json"
	fileExplanation      = "explanation.json"
	fileCoverLetter      = "cover_letter.txt"
	fileATSReport        = "ats_report.json"
	fileBulletReview     = "bullet_review.json"
	fileGenerated        = "files.json"
)

type customizeOptions struct {
	resumePath string
	jobPath    string
	templateID string
	outDir     string
	company    string
	role       string
	photoPath  string
	skipFiles  bool
}

func newCustomizeCmd(opts *globalOptions) *cobra.Command {
	o := &customizeOptions{}
	cmd := &cobra.Command{
		Use:   "customize",
		Short: "Tailor a resume to a job and write the results to a directory",
		Long: `Parse the resume, analyze the job, score the match, rewrite the resume and
cover letter, run the ATS scan and render PDF and DOCX files into --out.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !supportedResumeExt(o.resumePath) {
				return fmt.Errorf("unsupported resume file %s (want PDF, DOCX, DOC, TXT or JSON)", o.resumePath)
			}
			if _, ok := templates.Get(o.templateID); !ok {
				return fmt.Errorf("unknown template %q (run 'resume_tailor templates')", o.templateID)
			}
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			return runCustomize(cmd.Context(), e, o, printer(opts, cmd.ErrOrStderr()), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&o.resumePath, "resume", "", "Resume file (PDF, DOCX, TXT, or parsed JSON)")
	cmd.Flags().StringVar(&o.jobPath, "job", "", "Job description file (text or HTML)")
	cmd.Flags().StringVar(&o.templateID, "template", "classic", "Template ID")
	cmd.Flags().StringVar(&o.outDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&o.company, "company", "", "Company name for the cover letter and file names")
	cmd.Flags().StringVar(&o.role, "role", "", "Role name for the cover letter and file names")
	cmd.Flags().StringVar(&o.photoPath, "photo", "", "Optional JPG or PNG profile photo")
	cmd.Flags().BoolVar(&o.skipFiles, "skip-files", false, "Skip PDF and DOCX rendering (no Chrome needed)")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runCustomize(ctx context.Context, e *env, o *customizeOptions, p *observability.Printer, out io.Writer) error {
	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	description, err := readJobDescription(o.jobPath)
	if err != nil {
		return err
	}

	client, err := e.newLLMClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	// Parsing the resume and analyzing the job are independent
	var (
		resume   *types.ParsedResume
		analysis *types.JobAnalysis
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		resume, err = loadResume(egCtx, client, o.resumePath)
		return err
	})
	eg.Go(func() error {
		var err error
		analysis, err = parsing.AnalyzeJobDescription(egCtx, client, description)
		return err
	})
	if err := eg.Wait(); err != nil {
		return err
	}
	p.PrintParsedResume(resume)
	p.PrintJobAnalysis(analysis)

	score, err := matching.CalculateMatchScore(ctx, client, resume, analysis)
	if err != nil {
		return err
	}
	p.PrintMatchScore(score)

	customized, explanation, err := rewriting.CustomizeResume(ctx, client, resume, analysis, description)
	if err != nil {
		return err
	}
	p.PrintCustomizedResume(customized)

	company := defaultString(o.company, "the company")
	role := defaultString(o.role, "this position")
	coverLetter, err := rewriting.GenerateCoverLetter(ctx, client, resume, description, company, role)
	if err != nil {
		return err
	}

	report, err := ats.NewScanner(client, e.logger).Analyze(ctx, ats.FromCustomized(customized), description)
	if err != nil {
		return err
	}
	p.PrintATSAnalysis(report)

	reviews := rewriting.ReviewBullets(customized)
	printBulletReview(out, reviews)

	outputs := []struct {
		name string
		v    any
	}{
		{fileParsedResume, resume},
		{fileJobAnalysis, analysis},
		{fileMatchScore, score},
		{fileCustomizedResume, customized},
		{fileExplanation, explanation},
		{fileATSReport, report},
		{fileBulletReview, reviews},
	}
	for _, f := range outputs {
		if err := writeJSON(filepath.Join(o.outDir, f.name), f.v, nil); err != nil {
			return err
		}
	}
	if err := os.WriteFile(filepath.Join(o.outDir, fileCoverLetter), []byte(coverLetter+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write cover letter: %w", err)
	}

	if !o.skipFiles {
		files, err := renderFiles(ctx, e, o, customized, coverLetter)
		if err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(o.outDir, fileGenerated), files, nil); err != nil {
			return err
		}
	}

	e.logger.Info("customization written",
		zap.String("dir", o.outDir),
		zap.Int("match", score.OverallMatch),
		zap.Int("ats", report.ATSScore))
	_, _ = fmt.Fprintf(out, "Match %d%%, ATS %d%% (%s risk). Results in %s\n",
		score.OverallMatch, report.ATSScore, report.RiskLevel, o.outDir)
	return nil
}

// renderFiles renders PDF and DOCX documents into the output directory
func renderFiles(ctx context.Context, e *env, o *customizeOptions, resume *types.CustomizedResume, coverLetter string) (*types.GeneratedFiles, error) {
	store := storage.NewDirStore(o.outDir)
	in := rendering.FilesInput{
		Resume:      resume,
		CoverLetter: coverLetter,
		Company:     defaultString(o.company, "Company"),
		Role:        defaultString(o.role, "Role"),
		TemplateID:  o.templateID,
	}
	if o.photoPath != "" {
		data, err := os.ReadFile(o.photoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read photo: %w", err)
		}
		key := "photos/profile" + strings.ToLower(filepath.Ext(o.photoPath))
		if _, err := store.Put(ctx, key, data, ""); err != nil {
			return nil, err
		}
		in.PhotoKey = key
	}

	converter := rendering.NewChromeConverter(e.cfg.Render.ChromeRemoteURL, e.cfg.Render.Timeout)
	return rendering.NewGenerator(converter, store, e.logger).GenerateAll(ctx, in)
}

//nolint:errcheck // writing to the terminal
func printBulletReview(out io.Writer, reviews []rewriting.BulletReview) {
	var flagged int
	for _, r := range reviews {
		if r.Checks.Passed() {
			continue
		}
		flagged++
		var issues []string
		if !r.Checks.StrongVerb {
			issues = append(issues, "weak opening verb")
		}
		if len(r.Checks.WeakPhrases) > 0 {
			issues = append(issues, "weak phrasing: "+strings.Join(r.Checks.WeakPhrases, ", "))
		}
		fmt.Fprintf(out, "! %s, %s: %q (%s)\n", r.Company, r.Role, r.Text, strings.Join(issues, "; "))
	}
	if flagged > 0 {
		fmt.Fprintf(out, "%d of %d bullets need review\n", flagged, len(reviews))
	}
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// supportedResumeExt reports whether path has an extension customize can read
func supportedResumeExt(path string) bool {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return true
	}
	_, err := ingestion.DetectMIMEType(path)
	return err == nil
}
