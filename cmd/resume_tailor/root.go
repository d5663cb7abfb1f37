package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "resume_tailor",
		Short:         "AI resume tailoring service",
		Long:          "resume_tailor parses resumes, analyzes job descriptions and generates tailored resumes, cover letters and ATS reports, over a REST API or on local files.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML or JSON config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print formatted summaries of each step")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newParseResumeCmd(opts),
		newAnalyzeJobCmd(opts),
		newCustomizeCmd(opts),
		newATSScanCmd(opts),
		newTemplatesCmd(),
	)
	return cmd
}

// env is what the offline commands need from the configuration
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnv(opts *globalOptions) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if err := ingestion.SetPDFLicense(cfg.PDF.LicenseKey); err != nil {
		logger.Warn("PDF license not applied", zap.Error(err))
	}
	return &env{cfg: cfg, logger: logger}, nil
}

// newLLMClient builds the configured provider client with per-tier overrides and metrics
func (e *env) newLLMClient(ctx context.Context) (llm.Client, error) {
	provider, err := llm.ParseProvider(e.cfg.LLM.Provider)
	if err != nil {
		return nil, err
	}
	llmCfg := llm.DefaultConfig(provider)
	overrides := map[llm.ModelTier]string{
		llm.TierLite:     e.cfg.LLM.LiteModel,
		llm.TierStandard: e.cfg.LLM.StandardModel,
		llm.TierAdvanced: e.cfg.LLM.AdvancedModel,
	}
	for tier, model := range overrides {
		if model != "" {
			llmCfg = llmCfg.WithModel(tier, model)
		}
	}
	llmCfg.BaseURL = e.cfg.LLM.OpenAIBaseURL
	if e.cfg.LLM.Temperature > 0 {
		llmCfg.Temperature = e.cfg.LLM.Temperature
	}

	client, err := llm.NewClient(ctx, llmCfg, e.cfg.LLM.APIKey())
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return llm.Instrument(client, e.logger), nil
}

// printer returns a Printer on out when --verbose is set and a silent one otherwise
func printer(opts *globalOptions, out io.Writer) *observability.Printer {
	if !opts.verbose {
		return observability.NewPrinter(io.Discard)
	}
	return observability.NewPrinter(out)
}
