package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/storage"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var (
		port    int
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server that exposes the resume, job, customization and application endpoints.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer func() { _ = e.logger.Sync() }()
			if cmd.Flags().Changed("port") {
				e.cfg.Server.Port = port
			}
			return runServe(cmd.Context(), e, migrate)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides server.port)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply database migrations before serving")
	return cmd
}

func runServe(ctx context.Context, e *env, migrate bool) error {
	cfg := e.cfg
	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or database.url)")
	}

	shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		ServiceName:  cfg.Observability.ServiceName,
		Exporter:     cfg.Observability.TracingExporter,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			e.logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	if migrate {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
	}

	store, closeStore, err := newStore(ctx, e, database)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore.Close() }()

	client, err := e.newLLMClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	converter := rendering.NewChromeConverter(cfg.Render.ChromeRemoteURL, cfg.Render.Timeout)
	service := pipeline.NewService(pipeline.Deps{
		Repo:     database,
		LLM:      client,
		Store:    store,
		Files:    rendering.NewGenerator(converter, store, e.logger),
		FetchJob: jobFetcher(e),
		Logger:   e.logger,
	})

	jwtCfg, err := cfg.JWTConfig()
	if err != nil {
		return err
	}
	pwCfg, err := cfg.PasswordConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		CORSOrigin:     cfg.Server.CORSOrigin,
		SecureCookies:  cfg.Auth.SecureCookies,
		ServiceName:    cfg.Observability.ServiceName,
		MetricsEnabled: cfg.Observability.MetricsEnabled,
	}, server.Deps{
		Pipeline: service,
		Users:    server.NewUserService(database, pwCfg),
		JWT:      server.NewJWTService(jwtCfg),
		Store:    store,
		Limiter:  ratelimit.NewLimiter(ratelimit.FromSettings(cfg.RateLimit)),
		Health:   database.Ping,
		Logger:   e.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}

// newStore opens the configured object storage backend
func newStore(ctx context.Context, e *env, database *db.DB) (storage.Store, io.Closer, error) {
	cfg := e.cfg
	switch cfg.Storage.Backend {
	case "gcs":
		baseURL := cfg.Storage.PublicBaseURL
		if baseURL == "" {
			baseURL = "https://storage.googleapis.com/" + cfg.Storage.Bucket
		}
		gcs, err := storage.NewGCSStore(ctx, cfg.Storage.Bucket, baseURL)
		if err != nil {
			return nil, nil, err
		}
		return gcs, gcs, nil
	case "local":
		return storage.NewDirStore(cfg.Storage.Dir), nopCloser{}, nil
	default:
		return storage.NewDBStore(database, cfg.Server.PublicBaseURL), nopCloser{}, nil
	}
}

// jobFetcher fetches postings, rendering script-heavy pages with the configured Chrome
func jobFetcher(e *env) pipeline.JobFetcher {
	return func(ctx context.Context, url string) (string, error) {
		opts := fetch.DefaultOptions()
		opts.Logger = e.logger
		opts.Browser.RemoteURL = e.cfg.Render.ChromeRemoteURL
		posting, err := fetch.JobPosting(ctx, url, opts)
		if err != nil {
			return "", err
		}
		return posting.Text, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
