package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/storage"
	"github.com/jonathan/resume-tailor/internal/templates"
	"github.com/jonathan/resume-tailor/internal/types"
)

const shutdownTimeout = 30 * time.Second

// Pipeline is the set of resume operations exposed over HTTP. *pipeline.Service satisfies it.
type Pipeline interface {
	UploadResume(ctx context.Context, userID uuid.UUID, in pipeline.UploadResumeInput) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
	GetResume(ctx context.Context, userID, id uuid.UUID) (*db.Resume, error)

	CreateJob(ctx context.Context, userID uuid.UUID, in pipeline.CreateJobInput) (*db.JobDescription, error)
	ListJobs(ctx context.Context, userID uuid.UUID) ([]db.JobDescription, error)
	GetJob(ctx context.Context, userID, id uuid.UUID) (*db.JobDescription, error)

	UploadPhoto(ctx context.Context, userID uuid.UUID, in pipeline.UploadPhotoInput) (*storage.Object, error)
	CreateCustomization(ctx context.Context, userID uuid.UUID, in pipeline.CreateCustomizationInput) (*db.Customization, error)
	GenerateFiles(ctx context.Context, userID, customizationID uuid.UUID) (*types.GeneratedFiles, error)
	ListCustomizations(ctx context.Context, userID uuid.UUID) ([]db.Customization, error)
	GetCustomization(ctx context.Context, userID, id uuid.UUID) (*db.Customization, error)
	GetCustomizationByResumeAndJob(ctx context.Context, userID, resumeID, jobID uuid.UUID) (*db.Customization, error)
	DeleteCustomization(ctx context.Context, userID, id uuid.UUID) error
	AnalyzeATS(ctx context.Context, userID, customizationID uuid.UUID) (*types.ATSAnalysis, error)
	SafeOptimizations(ctx context.Context, userID, customizationID uuid.UUID) (string, error)
	BatchOptimize(ctx context.Context, userID uuid.UUID, in pipeline.BatchOptimizeInput) (*pipeline.BatchOptimizeResult, error)
	ListTemplates() []templates.Template

	CreateApplication(ctx context.Context, userID uuid.UUID, in pipeline.CreateApplicationInput) (*db.Application, error)
	ListApplications(ctx context.Context, userID uuid.UUID) ([]db.Application, error)
	UpdateApplicationStatus(ctx context.Context, userID uuid.UUID, in pipeline.UpdateApplicationStatusInput) (*db.Application, error)
	DeleteApplication(ctx context.Context, userID, id uuid.UUID) error
	ApplicationStats(ctx context.Context, userID uuid.UUID) (types.ApplicationStats, error)
}

// Options holds the HTTP settings of the server
type Options struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
	CORSOrigin     string
	SecureCookies  bool
	ServiceName    string
	MetricsEnabled bool
}

// Deps are the collaborators of the server. Limiter and Health are optional.
type Deps struct {
	Pipeline Pipeline
	Users    *UserService
	JWT      *JWTService
	Store    storage.Store
	Limiter  *ratelimit.Limiter
	Health   func(context.Context) error
	Logger   *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	opts        Options
	httpServer  *http.Server
	handler     http.Handler
	pipeline    Pipeline
	store       storage.Store
	jwtService  *JWTService
	authHandler *AuthHandler
	rateLimiter *ratelimit.Limiter
	health      func(context.Context) error
	validator   *validator.Validate
	logger      *zap.Logger
}

// New creates a new server instance
func New(opts Options, deps Deps) (*Server, error) {
	if deps.Pipeline == nil || deps.Users == nil || deps.JWT == nil || deps.Store == nil {
		return nil, errors.New("server requires a pipeline, user service, JWT service and store")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "resume-tailor"
	}

	s := &Server{
		opts:        opts,
		pipeline:    deps.Pipeline,
		store:       deps.Store,
		jwtService:  deps.JWT,
		authHandler: NewAuthHandler(deps.Users, deps.JWT, opts.SecureCookies, logger),
		rateLimiter: deps.Limiter,
		health:      deps.Health,
		validator:   validator.New(),
		logger:      logger,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = s.withLogging(s.withCORS(mux))
	if s.rateLimiter != nil {
		handler = s.withRateLimit(handler)
	}
	s.handler = otelhttp.NewHandler(handler, opts.ServiceName)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.handler,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	validatorAdapter := s.jwtService.AsTokenValidator()
	auth := middleware.AuthMiddleware(validatorAdapter)
	optional := middleware.OptionalAuth(validatorAdapter)
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(s.limitBody(h)))
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	if s.opts.MetricsEnabled {
		mux.Handle("GET /metrics", observability.MetricsHandler())
	}
	mux.HandleFunc("GET /files/{key...}", s.handleFile)
	mux.HandleFunc("GET /v1/templates", s.handleListTemplates)

	mux.Handle("POST /v1/auth/register", s.limitBody(s.authHandler.Register))
	mux.Handle("POST /v1/auth/login", s.limitBody(s.authHandler.Login))
	mux.Handle("GET /v1/auth/me", optional(http.HandlerFunc(s.authHandler.Me)))
	mux.HandleFunc("POST /v1/auth/logout", s.authHandler.Logout)
	protected("POST /v1/auth/password", s.authHandler.UpdatePassword)

	protected("POST /v1/resumes", s.handleUploadResume)
	protected("GET /v1/resumes", s.handleListResumes)
	protected("GET /v1/resumes/{id}", s.handleGetResume)

	protected("POST /v1/jobs", s.handleCreateJob)
	protected("GET /v1/jobs", s.handleListJobs)
	protected("GET /v1/jobs/{id}", s.handleGetJob)

	protected("POST /v1/customizations/photo", s.handleUploadPhoto)
	protected("POST /v1/customizations/batch", s.handleBatchOptimize)
	protected("POST /v1/customizations", s.handleCreateCustomization)
	protected("GET /v1/customizations", s.handleListCustomizations)
	protected("GET /v1/customizations/lookup", s.handleLookupCustomization)
	protected("GET /v1/customizations/{id}", s.handleGetCustomization)
	protected("DELETE /v1/customizations/{id}", s.handleDeleteCustomization)
	protected("POST /v1/customizations/{id}/files", s.handleGenerateFiles)
	protected("GET /v1/customizations/{id}/ats", s.handleAnalyzeATS)
	protected("POST /v1/customizations/{id}/optimize", s.handleSafeOptimizations)

	protected("POST /v1/applications", s.handleCreateApplication)
	protected("GET /v1/applications", s.handleListApplications)
	protected("GET /v1/applications/stats", s.handleApplicationStats)
	protected("PATCH /v1/applications/{id}/status", s.handleUpdateApplicationStatus)
	protected("DELETE /v1/applications/{id}", s.handleDeleteApplication)
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.logger.Info("server stopped")
	return nil
}

// limitBody caps request bodies at MaxUploadBytes
func (s *Server) limitBody(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
		next(w, r)
	})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.opts.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if s.opts.CORSOrigin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests over their endpoint budget with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			observability.RateLimitHits.WithLabelValues(info.Endpoint).Inc()
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// withLogging logs each request and records its metrics, labelled by the matched route pattern
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		// The mux sets Pattern on the request it was handed
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		observability.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		observability.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
			zap.String("remote", r.RemoteAddr))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		retry := int(info.RetryAfter.Seconds())
		if retry < 1 {
			retry = 1
		}
		response["retry_after"] = retry
		w.Header().Set("Retry-After", strconv.Itoa(retry))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("endpoint", info.Endpoint),
		zap.String("client", extractClientID(r)),
		zap.Int("limit", info.Limit))

	jsonResponse(w, http.StatusTooManyRequests, response)
}
