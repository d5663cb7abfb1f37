package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/types"
)

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{}, Deps{})
	assert.Error(t, err)
}

func TestServer_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		env := newTestEnv(t, nil, withHealth(func(context.Context) error { return nil }))
		w := env.do(t, http.MethodGet, "/health", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		env := newTestEnv(t, nil, withHealth(func(context.Context) error { return db.ErrDatabaseUnavailable }))
		w := env.do(t, http.MethodGet, "/health", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unavailable")
	})
}

func TestServer_Metrics(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodGet, "/health", nil, "")

	w := env.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `resume_tailor_http_requests_total{method="GET",route="GET /health",status="200"}`)

	disabled := newTestEnv(t, nil, withOptions(func(o *Options) { o.MetricsEnabled = false }))
	assert.Equal(t, http.StatusNotFound, disabled.do(t, http.MethodGet, "/metrics", nil, "").Code)
}

func TestServer_ListTemplates(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/v1/templates", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[[]map[string]any](t, w)
	assert.NotEmpty(t, list)
}

func TestServer_CORS(t *testing.T) {
	env := newTestEnv(t, nil, withOptions(func(o *Options) { o.CORSOrigin = "https://app.example.com" }))

	w := env.do(t, http.MethodOptions, "/v1/resumes", nil, "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestServer_ProtectedRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t, nil)
	routes := []struct{ method, path string }{
		{http.MethodPost, "/v1/resumes"},
		{http.MethodGet, "/v1/resumes"},
		{http.MethodGet, "/v1/jobs/" + uuid.NewString()},
		{http.MethodPost, "/v1/customizations"},
		{http.MethodPost, "/v1/customizations/batch"},
		{http.MethodGet, "/v1/customizations/lookup"},
		{http.MethodDelete, "/v1/customizations/" + uuid.NewString()},
		{http.MethodGet, "/v1/applications/stats"},
		{http.MethodPatch, "/v1/applications/" + uuid.NewString() + "/status"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := env.do(t, rt.method, rt.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
		})
	}
}

func TestServer_UploadResume(t *testing.T) {
	userID := uuid.New()
	var got pipeline.UploadResumeInput
	pipe := &fakePipeline{
		uploadResume: func(uid uuid.UUID, in pipeline.UploadResumeInput) (*db.Resume, error) {
			assert.Equal(t, userID, uid)
			got = in
			return &db.Resume{ID: uuid.New(), UserID: uid, FileName: in.FileName}, nil
		},
	}
	env := newTestEnv(t, pipe)

	w := env.do(t, http.MethodPost, "/v1/resumes", map[string]string{
		"file_name": "cv.pdf", "file_data": "aGVsbG8=", "mime_type": "application/pdf",
	}, env.token(t, userID))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "cv.pdf", got.FileName)
	assert.Equal(t, "cv.pdf", decodeBody[db.Resume](t, w).FileName)
}

func TestServer_UploadResume_Errors(t *testing.T) {
	userID := uuid.New()
	tests := []struct {
		name       string
		body       any
		pipeErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing fields",
			body:       map[string]string{"file_name": "cv.pdf"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "validation error",
		},
		{
			name:       "invalid input from pipeline",
			body:       map[string]string{"file_name": "cv.pdf", "file_data": "!!", "mime_type": "application/pdf"},
			pipeErr:    &pipeline.Error{Kind: pipeline.ErrInvalidInput, Message: "file data is not valid base64"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "file data is not valid base64",
		},
		{
			name:       "too large",
			body:       map[string]string{"file_name": "cv.pdf", "file_data": strings.Repeat("A", 2<<20), "mime_type": "application/pdf"},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "internal error hides details",
			body:       map[string]string{"file_name": "cv.pdf", "file_data": "aGVsbG8=", "mime_type": "application/pdf"},
			pipeErr:    errors.New("llm exploded: secret detail"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipe := &fakePipeline{
				uploadResume: func(uuid.UUID, pipeline.UploadResumeInput) (*db.Resume, error) {
					return nil, tt.pipeErr
				},
			}
			env := newTestEnv(t, pipe)

			w := env.do(t, http.MethodPost, "/v1/resumes", tt.body, env.token(t, userID))

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			assert.NotContains(t, w.Body.String(), "secret detail")
		})
	}
}

func TestServer_GetResume(t *testing.T) {
	userID := uuid.New()
	resumeID := uuid.New()
	pipe := &fakePipeline{
		getResume: func(uid, id uuid.UUID) (*db.Resume, error) {
			if id != resumeID {
				return nil, &pipeline.Error{Kind: pipeline.ErrNotFound, Message: "resume not found"}
			}
			return &db.Resume{ID: id, UserID: uid}, nil
		},
	}
	env := newTestEnv(t, pipe)
	token := env.token(t, userID)

	w := env.do(t, http.MethodGet, "/v1/resumes/"+resumeID.String(), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resumeID, decodeBody[db.Resume](t, w).ID)

	w = env.do(t, http.MethodGet, "/v1/resumes/"+uuid.NewString(), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"resume not found"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/v1/resumes/not-a-uuid", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid uuid")
}

func TestServer_ListResumes_Empty(t *testing.T) {
	pipe := &fakePipeline{
		listResumes: func(uuid.UUID) ([]db.Resume, error) { return []db.Resume{}, nil },
	}
	env := newTestEnv(t, pipe)

	w := env.do(t, http.MethodGet, "/v1/resumes", nil, env.token(t, uuid.New()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestServer_LookupCustomization(t *testing.T) {
	resumeID, jobID := uuid.New(), uuid.New()
	existing := &db.Customization{ID: uuid.New(), ResumeID: resumeID, JobID: jobID}
	pipe := &fakePipeline{
		lookup: func(_ uuid.UUID, rid, jid uuid.UUID) (*db.Customization, error) {
			if rid == resumeID && jid == jobID {
				return existing, nil
			}
			return nil, nil
		},
	}
	env := newTestEnv(t, pipe)
	token := env.token(t, uuid.New())

	w := env.do(t, http.MethodGet, fmt.Sprintf("/v1/customizations/lookup?resume_id=%s&job_id=%s", resumeID, jobID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, existing.ID, decodeBody[db.Customization](t, w).ID)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/v1/customizations/lookup?resume_id=%s&job_id=%s", uuid.New(), jobID), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "null", w.Body.String())

	w = env.do(t, http.MethodGet, "/v1/customizations/lookup?resume_id="+resumeID.String(), nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "job_id")
}

func TestServer_DeleteCustomization(t *testing.T) {
	owned := uuid.New()
	pipe := &fakePipeline{
		deleteCust: func(_ uuid.UUID, id uuid.UUID) error {
			if id != owned {
				return &pipeline.Error{Kind: pipeline.ErrNotFound, Message: "customization not found or unauthorized"}
			}
			return nil
		},
	}
	env := newTestEnv(t, pipe)
	token := env.token(t, uuid.New())

	w := env.do(t, http.MethodDelete, "/v1/customizations/"+owned.String(), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = env.do(t, http.MethodDelete, "/v1/customizations/"+uuid.NewString(), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_BatchOptimize_PassesJobCountToPipeline(t *testing.T) {
	pipe := &fakePipeline{
		batch: func(_ uuid.UUID, in pipeline.BatchOptimizeInput) (*pipeline.BatchOptimizeResult, error) {
			if len(in.Jobs) == 0 || len(in.Jobs) > 10 {
				return nil, &pipeline.Error{Kind: pipeline.ErrInvalidInput, Message: "between 1 and 10 jobs are required"}
			}
			return &pipeline.BatchOptimizeResult{TemplateID: "classic"}, nil
		},
	}
	env := newTestEnv(t, pipe)
	token := env.token(t, uuid.New())

	w := env.do(t, http.MethodPost, "/v1/customizations/batch", map[string]any{
		"resume_id": uuid.NewString(), "jobs": []any{},
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "between 1 and 10 jobs are required")

	w = env.do(t, http.MethodPost, "/v1/customizations/batch", map[string]any{
		"resume_id": uuid.NewString(),
		"jobs":      []map[string]string{{"company_name": "Acme", "role_name": "SRE", "description": "Run things"}},
	}, token)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestServer_CreateApplication(t *testing.T) {
	userID := uuid.New()
	pipe := &fakePipeline{
		createApp: func(uid uuid.UUID, in pipeline.CreateApplicationInput) (*db.Application, error) {
			return &db.Application{ID: uuid.New(), UserID: uid, CompanyName: in.CompanyName, RoleName: in.RoleName, Status: types.StatusApplied}, nil
		},
	}
	env := newTestEnv(t, pipe)
	token := env.token(t, userID)

	w := env.do(t, http.MethodPost, "/v1/applications", map[string]any{
		"company_name": "Acme", "role_name": "SRE",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, types.StatusApplied, decodeBody[db.Application](t, w).Status)

	w = env.do(t, http.MethodPost, "/v1/applications", map[string]any{
		"company_name": "Acme", "role_name": "SRE", "match_score": 140,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MatchScore")
}

func TestServer_UpdateApplicationStatus(t *testing.T) {
	appID := uuid.New()
	var got pipeline.UpdateApplicationStatusInput
	pipe := &fakePipeline{
		updateStatus: func(_ uuid.UUID, in pipeline.UpdateApplicationStatusInput) (*db.Application, error) {
			got = in
			return &db.Application{ID: in.ApplicationID, Status: in.Status}, nil
		},
	}
	env := newTestEnv(t, pipe)

	w := env.do(t, http.MethodPatch, "/v1/applications/"+appID.String()+"/status", map[string]any{
		"application_id": uuid.NewString(),
		"status":         "interview",
		"notes":          "phone screen",
		"interview_date": "2026-03-01T15:00:00Z",
	}, env.token(t, uuid.New()))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, appID, got.ApplicationID)
	assert.Equal(t, types.StatusInterview, got.Status)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "phone screen", *got.Notes)
	require.NotNil(t, got.InterviewDate)
	assert.True(t, got.InterviewDate.Equal(time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)))
}

func TestServer_Files(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.store.Put(context.Background(), "generated/u1/resume.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/files/generated/u1/resume.pdf", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())

	w = env.do(t, http.MethodGet, "/files/generated/u1/missing.pdf", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/files/generated%5Cu1", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_RateLimit(t *testing.T) {
	cfg := &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/v1/auth/login", Method: http.MethodPost, Limit: 2, Window: time.Hour, Burst: 2},
		},
	}
	env := newTestEnv(t, nil, withLimiter(cfg))
	body := map[string]string{"email": "a@example.com", "password": "password123"}

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/v1/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := env.do(t, http.MethodPost, "/v1/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// Other endpoints keep their own budget
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", nil, "").Code)
}

func TestExtractClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	assert.Equal(t, "203.0.113.7", extractClientID(req))

	req.RemoteAddr = "garbage"
	assert.Equal(t, "garbage", extractClientID(req))
}
