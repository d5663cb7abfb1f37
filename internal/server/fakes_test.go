package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/storage"
	"github.com/jonathan/resume-tailor/internal/templates"
)

// memUsers is an in-memory UserStore
type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db.User
	err   error
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]*db.User)}
}

func (m *memUsers) CheckEmailExists(_ context.Context, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	u, _ := m.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (m *memUsers) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.Nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &db.User{ID: uuid.New(), Name: name, Email: email, Phone: phone, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

func (m *memUsers) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// fakePipeline embeds Pipeline so tests only stub what they call
type fakePipeline struct {
	Pipeline

	uploadResume func(userID uuid.UUID, in pipeline.UploadResumeInput) (*db.Resume, error)
	getResume    func(userID, id uuid.UUID) (*db.Resume, error)
	lookup       func(userID, resumeID, jobID uuid.UUID) (*db.Customization, error)
	deleteCust   func(userID, id uuid.UUID) error
	batch        func(userID uuid.UUID, in pipeline.BatchOptimizeInput) (*pipeline.BatchOptimizeResult, error)
	updateStatus func(userID uuid.UUID, in pipeline.UpdateApplicationStatusInput) (*db.Application, error)
	createApp    func(userID uuid.UUID, in pipeline.CreateApplicationInput) (*db.Application, error)
	listResumes  func(userID uuid.UUID) ([]db.Resume, error)
}

func (f *fakePipeline) UploadResume(_ context.Context, userID uuid.UUID, in pipeline.UploadResumeInput) (*db.Resume, error) {
	return f.uploadResume(userID, in)
}

func (f *fakePipeline) ListResumes(_ context.Context, userID uuid.UUID) ([]db.Resume, error) {
	return f.listResumes(userID)
}

func (f *fakePipeline) GetResume(_ context.Context, userID, id uuid.UUID) (*db.Resume, error) {
	return f.getResume(userID, id)
}

func (f *fakePipeline) GetCustomizationByResumeAndJob(_ context.Context, userID, resumeID, jobID uuid.UUID) (*db.Customization, error) {
	return f.lookup(userID, resumeID, jobID)
}

func (f *fakePipeline) DeleteCustomization(_ context.Context, userID, id uuid.UUID) error {
	return f.deleteCust(userID, id)
}

func (f *fakePipeline) BatchOptimize(_ context.Context, userID uuid.UUID, in pipeline.BatchOptimizeInput) (*pipeline.BatchOptimizeResult, error) {
	return f.batch(userID, in)
}

func (f *fakePipeline) UpdateApplicationStatus(_ context.Context, userID uuid.UUID, in pipeline.UpdateApplicationStatusInput) (*db.Application, error) {
	return f.updateStatus(userID, in)
}

func (f *fakePipeline) CreateApplication(_ context.Context, userID uuid.UUID, in pipeline.CreateApplicationInput) (*db.Application, error) {
	return f.createApp(userID, in)
}

func (f *fakePipeline) ListTemplates() []templates.Template {
	return templates.All()
}

type testEnv struct {
	server *Server
	users  *memUsers
	jwt    *JWTService
	store  *storage.DirStore
}

type envOption func(*Options, *Deps)

func withLimiter(cfg *ratelimit.Config) envOption {
	return func(_ *Options, d *Deps) { d.Limiter = ratelimit.NewLimiter(cfg) }
}

func withOptions(fn func(*Options)) envOption {
	return func(o *Options, _ *Deps) { fn(o) }
}

func withHealth(fn func(context.Context) error) envOption {
	return func(_ *Options, d *Deps) { d.Health = fn }
}

func newTestEnv(t *testing.T, pipe Pipeline, opts ...envOption) *testEnv {
	t.Helper()
	if pipe == nil {
		pipe = &fakePipeline{}
	}
	users := newMemUsers()
	jwtSvc := NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 24,
	})
	store := storage.NewDirStore(t.TempDir())

	o := Options{MaxUploadBytes: 1 << 20, MetricsEnabled: true}
	d := Deps{
		Pipeline: pipe,
		Users:    NewUserService(users, &config.PasswordConfig{BcryptCost: 4}),
		JWT:      jwtSvc,
		Store:    store,
	}
	for _, opt := range opts {
		opt(&o, &d)
	}
	if d.Limiter != nil {
		t.Cleanup(d.Limiter.Stop)
	}

	srv, err := New(o, d)
	require.NoError(t, err)
	return &testEnv{server: srv, users: users, jwt: jwtSvc, store: store}
}

// do sends a request through the full middleware chain
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := e.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	return nil
}
