package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/llm/llmtest"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/storage"
	"github.com/jonathan/resume-tailor/internal/types"
)

// memRepo is an in-memory Repository scoped by user like the database
type memRepo struct {
	mu             sync.Mutex
	clock          time.Time
	resumes        map[uuid.UUID]*db.Resume
	jobs           map[uuid.UUID]*db.JobDescription
	customizations map[uuid.UUID]*db.Customization
	applications   map[uuid.UUID]*db.Application
}

func newMemRepo() *memRepo {
	return &memRepo{
		clock:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		resumes:        map[uuid.UUID]*db.Resume{},
		jobs:           map[uuid.UUID]*db.JobDescription{},
		customizations: map[uuid.UUID]*db.Customization{},
		applications:   map[uuid.UUID]*db.Application{},
	}
}

func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memRepo) CreateResume(_ context.Context, r *db.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.New()
	r.CreatedAt = m.tick()
	cp := *r
	m.resumes[r.ID] = &cp
	return nil
}

func (m *memRepo) GetResume(_ context.Context, userID, id uuid.UUID) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.resumes[id]; ok && r.UserID == userID {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *memRepo) ListResumes(_ context.Context, userID uuid.UUID) ([]db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Resume{}
	for _, r := range m.resumes {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) CreateJobDescription(_ context.Context, j *db.JobDescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j.ID = uuid.New()
	j.CreatedAt = m.tick()
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *memRepo) GetJobDescription(_ context.Context, userID, id uuid.UUID) (*db.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.jobs[id]; ok && j.UserID == userID {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

func (m *memRepo) ListJobDescriptions(_ context.Context, userID uuid.UUID) ([]db.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.JobDescription{}
	for _, j := range m.jobs {
		if j.UserID == userID {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (m *memRepo) CreateCustomization(_ context.Context, c *db.Customization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = m.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.customizations[c.ID] = &cp
	return nil
}

func (m *memRepo) GetCustomization(_ context.Context, userID, id uuid.UUID) (*db.Customization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.customizations[id]; ok && c.UserID == userID {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memRepo) GetLatestCustomization(_ context.Context, userID, resumeID, jobID uuid.UUID) (*db.Customization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *db.Customization
	for _, c := range m.customizations {
		if c.UserID != userID || c.ResumeID != resumeID || c.JobID != jobID {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *memRepo) ListCustomizations(_ context.Context, userID uuid.UUID) ([]db.Customization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Customization{}
	for _, c := range m.customizations {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) UpdateCustomizationFiles(_ context.Context, userID, id uuid.UUID, files *types.GeneratedFiles) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customizations[id]
	if !ok || c.UserID != userID {
		return fmt.Errorf("customization %s not found", id)
	}
	c.Files = files
	c.UpdatedAt = m.tick()
	return nil
}

func (m *memRepo) DeleteCustomization(_ context.Context, userID, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customizations[id]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(m.customizations, id)
	return true, nil
}

func (m *memRepo) CreateApplication(_ context.Context, a *db.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	a.AppliedAt = m.tick()
	a.UpdatedAt = a.AppliedAt
	cp := *a
	m.applications[a.ID] = &cp
	return nil
}

func (m *memRepo) ListApplications(_ context.Context, userID uuid.UUID) ([]db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Application{}
	for _, a := range m.applications {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

func (m *memRepo) UpdateApplicationStatus(_ context.Context, userID, id uuid.UUID, u db.ApplicationStatusUpdate) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	a.Status = u.Status
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
	if u.Outcome != nil {
		a.Outcome = *u.Outcome
	}
	if u.InterviewDate != nil {
		a.InterviewDate = u.InterviewDate
	}
	a.UpdatedAt = m.tick()
	cp := *a
	return &cp, nil
}

func (m *memRepo) DeleteApplication(_ context.Context, userID, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok || a.UserID != userID {
		return false, nil
	}
	delete(m.applications, id)
	return true, nil
}

func (m *memRepo) CountApplicationsByStatus(_ context.Context, userID uuid.UUID) (map[types.ApplicationStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[types.ApplicationStatus]int{}
	for _, a := range m.applications {
		if a.UserID == userID {
			counts[a.Status]++
		}
	}
	return counts, nil
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memStore) Put(_ context.Context, key string, data []byte, mimeType string) (*storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = mimeType
	return &storage.Object{Key: key, URL: s.URL(key)}, nil
}

func (s *memStore) URL(key string) string {
	return "https://files.test/" + key
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, "", storage.ErrNotFound
	}
	return data, s.types[key], nil
}

type fakeFiles struct {
	inputs []rendering.FilesInput
	err    error
}

func (f *fakeFiles) GenerateAll(_ context.Context, in rendering.FilesInput) (*types.GeneratedFiles, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &types.GeneratedFiles{
		ResumePDFURL:       "https://files.test/resume.pdf",
		ResumeDOCXURL:      "https://files.test/resume.docx",
		CoverLetterPDFURL:  "https://files.test/cover.pdf",
		CoverLetterDOCXURL: "https://files.test/cover.docx",
	}, nil
}

const parsedResumeJSON = `{
	"summary": "Backend engineer",
	"skills": ["Go", "PostgreSQL"],
	"experience": [{"company": "Acme", "role": "Engineer", "duration": "2020 - Present", "bullets": ["Built billing service"]}],
	"projects": [],
	"education": [{"institution": "State University", "degree": "BSc", "field": "CS", "year": "2016"}]
}`

// scriptedLLM answers every pipeline operation with valid JSON
func scriptedLLM() *llmtest.Fake {
	return &llmtest.Fake{Respond: func(req *llm.Request) (string, error) {
		switch req.Operation {
		case "parse_resume":
			return parsedResumeJSON, nil
		case "analyze_job":
			return `{"required_skills":["Go"],"nice_to_have_skills":["Kafka"],"responsibilities":["Build APIs"],"keywords":["go"],"soft_skills":[]}`, nil
		case "match_score":
			return `{"overall_match":72,"strengths":["Go"],"gaps":["Kafka"],"skill_overlap":70,"experience_relevance":75,"keyword_alignment":70}`, nil
		case "customize_resume":
			return `{"summary":{"original":"Backend engineer","revised":"Go backend engineer","reason":"keywords"},"experience":[{"company":"Acme","role":"Engineer","duration":"2020 - Present","bullets":[{"original":"Built billing service","revised":"Built Go billing service","reason":"keywords"}]}],"explanation":{"skill_emphasis":["Go"],"wording_changes":[],"ats_improvements":[]}}`, nil
		case "cover_letter":
			return "Dear hiring team,\n\nI am applying.", nil
		case "ats_analysis":
			return `{"ats_score":81,"keyword_analysis":{"matched":["go"],"missing":["kafka"],"weak":[]},"formatting_warnings":[],"suggestions":[],"risk_level":"low"}`, nil
		case "ats_optimize":
			return "Reworded resume", nil
		}
		return "", fmt.Errorf("unexpected operation %q", req.Operation)
	}}
}

func userMessage(req *llm.Request) string {
	for _, m := range req.Messages {
		if m.Role == llm.RoleUser {
			return m.Content
		}
	}
	return ""
}

func operations(f *llmtest.Fake) []string {
	var ops []string
	for _, r := range f.Requests() {
		ops = append(ops, r.Operation)
	}
	return ops
}

func containsOp(f *llmtest.Fake, op, needle string) bool {
	for _, r := range f.Requests() {
		if r.Operation == op && strings.Contains(userMessage(r), needle) {
			return true
		}
	}
	return false
}
