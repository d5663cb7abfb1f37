package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm/llmtest"
	"github.com/jonathan/resume-tailor/internal/types"
)

type fixture struct {
	svc   *Service
	repo  *memRepo
	store *memStore
	files *fakeFiles
	llm   *llmtest.Fake
	user  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:  newMemRepo(),
		store: newMemStore(),
		files: &fakeFiles{},
		llm:   scriptedLLM(),
		user:  uuid.New(),
	}
	f.svc = NewService(Deps{
		Repo:  f.repo,
		LLM:   f.llm,
		Store: f.store,
		Files: f.files,
		FetchJob: func(_ context.Context, url string) (string, error) {
			return "<html><body><h1>Go Engineer</h1><p>Build APIs in Go.</p></body></html>", nil
		},
	})
	f.svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return f
}

func (f *fixture) uploadResume(t *testing.T) *db.Resume {
	t.Helper()
	r, err := f.svc.UploadResume(context.Background(), f.user, UploadResumeInput{
		FileName: "jane.txt",
		FileData: base64.StdEncoding.EncodeToString([]byte("Jane Doe\nBackend engineer\nGo, PostgreSQL")),
		MIMEType: ingestion.MIMEText,
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) createJob(t *testing.T, company, role string) *db.JobDescription {
	t.Helper()
	j, err := f.svc.CreateJob(context.Background(), f.user, CreateJobInput{
		Description: "We need a Go engineer to build APIs.",
		CompanyName: company,
		RoleName:    role,
	})
	require.NoError(t, err)
	return j
}

func (f *fixture) customize(t *testing.T, in CreateCustomizationInput) *db.Customization {
	t.Helper()
	c, err := f.svc.CreateCustomization(context.Background(), f.user, in)
	require.NoError(t, err)
	return c
}

func TestError_Is(t *testing.T) {
	err := notFound("resume not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "resume not found", err.Error())
	assert.ErrorIs(t, invalidInput("bad"), ErrInvalidInput)
}

func TestUploadResume(t *testing.T) {
	f := newFixture(t)
	r := f.uploadResume(t)

	key := "resumes/" + f.user.String() + "/1700000000000_jane.txt"
	assert.Equal(t, key, r.FileKey)
	assert.Equal(t, "https://files.test/"+key, r.FileURL)
	assert.Contains(t, f.store.objects, key)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, r.Content.Skills)
	assert.Contains(t, r.RawText, "Jane Doe")
	assert.True(t, containsOp(f.llm, "parse_resume", "Backend engineer"))

	got, err := f.svc.GetResume(context.Background(), f.user, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	list, err := f.svc.ListResumes(context.Background(), f.user)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUploadResume_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   UploadResumeInput
		wantIs  error
		wantMsg string
	}{
		{
			name:    "invalid base64",
			input:   UploadResumeInput{FileName: "a.txt", FileData: "%%%", MIMEType: ingestion.MIMEText},
			wantIs:  ErrInvalidInput,
			wantMsg: "file data is not valid base64",
		},
		{
			name:    "empty file",
			input:   UploadResumeInput{FileName: "a.txt", FileData: "", MIMEType: ingestion.MIMEText},
			wantIs:  ErrInvalidInput,
			wantMsg: "file is empty",
		},
		{
			name:   "unsupported type",
			input:  UploadResumeInput{FileName: "a.gif", FileData: base64.StdEncoding.EncodeToString([]byte("GIF89a")), MIMEType: "image/gif"},
			wantIs: ingestion.ErrUnsupportedFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.UploadResume(context.Background(), f.user, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
			assert.Empty(t, f.repo.resumes)
		})
	}
}

func TestUploadResume_DataURL(t *testing.T) {
	f := newFixture(t)
	data := "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("Jane Doe"))
	r, err := f.svc.UploadResume(context.Background(), f.user, UploadResumeInput{FileName: "a.txt", FileData: data, MIMEType: ingestion.MIMEText})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", r.RawText)
}

func TestGetResume_OtherUser(t *testing.T) {
	f := newFixture(t)
	r := f.uploadResume(t)

	_, err := f.svc.GetResume(context.Background(), uuid.New(), r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateJob(t *testing.T) {
	f := newFixture(t)
	j := f.createJob(t, " Acme ", "Go Engineer")

	assert.Equal(t, "Acme", j.CompanyName)
	assert.Equal(t, []string{"Go"}, j.Analysis.RequiredSkills)
	assert.True(t, containsOp(f.llm, "analyze_job", "build APIs"))

	got, err := f.svc.GetJob(context.Background(), f.user, j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.Description, got.Description)
}

func TestCreateJob_FromURL(t *testing.T) {
	f := newFixture(t)
	j, err := f.svc.CreateJob(context.Background(), f.user, CreateJobInput{URL: "https://jobs.example.com/1"})
	require.NoError(t, err)

	assert.Equal(t, "https://jobs.example.com/1", j.SourceURL)
	assert.Contains(t, j.Description, "Build APIs in Go.")
	assert.NotContains(t, j.Description, "<p>")
}

func TestCreateJob_Errors(t *testing.T) {
	t.Run("missing description and url", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateJob(context.Background(), f.user, CreateJobInput{Description: "  "})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.EqualError(t, err, "either description or url is required")
	})

	t.Run("fetch failure", func(t *testing.T) {
		f := newFixture(t)
		f.svc.fetchJob = func(context.Context, string) (string, error) {
			return "", errors.New("status 404")
		}
		_, err := f.svc.CreateJob(context.Background(), f.user, CreateJobInput{URL: "https://jobs.example.com/gone"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch job posting")
		assert.Empty(t, f.repo.jobs)
	})
}

func TestUploadPhoto(t *testing.T) {
	small := base64.StdEncoding.EncodeToString([]byte("\xff\xd8\xff\xe0jpeg"))
	large := base64.StdEncoding.EncodeToString(make([]byte, MaxPhotoBytes+1))

	tests := []struct {
		name    string
		input   UploadPhotoInput
		wantErr string
	}{
		{name: "jpeg", input: UploadPhotoInput{FileName: "me.jpg", FileData: small, MIMEType: "image/jpeg"}},
		{name: "jpg alias", input: UploadPhotoInput{FileName: "me.jpg", FileData: small, MIMEType: "image/jpg"}},
		{name: "png", input: UploadPhotoInput{FileName: "me.png", FileData: small, MIMEType: "image/png"}},
		{name: "gif rejected", input: UploadPhotoInput{FileName: "me.gif", FileData: small, MIMEType: "image/gif"}, wantErr: "only JPG and PNG images are supported"},
		{name: "too large", input: UploadPhotoInput{FileName: "me.png", FileData: large, MIMEType: "image/png"}, wantErr: "photo size must be less than 5MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			obj, err := f.svc.UploadPhoto(context.Background(), f.user, tt.input)
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(obj.Key, "photos/"+f.user.String()+"/1700000000000_"))
		})
	}
}

func TestCreateCustomization(t *testing.T) {
	f := newFixture(t)
	r := f.uploadResume(t)
	j := f.createJob(t, "", "")

	c := f.customize(t, CreateCustomizationInput{ResumeID: r.ID, JobID: j.ID})

	assert.Equal(t, "classic", c.TemplateID)
	assert.Equal(t, 72, c.MatchScore.OverallMatch)
	assert.Equal(t, "Go backend engineer", c.CustomizedResume.Summary.Revised)
	assert.Equal(t, r.Content.Skills, c.CustomizedResume.Skills)
	assert.Equal(t, r.Content.Education, c.CustomizedResume.Education)
	assert.Equal(t, "Dear hiring team,\n\nI am applying.", c.CoverLetter)
	assert.Equal(t, []string{"Go"}, c.Explanation.SkillEmphasis)
	assert.True(t, containsOp(f.llm, "cover_letter", "COMPANY: the company"))
	assert.True(t, containsOp(f.llm, "cover_letter", "ROLE: this position"))
	assert.Equal(t, []string{"parse_resume", "analyze_job", "match_score", "customize_resume", "cover_letter"}, operations(f.llm))
}

func TestCreateCustomization_Errors(t *testing.T) {
	t.Run("unknown resume", func(t *testing.T) {
		f := newFixture(t)
		j := f.createJob(t, "Acme", "SRE")
		_, err := f.svc.CreateCustomization(context.Background(), f.user, CreateCustomizationInput{ResumeID: uuid.New(), JobID: j.ID})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.EqualError(t, err, "resume or job not found")
	})

	t.Run("job of another user", func(t *testing.T) {
		f := newFixture(t)
		r := f.uploadResume(t)
		j := f.createJob(t, "Acme", "SRE")
		f.repo.jobs[j.ID].UserID = uuid.New()
		_, err := f.svc.CreateCustomization(context.Background(), f.user, CreateCustomizationInput{ResumeID: r.ID, JobID: j.ID})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing analysis", func(t *testing.T) {
		f := newFixture(t)
		r := f.uploadResume(t)
		j := f.createJob(t, "Acme", "SRE")
		f.repo.jobs[j.ID].Analysis = nil
		_, err := f.svc.CreateCustomization(context.Background(), f.user, CreateCustomizationInput{ResumeID: r.ID, JobID: j.ID})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.EqualError(t, err, "job analysis not available")
	})
}

func TestCreateCustomization_Photo(t *testing.T) {
	other := uuid.New()
	tests := []struct {
		name    string
		key     func(user uuid.UUID) string
		url     func(user uuid.UUID) string
		wantKey func(user uuid.UUID) string
		wantErr string
	}{
		{
			name:    "own key",
			key:     func(u uuid.UUID) string { return "photos/" + u.String() + "/1_me.png" },
			wantKey: func(u uuid.UUID) string { return "photos/" + u.String() + "/1_me.png" },
		},
		{
			name:    "own store URL",
			url:     func(u uuid.UUID) string { return "https://files.test/photos/" + u.String() + "/1_me.png" },
			wantKey: func(u uuid.UUID) string { return "photos/" + u.String() + "/1_me.png" },
		},
		{
			name:    "key of another user",
			key:     func(uuid.UUID) string { return "photos/" + other.String() + "/1_me.png" },
			wantErr: "photo not found or unauthorized",
		},
		{
			name:    "key outside photos",
			key:     func(u uuid.UUID) string { return "resumes/" + u.String() + "/1_cv.pdf" },
			wantErr: "photo not found or unauthorized",
		},
		{
			name:    "key escaping prefix",
			key:     func(u uuid.UUID) string { return "photos/" + u.String() + "/../" + other.String() + "/1_me.png" },
			wantErr: "photo not found or unauthorized",
		},
		{
			name:    "outside URL",
			url:     func(u uuid.UUID) string { return "http://169.254.169.254/photos/" + u.String() + "/1_me.png" },
			wantErr: "photo not found or unauthorized",
		},
		{
			name:    "store URL of another user",
			url:     func(uuid.UUID) string { return "https://files.test/photos/" + other.String() + "/1_me.png" },
			wantErr: "photo not found or unauthorized",
		},
		{
			name:    "key and URL disagree",
			key:     func(u uuid.UUID) string { return "photos/" + u.String() + "/1_me.png" },
			url:     func(u uuid.UUID) string { return "https://files.test/photos/" + u.String() + "/2_you.png" },
			wantErr: "photo key and URL do not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			r := f.uploadResume(t)
			j := f.createJob(t, "Acme", "SRE")
			in := CreateCustomizationInput{ResumeID: r.ID, JobID: j.ID, IncludePhoto: true}
			if tt.key != nil {
				in.PhotoKey = tt.key(f.user)
			}
			if tt.url != nil {
				in.PhotoURL = tt.url(f.user)
			}

			c, err := f.svc.CreateCustomization(context.Background(), f.user, in)
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.EqualError(t, err, tt.wantErr)
				assert.Empty(t, f.repo.customizations)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey(f.user), c.PhotoKey)

			_, err = f.svc.GenerateFiles(context.Background(), f.user, c.ID)
			require.NoError(t, err)
			require.Len(t, f.files.inputs, 1)
			assert.Equal(t, tt.wantKey(f.user), f.files.inputs[0].PhotoKey)
		})
	}
}

func TestGenerateFiles(t *testing.T) {
	tests := []struct {
		name         string
		company      string
		role         string
		includePhoto bool
		wantCompany  string
		wantRole     string
		wantPhoto    bool
	}{
		{name: "defaults", wantCompany: "Company", wantRole: "Role"},
		{name: "named job with photo", company: "Acme", role: "SRE", includePhoto: true, wantCompany: "Acme", wantRole: "SRE", wantPhoto: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			r := f.uploadResume(t)
			j := f.createJob(t, tt.company, tt.role)
			photoKey := "photos/" + f.user.String() + "/me.jpg"
			c := f.customize(t, CreateCustomizationInput{
				ResumeID:     r.ID,
				JobID:        j.ID,
				TemplateID:   "modern",
				IncludePhoto: tt.includePhoto,
				PhotoKey:     photoKey,
			})

			files, err := f.svc.GenerateFiles(context.Background(), f.user, c.ID)
			require.NoError(t, err)
			assert.Equal(t, "https://files.test/resume.pdf", files.ResumePDFURL)

			require.Len(t, f.files.inputs, 1)
			in := f.files.inputs[0]
			assert.Equal(t, tt.wantCompany, in.Company)
			assert.Equal(t, tt.wantRole, in.Role)
			assert.Equal(t, "modern", in.TemplateID)
			if tt.wantPhoto {
				assert.Equal(t, photoKey, in.PhotoKey)
			} else {
				assert.Empty(t, in.PhotoKey)
			}
			assert.Equal(t, c.CoverLetter, in.CoverLetter)

			stored, err := f.svc.GetCustomization(context.Background(), f.user, c.ID)
			require.NoError(t, err)
			assert.Equal(t, files, stored.Files)
		})
	}
}

func TestGenerateFiles_RenderFailure(t *testing.T) {
	f := newFixture(t)
	r := f.uploadResume(t)
	j := f.createJob(t, "Acme", "SRE")
	c := f.customize(t, CreateCustomizationInput{ResumeID: r.ID, JobID: j.ID})
	f.files.err = errors.New("chrome crashed")

	_, err := f.svc.GenerateFiles(context.Background(), f.user, c.ID)
	assert.EqualError(t, err, "chrome crashed")
	assert.Nil(t, f.repo.customizations[c.ID].Files)
}

func TestCustomizationLookupAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.uploadResume(t)
	j := f.createJob(t, "Acme", "SRE")
	f.customize(t, CreateCustomizationInput{ResumeID: r.ID, JobID: j.ID})
	second := f.customize(t, CreateCustomizationInput{ResumeID: r.ID, JobID: j.ID, TemplateID: "technical"})

	latest, err := f.svc.GetCustomizationByResumeAndJob(ctx, f.user, r.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	none, err := f.svc.GetCustomizationByResumeAndJob(ctx, f.user, r.ID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, none)

	err = f.svc.DeleteCustomization(ctx, uuid.New(), second.ID)
	assert.EqualError(t, err, "customization not found or unauthorized")

	require.NoError(t, f.svc.DeleteCustomization(ctx, f.user, second.ID))
	list, err := f.svc.ListCustomizations(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.GetCustomization(ctx, f.user, second.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyzeATS(t *testing.T) {
	f := newFixture(t)
	r := f.uploadResume(t)
	j := f.createJob(t, "Acme", "SRE")
	c := f.customize(t, CreateCustomizationInput{ResumeID: r.ID, JobID: j.ID})

	analysis, err := f.svc.AnalyzeATS(context.Background(), f.user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 81, analysis.ATSScore)
	assert.Equal(t, types.RiskLow, analysis.RiskLevel)
	assert.True(t, containsOp(f.llm, "ats_analysis", "Built Go billing service"))
	assert.True(t, containsOp(f.llm, "ats_analysis", j.Description))

	text, err := f.svc.SafeOptimizations(context.Background(), f.user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reworded resume", text)

	_, err = f.svc.AnalyzeATS(context.Background(), f.user, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBatchOptimize(t *testing.T) {
	f := newFixture(t)
	r := f.uploadResume(t)

	out, err := f.svc.BatchOptimize(context.Background(), f.user, BatchOptimizeInput{
		ResumeID: r.ID,
		Jobs: []types.BatchJob{
			{ID: "a", CompanyName: "Acme", RoleName: "SRE", Description: "Go APIs"},
			{ID: "b", CompanyName: "Globex", RoleName: "Backend", Description: "Go services"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, 2, out.Comparison.TotalJobs)
	assert.Equal(t, 72, out.Comparison.AverageMatchScore)
	assert.Equal(t, "classic", out.TemplateID)
	assert.Contains(t, out.CommonKeywords.Universal, "go")
}

func TestBatchOptimize_Errors(t *testing.T) {
	f := newFixture(t)
	r := f.uploadResume(t)

	_, err := f.svc.BatchOptimize(context.Background(), f.user, BatchOptimizeInput{ResumeID: r.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	jobs := make([]types.BatchJob, 11)
	_, err = f.svc.BatchOptimize(context.Background(), f.user, BatchOptimizeInput{ResumeID: r.ID, Jobs: jobs})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.BatchOptimize(context.Background(), f.user, BatchOptimizeInput{
		ResumeID: uuid.New(),
		Jobs:     []types.BatchJob{{CompanyName: "Acme", RoleName: "SRE", Description: "Go"}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.uploadResume(t)
	j := f.createJob(t, "Acme", "SRE")
	c := f.customize(t, CreateCustomizationInput{ResumeID: r.ID, JobID: j.ID})

	t.Run("defaults to applied and copies the match score", func(t *testing.T) {
		app, err := f.svc.CreateApplication(ctx, f.user, CreateApplicationInput{
			CustomizationID: &c.ID,
			CompanyName:     "Acme",
			RoleName:        "SRE",
		})
		require.NoError(t, err)
		assert.Equal(t, types.StatusApplied, app.Status)
		require.NotNil(t, app.MatchScore)
		assert.Equal(t, 72, *app.MatchScore)
	})

	t.Run("explicit scores win", func(t *testing.T) {
		score := 40
		app, err := f.svc.CreateApplication(ctx, f.user, CreateApplicationInput{
			CustomizationID: &c.ID,
			CompanyName:     "Acme",
			RoleName:        "SRE",
			Status:          types.StatusInterview,
			ATSScore:        &score,
		})
		require.NoError(t, err)
		assert.Nil(t, app.MatchScore)
		assert.Equal(t, 40, *app.ATSScore)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.svc.CreateApplication(ctx, f.user, CreateApplicationInput{CompanyName: " ", RoleName: "SRE"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.svc.CreateApplication(ctx, f.user, CreateApplicationInput{CompanyName: "Acme", RoleName: "SRE", Status: "ghosted"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestApplicationLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.CreateApplication(ctx, f.user, CreateApplicationInput{CompanyName: "Acme", RoleName: "SRE"})
	require.NoError(t, err)
	_, err = f.svc.CreateApplication(ctx, f.user, CreateApplicationInput{CompanyName: "Globex", RoleName: "SRE", Status: types.StatusRejected})
	require.NoError(t, err)

	notes := "phone screen went well"
	when := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	updated, err := f.svc.UpdateApplicationStatus(ctx, f.user, UpdateApplicationStatusInput{
		ApplicationID: a.ID,
		Status:        types.StatusOffer,
		Notes:         &notes,
		InterviewDate: &when,
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusOffer, updated.Status)
	assert.Equal(t, notes, updated.Notes)

	// any status may follow any other
	back, err := f.svc.UpdateApplicationStatus(ctx, f.user, UpdateApplicationStatusInput{ApplicationID: a.ID, Status: types.StatusApplied})
	require.NoError(t, err)
	assert.Equal(t, notes, back.Notes)
	_, err = f.svc.UpdateApplicationStatus(ctx, f.user, UpdateApplicationStatusInput{ApplicationID: a.ID, Status: types.StatusOffer})
	require.NoError(t, err)

	_, err = f.svc.UpdateApplicationStatus(ctx, f.user, UpdateApplicationStatusInput{ApplicationID: a.ID, Status: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.UpdateApplicationStatus(ctx, uuid.New(), UpdateApplicationStatusInput{ApplicationID: a.ID, Status: types.StatusOffer})
	assert.ErrorIs(t, err, ErrNotFound)

	stats, err := f.svc.ApplicationStats(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Offer)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 50, stats.SuccessRate)

	require.NoError(t, f.svc.DeleteApplication(ctx, f.user, a.ID))
	assert.ErrorIs(t, f.svc.DeleteApplication(ctx, f.user, a.ID), ErrNotFound)

	list, err := f.svc.ListApplications(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListTemplates(t *testing.T) {
	f := newFixture(t)
	assert.NotEmpty(t, f.svc.ListTemplates())
}
