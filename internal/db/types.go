package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/types"
)

// User represents an account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Resume is an uploaded resume with its parsed content. Immutable once created.
type Resume struct {
	ID       uuid.UUID           `json:"id"`
	UserID   uuid.UUID           `json:"user_id"`
	FileName string              `json:"file_name"`
	FileKey  string              `json:"file_key"`
	FileURL  string              `json:"file_url"`
	MIMEType string              `json:"mime_type"`
	RawText  string              `json:"-"`
	Content  *types.ParsedResume `json:"content"`
	// CreatedAt is set by the database
	CreatedAt time.Time `json:"created_at"`
}

// JobDescription is a submitted job posting with its extracted requirements
type JobDescription struct {
	ID          uuid.UUID          `json:"id"`
	UserID      uuid.UUID          `json:"user_id"`
	CompanyName string             `json:"company_name"`
	RoleName    string             `json:"role_name"`
	SourceURL   string             `json:"source_url,omitempty"`
	Description string             `json:"description"`
	Analysis    *types.JobAnalysis `json:"analysis"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Customization links a resume and a job to the AI output generated for them.
// Only Files changes after creation.
type Customization struct {
	ID               uuid.UUID               `json:"id"`
	UserID           uuid.UUID               `json:"user_id"`
	ResumeID         uuid.UUID               `json:"resume_id"`
	JobID            uuid.UUID               `json:"job_id"`
	MatchScore       *types.MatchScore       `json:"match_score"`
	CustomizedResume *types.CustomizedResume `json:"customized_resume"`
	CoverLetter      string                  `json:"cover_letter"`
	Explanation      *types.Explanation      `json:"explanation"`
	TemplateID       string                  `json:"template_id"`
	IncludePhoto     bool                    `json:"include_photo"`
	PhotoKey         string                  `json:"photo_key,omitempty"`
	PhotoURL         string                  `json:"photo_url,omitempty"`
	Files            *types.GeneratedFiles   `json:"files,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// Application is a user-tracked job application
type Application struct {
	ID              uuid.UUID               `json:"id"`
	UserID          uuid.UUID               `json:"user_id"`
	CustomizationID *uuid.UUID              `json:"customization_id,omitempty"`
	CompanyName     string                  `json:"company_name"`
	RoleName        string                  `json:"role_name"`
	Status          types.ApplicationStatus `json:"status"`
	Notes           string                  `json:"notes,omitempty"`
	Outcome         string                  `json:"outcome,omitempty"`
	InterviewDate   *time.Time              `json:"interview_date,omitempty"`
	MatchScore      *int                    `json:"match_score,omitempty"`
	ATSScore        *int                    `json:"ats_score,omitempty"`
	AppliedAt       time.Time               `json:"applied_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ApplicationStatusUpdate changes an application's status. Nil fields are left unchanged.
type ApplicationStatusUpdate struct {
	Status        types.ApplicationStatus
	Notes         *string
	Outcome       *string
	InterviewDate *time.Time
}
