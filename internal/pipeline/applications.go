package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/types"
)

// CreateApplicationInput logs a job application
type CreateApplicationInput struct {
	CustomizationID *uuid.UUID              `json:"customization_id"`
	CompanyName     string                  `json:"company_name" validate:"required"`
	RoleName        string                  `json:"role_name" validate:"required"`
	Notes           string                  `json:"notes"`
	Status          types.ApplicationStatus `json:"status"`
	MatchScore      *int                    `json:"match_score" validate:"omitempty,min=0,max=100"`
	ATSScore        *int                    `json:"ats_score" validate:"omitempty,min=0,max=100"`
}

// CreateApplication records a new application. The status defaults to applied.
func (s *Service) CreateApplication(ctx context.Context, userID uuid.UUID, in CreateApplicationInput) (*db.Application, error) {
	company := strings.TrimSpace(in.CompanyName)
	role := strings.TrimSpace(in.RoleName)
	if company == "" || role == "" {
		return nil, invalidInput("company name and role name are required")
	}
	status := in.Status
	if status == "" {
		status = types.StatusApplied
	}
	if !status.IsValid() {
		return nil, invalidInput("invalid application status: " + string(status))
	}

	app := &db.Application{
		UserID:          userID,
		CustomizationID: in.CustomizationID,
		CompanyName:     company,
		RoleName:        role,
		Status:          status,
		Notes:           in.Notes,
		MatchScore:      in.MatchScore,
		ATSScore:        in.ATSScore,
	}

	if in.CustomizationID != nil && in.MatchScore == nil && in.ATSScore == nil {
		c, err := s.repo.GetCustomization(ctx, userID, *in.CustomizationID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, notFound("customization not found")
		}
		if c.MatchScore != nil {
			match := c.MatchScore.OverallMatch
			app.MatchScore = &match
		}
	}

	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplications returns the user's applications, newest first
func (s *Service) ListApplications(ctx context.Context, userID uuid.UUID) ([]db.Application, error) {
	return s.repo.ListApplications(ctx, userID)
}

// UpdateApplicationStatusInput moves an application to any status
type UpdateApplicationStatusInput struct {
	ApplicationID uuid.UUID               `json:"application_id"`
	Status        types.ApplicationStatus `json:"status" validate:"required"`
	Notes         *string                 `json:"notes"`
	Outcome       *string                 `json:"outcome"`
	InterviewDate *time.Time              `json:"interview_date"`
}

// UpdateApplicationStatus changes an application's status and optional details
func (s *Service) UpdateApplicationStatus(ctx context.Context, userID uuid.UUID, in UpdateApplicationStatusInput) (*db.Application, error) {
	if !in.Status.IsValid() {
		return nil, invalidInput("invalid application status: " + string(in.Status))
	}
	app, err := s.repo.UpdateApplicationStatus(ctx, userID, in.ApplicationID, db.ApplicationStatusUpdate{
		Status:        in.Status,
		Notes:         in.Notes,
		Outcome:       in.Outcome,
		InterviewDate: in.InterviewDate,
	})
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, notFound("application not found")
	}
	return app, nil
}

// DeleteApplication removes one of the user's applications
func (s *Service) DeleteApplication(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.repo.DeleteApplication(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("application not found")
	}
	return nil
}

// ApplicationStats aggregates the user's applications by status
func (s *Service) ApplicationStats(ctx context.Context, userID uuid.UUID) (types.ApplicationStats, error) {
	counts, err := s.repo.CountApplicationsByStatus(ctx, userID)
	if err != nil {
		return types.ApplicationStats{}, err
	}
	return types.StatsFromCounts(counts), nil
}
