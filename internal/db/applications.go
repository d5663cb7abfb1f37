package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/types"
)

const applicationColumns = `id, user_id, customization_id, company_name, role_name, status, notes, outcome,
	interview_date, match_score, ats_score, applied_at, updated_at`

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	var status string
	err := row.Scan(&a.ID, &a.UserID, &a.CustomizationID, &a.CompanyName, &a.RoleName, &status, &a.Notes, &a.Outcome,
		&a.InterviewDate, &a.MatchScore, &a.ATSScore, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = types.ApplicationStatus(status)
	return &a, nil
}

// CreateApplication inserts a and fills its ID and timestamps
func (db *DB) CreateApplication(ctx context.Context, a *Application) error {
	if !db.Available() {
		return ErrDatabaseUnavailable
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, customization_id, company_name, role_name, status, notes, outcome,
		                           interview_date, match_score, ats_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, applied_at, updated_at`,
		a.UserID, a.CustomizationID, a.CompanyName, a.RoleName, string(a.Status), a.Notes, a.Outcome,
		a.InterviewDate, a.MatchScore, a.ATSScore,
	).Scan(&a.ID, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication retrieves an application owned by userID
func (db *DB) GetApplication(ctx context.Context, userID, id uuid.UUID) (*Application, error) {
	if !db.Available() {
		return nil, nil
	}
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// ListApplications returns a user's applications, newest first
func (db *DB) ListApplications(ctx context.Context, userID uuid.UUID) ([]Application, error) {
	if !db.Available() {
		return []Application{}, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY applied_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateApplicationStatus sets the status and any provided optional fields.
// It returns the updated row, or nil when no application matched.
func (db *DB) UpdateApplicationStatus(ctx context.Context, userID, id uuid.UUID, update ApplicationStatusUpdate) (*Application, error) {
	if !db.Available() {
		return nil, ErrDatabaseUnavailable
	}
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status = $1,
		     notes = COALESCE($2, notes),
		     outcome = COALESCE($3, outcome),
		     interview_date = COALESCE($4, interview_date),
		     updated_at = NOW()
		 WHERE id = $5 AND user_id = $6
		 RETURNING `+applicationColumns,
		string(update.Status), update.Notes, update.Outcome, update.InterviewDate, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return a, nil
}

// DeleteApplication removes an application owned by userID and reports whether a row was deleted
func (db *DB) DeleteApplication(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	if !db.Available() {
		return false, ErrDatabaseUnavailable
	}
	tag, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountApplicationsByStatus groups a user's applications by status
func (db *DB) CountApplicationsByStatus(ctx context.Context, userID uuid.UUID) (map[types.ApplicationStatus]int, error) {
	counts := map[types.ApplicationStatus]int{}
	if !db.Available() {
		return counts, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM applications WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan application count: %w", err)
		}
		counts[types.ApplicationStatus(status)] = n
	}
	return counts, rows.Err()
}
