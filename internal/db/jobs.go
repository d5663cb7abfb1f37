package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, user_id, company_name, role_name, source_url, description, analysis, created_at`

func scanJob(row pgx.Row) (*JobDescription, error) {
	var j JobDescription
	var analysis []byte
	if err := row.Scan(&j.ID, &j.UserID, &j.CompanyName, &j.RoleName, &j.SourceURL, &j.Description, &analysis, &j.CreatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(analysis, &j.Analysis); err != nil {
		return nil, fmt.Errorf("failed to decode job analysis: %w", err)
	}
	return &j, nil
}

// CreateJobDescription inserts j and fills its ID and CreatedAt
func (db *DB) CreateJobDescription(ctx context.Context, j *JobDescription) error {
	if !db.Available() {
		return ErrDatabaseUnavailable
	}
	analysis, err := marshalJSON(j.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal job analysis: %w", err)
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions (user_id, company_name, role_name, source_url, description, analysis)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		j.UserID, j.CompanyName, j.RoleName, j.SourceURL, j.Description, analysis,
	).Scan(&j.ID, &j.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job description: %w", err)
	}
	return nil
}

// GetJobDescription retrieves a job description owned by userID
func (db *DB) GetJobDescription(ctx context.Context, userID, id uuid.UUID) (*JobDescription, error) {
	if !db.Available() {
		return nil, nil
	}
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_descriptions WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job description: %w", err)
	}
	return j, nil
}

// ListJobDescriptions returns a user's job descriptions, newest first
func (db *DB) ListJobDescriptions(ctx context.Context, userID uuid.UUID) ([]JobDescription, error) {
	if !db.Available() {
		return []JobDescription{}, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM job_descriptions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}
	defer rows.Close()

	jobs := []JobDescription{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job description: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}
