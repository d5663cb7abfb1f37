package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/types"
)

const customizationColumns = `id, user_id, resume_id, job_id, match_score, customized_resume, cover_letter,
	explanation, template_id, include_photo, photo_key, photo_url, files, created_at, updated_at`

func scanCustomization(row pgx.Row) (*Customization, error) {
	var c Customization
	var score, resume, explanation, files []byte
	err := row.Scan(&c.ID, &c.UserID, &c.ResumeID, &c.JobID, &score, &resume, &c.CoverLetter,
		&explanation, &c.TemplateID, &c.IncludePhoto, &c.PhotoKey, &c.PhotoURL, &files, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(score, &c.MatchScore); err != nil {
		return nil, fmt.Errorf("failed to decode match score: %w", err)
	}
	if err := unmarshalJSON(resume, &c.CustomizedResume); err != nil {
		return nil, fmt.Errorf("failed to decode customized resume: %w", err)
	}
	if err := unmarshalJSON(explanation, &c.Explanation); err != nil {
		return nil, fmt.Errorf("failed to decode explanation: %w", err)
	}
	if err := unmarshalJSON(files, &c.Files); err != nil {
		return nil, fmt.Errorf("failed to decode generated files: %w", err)
	}
	return &c, nil
}

// CreateCustomization inserts c and fills its ID and timestamps
func (db *DB) CreateCustomization(ctx context.Context, c *Customization) error {
	if !db.Available() {
		return ErrDatabaseUnavailable
	}
	score, err := marshalJSON(c.MatchScore)
	if err != nil {
		return fmt.Errorf("failed to marshal match score: %w", err)
	}
	resume, err := marshalJSON(c.CustomizedResume)
	if err != nil {
		return fmt.Errorf("failed to marshal customized resume: %w", err)
	}
	explanation, err := marshalJSON(c.Explanation)
	if err != nil {
		return fmt.Errorf("failed to marshal explanation: %w", err)
	}
	files, err := marshalJSON(c.Files)
	if err != nil {
		return fmt.Errorf("failed to marshal generated files: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO customizations (user_id, resume_id, job_id, match_score, customized_resume, cover_letter,
		                             explanation, template_id, include_photo, photo_key, photo_url, files)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		c.UserID, c.ResumeID, c.JobID, score, resume, c.CoverLetter,
		explanation, c.TemplateID, c.IncludePhoto, c.PhotoKey, c.PhotoURL, files,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customization: %w", err)
	}
	return nil
}

// GetCustomization retrieves a customization owned by userID
func (db *DB) GetCustomization(ctx context.Context, userID, id uuid.UUID) (*Customization, error) {
	if !db.Available() {
		return nil, nil
	}
	c, err := scanCustomization(db.pool.QueryRow(ctx,
		`SELECT `+customizationColumns+` FROM customizations WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customization: %w", err)
	}
	return c, nil
}

// GetLatestCustomization returns the newest customization of resumeID for jobID
func (db *DB) GetLatestCustomization(ctx context.Context, userID, resumeID, jobID uuid.UUID) (*Customization, error) {
	if !db.Available() {
		return nil, nil
	}
	c, err := scanCustomization(db.pool.QueryRow(ctx,
		`SELECT `+customizationColumns+` FROM customizations
		 WHERE user_id = $1 AND resume_id = $2 AND job_id = $3
		 ORDER BY created_at DESC LIMIT 1`, userID, resumeID, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customization: %w", err)
	}
	return c, nil
}

// ListCustomizations returns a user's customizations, newest first
func (db *DB) ListCustomizations(ctx context.Context, userID uuid.UUID) ([]Customization, error) {
	if !db.Available() {
		return []Customization{}, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+customizationColumns+` FROM customizations WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customizations: %w", err)
	}
	defer rows.Close()

	out := []Customization{}
	for rows.Next() {
		c, err := scanCustomization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customization: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateCustomizationFiles attaches generated file URLs
func (db *DB) UpdateCustomizationFiles(ctx context.Context, userID, id uuid.UUID, files *types.GeneratedFiles) error {
	if !db.Available() {
		return ErrDatabaseUnavailable
	}
	data, err := marshalJSON(files)
	if err != nil {
		return fmt.Errorf("failed to marshal generated files: %w", err)
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE customizations SET files = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		data, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customization files: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customization not found: %s", id)
	}
	return nil
}

// DeleteCustomization removes a customization owned by userID and reports whether a row was deleted
func (db *DB) DeleteCustomization(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	if !db.Available() {
		return false, ErrDatabaseUnavailable
	}
	tag, err := db.pool.Exec(ctx, `DELETE FROM customizations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete customization: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
