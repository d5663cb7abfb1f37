package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resumeColumns = `id, user_id, file_name, file_key, file_url, mime_type, raw_text, content, created_at`

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	var content []byte
	if err := row.Scan(&r.ID, &r.UserID, &r.FileName, &r.FileKey, &r.FileURL, &r.MIMEType, &r.RawText, &content, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(content, &r.Content); err != nil {
		return nil, fmt.Errorf("failed to decode resume content: %w", err)
	}
	return &r, nil
}

// CreateResume inserts r and fills its ID and CreatedAt
func (db *DB) CreateResume(ctx context.Context, r *Resume) error {
	if !db.Available() {
		return ErrDatabaseUnavailable
	}
	content, err := marshalJSON(r.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal resume content: %w", err)
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, file_name, file_key, file_url, mime_type, raw_text, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		r.UserID, r.FileName, r.FileKey, r.FileURL, r.MIMEType, r.RawText, content,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// GetResume retrieves a resume owned by userID
func (db *DB) GetResume(ctx context.Context, userID, id uuid.UUID) (*Resume, error) {
	if !db.Available() {
		return nil, nil
	}
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumes returns a user's resumes, newest first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	if !db.Available() {
		return []Resume{}, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	return resumes, rows.Err()
}
