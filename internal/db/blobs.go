package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PutBlob stores data under key, replacing any existing blob
func (db *DB) PutBlob(ctx context.Context, key string, data []byte, mimeType string) error {
	if !db.Available() {
		return ErrDatabaseUnavailable
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO blobs (key, data, mime_type) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET data = $2, mime_type = $3, created_at = NOW()`,
		key, data, mimeType,
	)
	if err != nil {
		return fmt.Errorf("failed to put blob %s: %w", key, err)
	}
	return nil
}

// GetBlob loads a blob. found is false when no blob has the key.
func (db *DB) GetBlob(ctx context.Context, key string) (data []byte, mimeType string, found bool, err error) {
	if !db.Available() {
		return nil, "", false, nil
	}
	err = db.pool.QueryRow(ctx, `SELECT data, mime_type FROM blobs WHERE key = $1`, key).Scan(&data, &mimeType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	return data, mimeType, true, nil
}
