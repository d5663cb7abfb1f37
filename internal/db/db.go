// Package db provides PostgreSQL persistence for users, resumes, job descriptions,
// customizations, applications and stored files.
//
// Every method is safe to call on a nil *DB: list methods return empty results,
// get methods return nil and writes return ErrDatabaseUnavailable.
package db

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDatabaseUnavailable is returned by writes when no database is connected
var ErrDatabaseUnavailable = errors.New("database not available")

//go:embed migrations/*.sql
var migrationFiles embed.FS

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db != nil && db.pool != nil {
		db.pool.Close()
	}
}

// Available reports whether a connection pool is present
func (db *DB) Available() bool {
	return db != nil && db.pool != nil
}

// Ping checks connectivity
func (db *DB) Ping(ctx context.Context) error {
	if !db.Available() {
		return ErrDatabaseUnavailable
	}
	return db.pool.Ping(ctx)
}

// Migrate applies embedded SQL migrations that have not run yet, in file name order
func (db *DB) Migrate(ctx context.Context) error {
	if !db.Available() {
		return ErrDatabaseUnavailable
	}

	if _, err := db.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	names, err := MigrationNames()
	if err != nil {
		return err
	}

	for _, name := range names {
		var applied bool
		if err := db.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name,
		).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		sql, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		err = pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(sql)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}
	return nil
}

// MigrationNames lists the embedded migrations in the order they are applied
func MigrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// marshalJSON encodes a JSONB column value, storing nil as SQL NULL
func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// unmarshalJSON decodes a JSONB column, leaving out untouched for NULL
func unmarshalJSON(data []byte, out any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
