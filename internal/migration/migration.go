package migration

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gomlready/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations. The statements are
// written to run on both PostgreSQL and SQLite.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createAnalysesTable(ctx, db); err != nil {
		return errors.Wrap(errors.DatabaseError("failed to create analyses table", err), "migration failed")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(errors.DatabaseError("failed to create indexes", err), "migration failed")
	}

	return nil
}

func (r *MigrationRunner) createAnalysesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS analyses (
			id VARCHAR(36) PRIMARY KEY,
			filename TEXT NOT NULL DEFAULT '',
			row_count INTEGER NOT NULL DEFAULT 0,
			column_count INTEGER NOT NULL DEFAULT 0,
			task_type VARCHAR(32),
			target_column TEXT,
			quality_score DOUBLE PRECISION,
			success BOOLEAN NOT NULL DEFAULT FALSE,
			result TEXT NOT NULL,
			created_at %s NOT NULL
		)
	`, timestampType(db)))
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_analyses_task_type ON analyses(task_type)",
	}

	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}

	return nil
}

// timestampType picks a declared type the driver scans back into time.Time.
func timestampType(db *sqlx.DB) string {
	if db.DriverName() == "sqlite3" {
		return "TIMESTAMP"
	}
	return "TIMESTAMP WITH TIME ZONE"
}
