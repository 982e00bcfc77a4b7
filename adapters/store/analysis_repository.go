// Package store persists analysis results with sqlx on PostgreSQL or SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"gomlready/domain/analysis"
	"gomlready/domain/core"
	"gomlready/internal"
	"gomlready/internal/migration"
	"gomlready/ports"
)

const sqlitePrefix = "sqlite3://"

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// analysisRepository implements ports.AnalysisRepository
type analysisRepository struct {
	db     *sqlx.DB
	logger *internal.Logger
}

// Open connects to databaseURL, runs migrations and returns a repository.
// URLs starting with sqlite3:// open a SQLite file (or :memory:); anything
// else goes to the postgres driver.
func Open(ctx context.Context, databaseURL string, logger *internal.Logger) (ports.AnalysisRepository, error) {
	driver, dsn := "postgres", databaseURL
	if strings.HasPrefix(databaseURL, sqlitePrefix) {
		driver, dsn = "sqlite3", strings.TrimPrefix(databaseURL, sqlitePrefix)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		// One connection keeps :memory: databases alive and serializes writers.
		db.SetMaxOpenConns(1)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return NewAnalysisRepository(db, logger), nil
}

// NewAnalysisRepository wraps an already migrated database.
func NewAnalysisRepository(db *sqlx.DB, logger *internal.Logger) ports.AnalysisRepository {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &analysisRepository{db: db, logger: logger.With("Store")}
}

// Save inserts a result, replacing any row with the same ID.
func (r *analysisRepository) Save(ctx context.Context, res *analysis.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	s := res.Summarize()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM analyses WHERE id = ?`), string(s.ID)); err != nil {
		return fmt.Errorf("failed to replace analysis: %w", err)
	}

	query := tx.Rebind(`INSERT INTO analyses (
		id, filename, row_count, column_count, task_type, target_column,
		quality_score, success, result, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = tx.ExecContext(ctx, query,
		string(s.ID), s.Source, s.Rows, s.Columns, s.TaskType, s.TargetColumn,
		s.QualityScore, s.Success, string(payload), s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit analysis: %w", err)
	}

	r.logger.Debug("saved analysis %s (%d bytes)", s.ID, len(payload))
	return nil
}

// Get loads a full result by ID.
func (r *analysisRepository) Get(ctx context.Context, id core.AnalysisID) (*analysis.Result, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT result FROM analyses WHERE id = ?`), string(id)).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrAnalysisNotFound, id)
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var res analysis.Result
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis %s: %w", id, err)
	}
	return &res, nil
}

// List returns up to limit summaries, newest first.
func (r *analysisRepository) List(ctx context.Context, limit int) ([]analysis.Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := r.db.Rebind(`SELECT
		id, filename, row_count, column_count, task_type, target_column,
		quality_score, success, created_at
	FROM analyses
	ORDER BY created_at DESC, id DESC
	LIMIT ?`)

	summaries := []analysis.Summary{}
	if err := r.db.SelectContext(ctx, &summaries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return summaries, nil
}

func (r *analysisRepository) Close() error {
	return r.db.Close()
}
