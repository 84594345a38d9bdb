package migration

import (
	"context"

	"imbexp/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the run ledger schema. Statements are portable between
// SQLite and PostgreSQL.
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

// Run executes all database migrations in order; every statement is idempotent
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createExperimentRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create experiment_runs table")
	}

	if err := r.createRepetitionResultsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create repetition_results table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createExperimentRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS experiment_runs (
			run_id        TEXT PRIMARY KEY,
			experiment    TEXT NOT NULL,
			fingerprint   TEXT NOT NULL,
			seed          BIGINT NOT NULL,
			repetitions   INTEGER NOT NULL,
			results_path  TEXT NOT NULL,
			status        TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			started_at    TIMESTAMP NOT NULL,
			finished_at   TIMESTAMP
		)
	`)
	return err
}

func (r *MigrationRunner) createRepetitionResultsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS repetition_results (
			run_id      TEXT NOT NULL REFERENCES experiment_runs(run_id),
			repetition  INTEGER NOT NULL,
			model_path  TEXT NOT NULL DEFAULT '',
			gmean       DOUBLE PRECISION NOT NULL,
			f1          DOUBLE PRECISION NOT NULL,
			precision   DOUBLE PRECISION NOT NULL,
			recall      DOUBLE PRECISION NOT NULL,
			tp          INTEGER NOT NULL,
			tn          INTEGER NOT NULL,
			fp          INTEGER NOT NULL,
			fn          INTEGER NOT NULL,
			recorded_at TIMESTAMP NOT NULL,
			PRIMARY KEY (run_id, repetition)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_experiment_runs_fingerprint ON experiment_runs (fingerprint)
	`)
	return err
}
