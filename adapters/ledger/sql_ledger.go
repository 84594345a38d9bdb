package ledger

import (
	"context"
	"time"

	"imbexp/domain/run"
	"imbexp/internal/errors"
	"imbexp/internal/migration"
	"imbexp/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Run statuses stored in experiment_runs.status
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var _ ports.RunLedger = (*SQLLedger)(nil)

// SQLLedger records runs and their repetitions in SQLite or PostgreSQL
type SQLLedger struct {
	db *sqlx.DB
}

// Open connects with driver ("sqlite3" or "postgres") and applies migrations
func Open(ctx context.Context, driver, dsn string) (*SQLLedger, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to run ledger")
	}
	if driver == "sqlite3" {
		// A single connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to migrate run ledger")
	}
	return &SQLLedger{db: db}, nil
}

type runRow struct {
	RunID       string    `db:"run_id"`
	Experiment  string    `db:"experiment"`
	Fingerprint string    `db:"fingerprint"`
	Seed        int64     `db:"seed"`
	Repetitions int       `db:"repetitions"`
	ResultsPath string    `db:"results_path"`
	Status      string    `db:"status"`
	StartedAt   time.Time `db:"started_at"`
}

// StartRun inserts the manifest with status running
func (l *SQLLedger) StartRun(ctx context.Context, manifest *run.Manifest) error {
	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO experiment_runs (
			run_id, experiment, fingerprint, seed, repetitions, results_path, status, started_at
		) VALUES (
			:run_id, :experiment, :fingerprint, :seed, :repetitions, :results_path, :status, :started_at
		)
	`, runRow{
		RunID:       manifest.RunID.String(),
		Experiment:  manifest.Experiment,
		Fingerprint: manifest.Fingerprint.String(),
		Seed:        manifest.Seed,
		Repetitions: manifest.Repetitions,
		ResultsPath: manifest.ResultsPath,
		Status:      StatusRunning,
		StartedAt:   manifest.CreatedAt.Time(),
	})
	return errors.Wrap(err, "failed to record run start")
}

type repetitionRow struct {
	RunID      string `db:"run_id"`
	Repetition int    `db:"repetition"`
	ModelPath  string `db:"model_path"`
	run.Record
	RecordedAt time.Time `db:"recorded_at"`
}

// RecordRepetition stores the statistics of one repetition
func (l *SQLLedger) RecordRepetition(ctx context.Context, runID string, repetition int, modelPath string, rec run.Record) error {
	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO repetition_results (
			run_id, repetition, model_path, gmean, f1, precision, recall, tp, tn, fp, fn, recorded_at
		) VALUES (
			:run_id, :repetition, :model_path, :gmean, :f1, :precision, :recall, :tp, :tn, :fp, :fn, :recorded_at
		)
	`, repetitionRow{
		RunID:      runID,
		Repetition: repetition,
		ModelPath:  modelPath,
		Record:     rec,
		RecordedAt: time.Now().UTC(),
	})
	return errors.Wrap(err, "failed to record repetition")
}

// FinishRun marks the run completed, or failed with runErr's message
func (l *SQLLedger) FinishRun(ctx context.Context, runID string, runErr error) error {
	status, message := StatusCompleted, ""
	if runErr != nil {
		status, message = StatusFailed, runErr.Error()
	}
	query := l.db.Rebind(`
		UPDATE experiment_runs SET status = ?, error_message = ?, finished_at = ? WHERE run_id = ?
	`)
	_, err := l.db.ExecContext(ctx, query, status, message, time.Now().UTC(), runID)
	return errors.Wrap(err, "failed to record run finish")
}

// Repetitions returns the stored records of a run in repetition order
func (l *SQLLedger) Repetitions(ctx context.Context, runID string) ([]run.Record, error) {
	var records []run.Record
	query := l.db.Rebind(`
		SELECT gmean, f1, precision, recall, tp, tn, fp, fn
		FROM repetition_results
		WHERE run_id = ?
		ORDER BY repetition
	`)
	if err := l.db.SelectContext(ctx, &records, query, runID); err != nil {
		return nil, errors.Wrap(err, "failed to load repetitions")
	}
	return records, nil
}

// Status returns the stored status of a run
func (l *SQLLedger) Status(ctx context.Context, runID string) (string, error) {
	var status string
	query := l.db.Rebind(`SELECT status FROM experiment_runs WHERE run_id = ?`)
	if err := l.db.GetContext(ctx, &status, query, runID); err != nil {
		return "", errors.Wrap(err, "failed to load run status")
	}
	return status, nil
}

// Close releases the database connection
func (l *SQLLedger) Close() error {
	return l.db.Close()
}
