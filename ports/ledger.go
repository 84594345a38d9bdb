package ports

import (
	"context"

	"imbexp/domain/run"
)

// RunLedger provides append-only write access to run records.
// It mirrors the results file; the CSV stays the primary output.
type RunLedger interface {
	StartRun(ctx context.Context, manifest *run.Manifest) error
	RecordRepetition(ctx context.Context, runID string, repetition int, modelPath string, rec run.Record) error
	// FinishRun marks the run completed, or failed when runErr is non-nil
	FinishRun(ctx context.Context, runID string, runErr error) error
}
