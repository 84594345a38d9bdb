package run

import (
	"imbexp/domain/core"
	"imbexp/domain/dataset"
)

// SelectionMetricF1 picks the checkpoint with the best validation F1
const SelectionMetricF1 = "F1"

// Experiment is everything the repetition driver needs, fixed before the first repetition
type Experiment struct {
	Name               string
	Hyperparameters    Hyperparameters
	Classes            dataset.ClassSpec
	Repetitions        int
	ValidationFraction float64
	SelectionMetric    string
	ResultsPath        string
	Seed               int64
	DatasetPaths       []string
}

// Validate checks the experiment can be run
func (e Experiment) Validate() error {
	if e.Name == "" {
		return core.NewValidationError("experiment.name", "cannot be empty")
	}
	if e.Repetitions < 1 {
		return core.NewValidationError("experiment.repetitions", "must be at least 1")
	}
	if e.ValidationFraction <= 0 || e.ValidationFraction >= 1 {
		return core.NewValidationError("experiment.validation_fraction", "must be in (0, 1)")
	}
	if e.SelectionMetric == "" {
		return core.NewValidationError("experiment.selection_metric", "cannot be empty")
	}
	if e.ResultsPath == "" {
		return core.NewValidationError("experiment.results_path", "cannot be empty")
	}
	if len(e.Classes.Minority) == 0 || len(e.Classes.Majority) == 0 {
		return core.NewValidationError("experiment.classes", "minority and majority labels are required")
	}
	return e.Hyperparameters.Validate()
}

// Manifest identifies one driver invocation; it is written before the first repetition
type Manifest struct {
	RunID        core.RunID     `json:"run_id" db:"run_id"`
	Experiment   string         `json:"experiment" db:"experiment"`
	Fingerprint  core.Hash      `json:"fingerprint" db:"fingerprint"`
	Seed         int64          `json:"seed" db:"seed"`
	Repetitions  int            `json:"repetitions" db:"repetitions"`
	ResultsPath  string         `json:"results_path" db:"results_path"`
	DatasetPaths []string       `json:"dataset_paths" db:"-"`
	CreatedAt    core.Timestamp `json:"created_at" db:"-"`
}

// NewManifest creates a manifest for an experiment with a fresh run ID
func NewManifest(exp Experiment) *Manifest {
	return &Manifest{
		RunID:        core.NewRunID(),
		Experiment:   exp.Name,
		Fingerprint:  exp.Hyperparameters.Fingerprint(),
		Seed:         exp.Seed,
		Repetitions:  exp.Repetitions,
		ResultsPath:  exp.ResultsPath,
		DatasetPaths: exp.DatasetPaths,
		CreatedAt:    core.Now(),
	}
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if m.Fingerprint.IsEmpty() {
		return core.NewValidationError("run_manifest", "fingerprint cannot be empty")
	}
	if m.Experiment == "" {
		return core.NewValidationError("run_manifest", "experiment cannot be empty")
	}
	return nil
}
