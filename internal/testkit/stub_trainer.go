package testkit

import (
	"context"
	"fmt"
	"sync"

	"imbexp/domain/dataset"
	"imbexp/domain/run"
	"imbexp/ports"
)

// TrainerCall is one recorded call on a stub trainer
type TrainerCall struct {
	Repetition int
	Method     string
	Rows       int
	// Imbalance rate for Compile, metric for Train, path for LoadModel.
	Arg string
}

// StubTrainerFactory hands out in-process trainers that record every call.
// Predictions come from Rule; the default predicts 1 when the first feature exceeds Threshold.
type StubTrainerFactory struct {
	Rule      func(row []float64) int
	Threshold float64
	// FailOn makes the named method return an error on the given zero-based repetition.
	FailOn map[string]int

	mu    sync.Mutex
	calls []TrainerCall
	count int
}

// NewStubTrainerFactory creates a stub that thresholds the first feature
func NewStubTrainerFactory(threshold float64) *StubTrainerFactory {
	return &StubTrainerFactory{Threshold: threshold}
}

// New creates the trainer for the next repetition
func (f *StubTrainerFactory) New(ctx context.Context, hp run.Hyperparameters) (ports.Trainer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tr := &stubTrainer{factory: f, repetition: f.count}
	f.count++
	if err := f.failure("New", tr.repetition); err != nil {
		return nil, err
	}
	return tr, nil
}

// Calls returns the recorded calls in order
func (f *StubTrainerFactory) Calls() []TrainerCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TrainerCall(nil), f.calls...)
}

// Trainers returns how many trainers were created
func (f *StubTrainerFactory) Trainers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func (f *StubTrainerFactory) record(c TrainerCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.failure(c.Method, c.Repetition)
}

func (f *StubTrainerFactory) failure(method string, repetition int) error {
	if rep, ok := f.FailOn[method]; ok && rep == repetition {
		return fmt.Errorf("stub %s failed on repetition %d", method, repetition)
	}
	return nil
}

func (f *StubTrainerFactory) predict(row []float64) int {
	if f.Rule != nil {
		return f.Rule(row)
	}
	if len(row) > 0 && row[0] > f.Threshold {
		return 1
	}
	return 0
}

type stubTrainer struct {
	factory    *StubTrainerFactory
	repetition int
	compiled   bool
	trained    bool
}

func (t *stubTrainer) Compile(ctx context.Context, train dataset.Table, imbalanceRate float64, arch run.Architecture) error {
	t.compiled = true
	return t.factory.record(TrainerCall{t.repetition, "Compile", train.Len(), fmt.Sprintf("%g", imbalanceRate)})
}

func (t *stubTrainer) Train(ctx context.Context, val dataset.Table, metric string) error {
	if !t.compiled {
		return fmt.Errorf("train called before compile")
	}
	t.trained = true
	return t.factory.record(TrainerCall{t.repetition, "Train", val.Len(), metric})
}

func (t *stubTrainer) ModelPath() string {
	if !t.trained {
		return ""
	}
	return fmt.Sprintf("stub/model-%d.h5", t.repetition)
}

func (t *stubTrainer) LoadModel(ctx context.Context, path string) (ports.Model, error) {
	if err := t.factory.record(TrainerCall{t.repetition, "LoadModel", 0, path}); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("model path is empty")
	}
	return stubModel{factory: t.factory, repetition: t.repetition}, nil
}

type stubModel struct {
	factory    *StubTrainerFactory
	repetition int
}

func (m stubModel) Predict(ctx context.Context, x [][]float64) ([]int, error) {
	if err := m.factory.record(TrainerCall{m.repetition, "Predict", len(x), ""}); err != nil {
		return nil, err
	}
	preds := make([]int, len(x))
	for i, row := range x {
		preds[i] = m.factory.predict(row)
	}
	return preds, nil
}
