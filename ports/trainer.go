package ports

import (
	"context"

	"imbexp/domain/dataset"
	"imbexp/domain/run"
)

// TrainerFactory constructs a DDQN trainer for one repetition
type TrainerFactory interface {
	New(ctx context.Context, hp run.Hyperparameters) (Trainer, error)
}

// Trainer is the external DDQN training routine. Calls happen in order:
// Compile, Train, then LoadModel with ModelPath.
type Trainer interface {
	// Compile stages the training data and the Q-network architecture
	Compile(ctx context.Context, train dataset.Table, imbalanceRate float64, arch run.Architecture) error

	// Train runs the training loop, keeping the checkpoint that scores best on val by metric
	Train(ctx context.Context, val dataset.Table, metric string) error

	// ModelPath returns where the best checkpoint was saved; valid after Train
	ModelPath() string

	// LoadModel restores a checkpoint for inference
	LoadModel(ctx context.Context, path string) (Model, error)
}

// Model is a restored Q-network; predictions are the greedy action per row
type Model interface {
	Predict(ctx context.Context, x [][]float64) ([]int, error)
}
