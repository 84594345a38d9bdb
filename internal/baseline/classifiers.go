// Package baseline holds the simple reference classifiers the DDQN results are compared against.
package baseline

import (
	"math/rand"

	"imbexp/domain/dataset"
)

// Classifier is a fitted-then-predict binary model over rows of features
type Classifier interface {
	Name() string
	Fit(train dataset.Table) error
	Predict(x [][]float64) []int
}

// Uniform predicts 0 or 1 with equal probability, ignoring the features
type Uniform struct {
	rng *rand.Rand
}

// NewUniform draws predictions from rng
func NewUniform(rng *rand.Rand) *Uniform {
	return &Uniform{rng: rng}
}

func (u *Uniform) Name() string { return "Uniform" }

func (u *Uniform) Fit(train dataset.Table) error { return nil }

func (u *Uniform) Predict(x [][]float64) []int {
	preds := make([]int, len(x))
	for i := range preds {
		preds[i] = u.rng.Intn(2)
	}
	return preds
}

// Constant predicts the same label for every row
type Constant struct {
	Label int
}

// NewMinority always predicts the minority class
func NewMinority() *Constant {
	return &Constant{Label: 1}
}

func (c *Constant) Name() string { return "Minority" }

func (c *Constant) Fit(train dataset.Table) error { return nil }

func (c *Constant) Predict(x [][]float64) []int {
	preds := make([]int, len(x))
	for i := range preds {
		preds[i] = c.Label
	}
	return preds
}
