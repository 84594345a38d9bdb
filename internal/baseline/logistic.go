package baseline

import (
	"fmt"
	"math"

	"imbexp/domain/core"
	"imbexp/domain/dataset"
	"imbexp/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// LogisticRegression is an L2-regularized binary logistic regression with
// balanced class weights n / (2 * count(class)). The intercept is not penalized.
type LogisticRegression struct {
	// Inverse regularization strength.
	C             float64
	MaxIterations int

	Weights   []float64
	Intercept float64
}

// NewLogisticRegression uses C = 1
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{C: 1, MaxIterations: 1000}
}

func (lr *LogisticRegression) Name() string { return "LogisticRegression" }

// Fit minimizes the weighted log-loss with LBFGS
func (lr *LogisticRegression) Fit(train dataset.Table) error {
	if err := train.Validate(); err != nil {
		return errors.WithCode(errors.CodeInvalidInput, err)
	}
	var positives int
	for _, y := range train.Y {
		if y != 0 && y != 1 {
			return errors.WithCode(errors.CodeInvalidInput, core.NewInvalidValueError("label", 0, fmt.Sprint(y)))
		}
		positives += y
	}
	n := train.Len()
	if positives == 0 || positives == n {
		return errors.WithCode(errors.CodeInvalidInput,
			fmt.Errorf("%w: logistic regression needs both classes", core.ErrInsufficientData))
	}

	obj := &logLoss{
		x: train.X,
		y: train.Y,
		c: lr.C,
		sampleWeight: [2]float64{
			float64(n) / (2 * float64(n-positives)),
			float64(n) / (2 * float64(positives)),
		},
	}
	problem := optimize.Problem{Func: obj.Func, Grad: obj.Grad}
	settings := &optimize.Settings{
		GradientThreshold: 1e-8,
		MajorIterations:   lr.MaxIterations,
	}

	theta := make([]float64, len(train.Features)+1)
	result, err := optimize.Minimize(problem, theta, settings, &optimize.LBFGS{})
	if err != nil && (result == nil || floats.HasNaN(result.X)) {
		return errors.Wrap(err, "logistic regression did not converge")
	}

	d := len(train.Features)
	lr.Weights = append([]float64(nil), result.X[:d]...)
	lr.Intercept = result.X[d]
	return nil
}

// DecisionFunction returns w·x + b for every row
func (lr *LogisticRegression) DecisionFunction(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = floats.Dot(lr.Weights, row) + lr.Intercept
	}
	return out
}

// Predict returns 1 where the decision function is positive
func (lr *LogisticRegression) Predict(x [][]float64) []int {
	preds := make([]int, len(x))
	for i, z := range lr.DecisionFunction(x) {
		if z > 0 {
			preds[i] = 1
		}
	}
	return preds
}

// logLoss is 0.5*|w|^2 + C * sum_i s_i * (log(1+exp(z_i)) - y_i*z_i) over theta = [w..., b]
type logLoss struct {
	x            [][]float64
	y            []int
	c            float64
	sampleWeight [2]float64
}

func (l *logLoss) Func(theta []float64) float64 {
	d := len(theta) - 1
	w, b := theta[:d], theta[d]
	loss := 0.5 * floats.Dot(w, w)
	for i, row := range l.x {
		z := floats.Dot(w, row) + b
		loss += l.c * l.sampleWeight[l.y[i]] * (softplus(z) - float64(l.y[i])*z)
	}
	return loss
}

func (l *logLoss) Grad(grad, theta []float64) {
	d := len(theta) - 1
	w, b := theta[:d], theta[d]
	copy(grad[:d], w)
	grad[d] = 0
	for i, row := range l.x {
		z := floats.Dot(w, row) + b
		residual := l.c * l.sampleWeight[l.y[i]] * (sigmoid(z) - float64(l.y[i]))
		floats.AddScaled(grad[:d], residual, row)
		grad[d] += residual
	}
}

// softplus is log(1 + exp(z)) without overflow
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
