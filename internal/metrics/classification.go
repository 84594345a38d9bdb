// Package metrics computes confusion-matrix statistics for binary predictions
// where 1 is the minority (positive) class.
package metrics

import (
	"math"

	"imbexp/domain/core"
)

// Stats is the summary of one set of predictions
type Stats struct {
	Gmean     float64
	F1        float64
	Precision float64
	Recall    float64
	TP        int
	TN        int
	FP        int
	FN        int
}

// Classification compares predictions against true labels. Ratios with a zero
// denominator are reported as 0.
func Classification(yTrue, yPred []int) (Stats, error) {
	if len(yTrue) != len(yPred) {
		return Stats{}, core.NewLengthMismatchError("predictions", len(yTrue), len(yPred))
	}

	var s Stats
	for i, truth := range yTrue {
		positive := yPred[i] == 1
		switch {
		case truth == 1 && positive:
			s.TP++
		case truth == 1:
			s.FN++
		case positive:
			s.FP++
		default:
			s.TN++
		}
	}

	s.Precision = ratio(s.TP, s.TP+s.FP)
	s.Recall = ratio(s.TP, s.TP+s.FN)
	specificity := ratio(s.TN, s.TN+s.FP)
	s.Gmean = math.Sqrt(s.Recall * specificity)
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Named returns the ratio metrics keyed by their report names
func (s Stats) Named() map[string]float64 {
	return map[string]float64{
		"Gmean":     s.Gmean,
		"F1":        s.F1,
		"Precision": s.Precision,
		"Recall":    s.Recall,
	}
}
