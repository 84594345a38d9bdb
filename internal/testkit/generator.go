package testkit

import (
	"fmt"
	"math/rand"

	"imbexp/domain/dataset"
)

// ImbalancedConfig configures the synthetic binary dataset generator
type ImbalancedConfig struct {
	Rows     int `json:"rows"`
	Features int `json:"features"`
	// Fraction of rows labelled 1; at least one row of each class is always generated.
	MinorityFraction float64 `json:"minority_fraction"`
	// Distance between class means on every feature.
	Separation float64 `json:"separation"`
	Seed       int64   `json:"seed"`
}

// DefaultImbalancedConfig returns a small 90/10 dataset with two features
func DefaultImbalancedConfig() ImbalancedConfig {
	return ImbalancedConfig{
		Rows:             100,
		Features:         2,
		MinorityFraction: 0.1,
		Separation:       3,
		Seed:             42,
	}
}

// ImbalancedGenerator generates Gaussian blobs with a fixed class ratio
type ImbalancedGenerator struct {
	config ImbalancedConfig
	rng    *rand.Rand
}

// NewImbalancedGenerator creates a new generator
func NewImbalancedGenerator(config ImbalancedConfig) *ImbalancedGenerator {
	return &ImbalancedGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// MinorityCount is the exact number of rows labelled 1
func (g *ImbalancedGenerator) MinorityCount() int {
	n := int(float64(g.config.Rows)*g.config.MinorityFraction + 0.5)
	if n < 1 {
		n = 1
	}
	if n > g.config.Rows-1 {
		n = g.config.Rows - 1
	}
	return n
}

// Generate returns a table whose minority rows come first; the minority mean is shifted by Separation
func (g *ImbalancedGenerator) Generate() dataset.Table {
	table := dataset.Table{
		Features: make([]string, g.config.Features),
		X:        make([][]float64, g.config.Rows),
		Y:        make([]int, g.config.Rows),
	}
	for j := range table.Features {
		table.Features[j] = fmt.Sprintf("x%d", j)
	}

	minority := g.MinorityCount()
	for i := range table.X {
		label := 0
		shift := 0.0
		if i < minority {
			label = 1
			shift = g.config.Separation
		}
		row := make([]float64, g.config.Features)
		for j := range row {
			row[j] = g.rng.NormFloat64() + shift
		}
		table.X[i] = row
		table.Y[i] = label
	}
	return table
}
