package app

import (
	"context"
	"testing"

	"imbexp/adapters/rng"
	"imbexp/internal"
	"imbexp/internal/errors"
	"imbexp/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBaselineService() *BaselineService {
	return NewBaselineService(rng.NewSeeded(), internal.NewLogger(internal.LogLevelError))
}

func TestBaselineService_Summaries(t *testing.T) {
	cfg := testkit.DefaultImbalancedConfig()
	train := testkit.NewImbalancedGenerator(cfg).Generate()
	cfg.Seed = 7
	test := testkit.NewImbalancedGenerator(cfg).Generate()

	summaries, err := newTestBaselineService().Run(context.Background(), train, test, 20, 42)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	names := []string{summaries[0].Name, summaries[1].Name, summaries[2].Name}
	assert.Equal(t, []string{"Uniform", "Minority", "LogisticRegression"}, names)
	for _, s := range summaries {
		require.Len(t, s.Metrics, 3)
		assert.Equal(t, SummaryMetrics, []string{s.Metrics[0].Metric, s.Metrics[1].Metric, s.Metrics[2].Metric})
	}

	minority := summaries[1]
	assert.InDelta(t, 2*0.1/1.1, minority.Metrics[0].Mean, 1e-12)
	assert.InDelta(t, 0.1, minority.Metrics[1].Mean, 1e-12)
	assert.Equal(t, 1.0, minority.Metrics[2].Mean)
	assert.Equal(t, "F1: 0.182 ± 0.000\nPrecision: 0.100 ± 0.000\nRecall: 1.000 ± 0.000", minority.String())

	for _, m := range summaries[2].Metrics {
		assert.InDelta(t, 0, m.Std, 1e-12, m.Metric)
	}
	assert.Greater(t, summaries[0].Metrics[2].Std, 0.0)
}

func TestBaselineService_Deterministic(t *testing.T) {
	table := testkit.NewImbalancedGenerator(testkit.DefaultImbalancedConfig()).Generate()

	a, err := newTestBaselineService().Run(context.Background(), table, table, 5, 42)
	require.NoError(t, err)
	b, err := newTestBaselineService().Run(context.Background(), table, table, 5, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBaselineService_RejectsZeroRuns(t *testing.T) {
	table := testkit.NewImbalancedGenerator(testkit.DefaultImbalancedConfig()).Generate()
	_, err := newTestBaselineService().Run(context.Background(), table, table, 0, 42)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
