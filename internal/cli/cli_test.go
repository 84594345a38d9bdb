package cli

import (
	"bytes"
	"context"
	"testing"

	"imbexp/app"
	"imbexp/domain/dataset"
	"imbexp/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgOr(t *testing.T) {
	args := []string{"./train.csv"}
	assert.Equal(t, "./train.csv", ArgOr(args, 0, "./data/credit0.csv"))
	assert.Equal(t, "./data/credit1.csv", ArgOr(args, 1, "./data/credit1.csv"))
}

func TestPrintDatasetSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintDatasetSummary(&buf, "Restenos", 0.25, []dataset.LabelCount{{Label: 0, Count: 8}, {Label: 1, Count: 2}})
	assert.Equal(t, "Imbalance ratio: 0.2500\nRestenos:\n0    8\n1    2\n\n", buf.String())
}

func TestPrintMetricSummaries(t *testing.T) {
	var buf bytes.Buffer
	PrintMetricSummaries(&buf, "Minority", []app.MetricSummary{{Metric: "F1", Mean: 0.18181, Std: 0}})
	assert.Equal(t, "Minority\nF1: 0.182 ± 0.000\n\n", buf.String())
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	t.Setenv("EXPERIMENT_REPETITIONS", "0")
	_, err := Bootstrap(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
