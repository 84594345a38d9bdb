package app

import (
	"fmt"

	"imbexp/domain/run"
	"imbexp/internal/errors"

	"github.com/montanaflynn/stats"
)

// SummaryMetrics are the statistics reported after a run, in print order
var SummaryMetrics = []string{"F1", "Precision", "Recall"}

// MetricSummary is the mean and population standard deviation of one metric over all runs
type MetricSummary struct {
	Metric string
	Mean   float64
	Std    float64
}

func (m MetricSummary) String() string {
	return fmt.Sprintf("%s: %.3f ± %.3f", m.Metric, m.Mean, m.Std)
}

// SummarizeRecords reduces repetition records to one MetricSummary per SummaryMetrics entry
func SummarizeRecords(records []run.Record) ([]MetricSummary, error) {
	values := make(map[string][]float64, len(SummaryMetrics))
	for _, rec := range records {
		values["F1"] = append(values["F1"], rec.F1)
		values["Precision"] = append(values["Precision"], rec.Precision)
		values["Recall"] = append(values["Recall"], rec.Recall)
	}
	out := make([]MetricSummary, 0, len(SummaryMetrics))
	for _, m := range SummaryMetrics {
		ms, err := summarize(m, values[m])
		if err != nil {
			return nil, err
		}
		out = append(out, ms)
	}
	return out, nil
}

func summarize(metric string, values []float64) (MetricSummary, error) {
	mean, err := stats.Mean(values)
	if err != nil {
		return MetricSummary{}, errors.Wrapf(err, "failed to average %s", metric)
	}
	std, err := stats.StandardDeviation(values)
	if err != nil {
		return MetricSummary{}, errors.Wrapf(err, "failed to compute spread of %s", metric)
	}
	return MetricSummary{Metric: metric, Mean: mean, Std: std}, nil
}
