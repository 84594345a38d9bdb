package app

import (
	"context"
	"strings"

	domain "imbexp/domain/dataset"
	"imbexp/internal"
	"imbexp/internal/baseline"
	"imbexp/internal/errors"
	"imbexp/internal/metrics"
	"imbexp/ports"
)

// UniformBaselineStream names the RNG stream behind the uniform classifier
const UniformBaselineStream = "uniform-baseline"

// BaselineSummary collects the summaries of one classifier
type BaselineSummary struct {
	Name    string
	Metrics []MetricSummary
}

func (b BaselineSummary) String() string {
	lines := make([]string, len(b.Metrics))
	for i, m := range b.Metrics {
		lines[i] = m.String()
	}
	return strings.Join(lines, "\n")
}

// BaselineService scores the reference classifiers on a fixed train/test split
type BaselineService struct {
	rngPort ports.RNGPort
	logger  *internal.Logger
}

// NewBaselineService creates a baseline service
func NewBaselineService(rngPort ports.RNGPort, logger *internal.Logger) *BaselineService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &BaselineService{rngPort: rngPort, logger: logger.WithComponent("Baselines")}
}

// Run scores each baseline runs times. The uniform and minority classifiers are fitted and
// evaluated on test; logistic regression is fitted on train and evaluated on test.
func (s *BaselineService) Run(ctx context.Context, train, test domain.Table, runs int, seed int64) ([]BaselineSummary, error) {
	if runs < 1 {
		return nil, errors.InvalidInput("baseline runs must be at least 1")
	}
	if test.Len() == 0 {
		return nil, errors.InvalidInput("test set is empty")
	}

	type entry struct {
		clf      baseline.Classifier
		fitTable domain.Table
	}
	entries := []entry{
		{baseline.NewUniform(s.rngPort.Stream(UniformBaselineStream, seed)), test},
		{baseline.NewMinority(), test},
		{baseline.NewLogisticRegression(), train},
	}

	scores := make([]map[string][]float64, len(entries))
	for i := range scores {
		scores[i] = make(map[string][]float64, len(SummaryMetrics))
	}

	for r := 0; r < runs; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i, e := range entries {
			if err := e.clf.Fit(e.fitTable); err != nil {
				return nil, errors.Wrapf(err, "failed to fit %s", e.clf.Name())
			}
			st, err := metrics.Classification(test.Y, e.clf.Predict(test.X))
			if err != nil {
				return nil, errors.Wrapf(err, "failed to score %s", e.clf.Name())
			}
			named := st.Named()
			for _, m := range SummaryMetrics {
				scores[i][m] = append(scores[i][m], named[m])
			}
		}
	}

	summaries := make([]BaselineSummary, len(entries))
	for i, e := range entries {
		summary := BaselineSummary{Name: e.clf.Name()}
		for _, m := range SummaryMetrics {
			ms, err := summarize(m, scores[i][m])
			if err != nil {
				return nil, err
			}
			summary.Metrics = append(summary.Metrics, ms)
		}
		s.logger.Debug("%s over %d runs: %v", summary.Name, runs, summary.Metrics)
		summaries[i] = summary
	}
	return summaries, nil
}
