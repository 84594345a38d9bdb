package main

import (
	"context"
	"os"

	domain "imbexp/domain/dataset"
	"imbexp/internal/cli"
	"imbexp/internal/dataset"
	"imbexp/internal/errors"

	"github.com/spf13/cobra"
)

const defaultCSVPath = "./data/AE_20201412.csv"

func main() {
	cli.Execute(newRootCmd())
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "baselines [csvpath]",
		Short: "Score simple reference classifiers on the histology data",
		Long: `Scores a uniform random classifier, an always-minority classifier and a
class-weighted logistic regression on the fixed histology test split, BASELINE_RUNS
times each, and prints mean ± standard deviation of F1, Precision and Recall.

Example: baselines ./data/AE_20201412.csv`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBaselines(cmd.Context(), cli.ArgOr(args, 0, defaultCSVPath))
		},
	}
}

func runBaselines(ctx context.Context, csvPath string) error {
	c, err := cli.Bootstrap(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown(context.Background())

	data, err := dataset.LoadHistology(csvPath, dataset.DefaultHistologyOptions())
	if err != nil {
		return errors.Wrap(err, "failed to load histology data")
	}
	cli.PrintDatasetSummary(os.Stdout, "Restenos", data.Summary.ImbalanceRatio, data.Summary.LabelCounts)

	cfg := c.Config.Experiment
	table := domain.BinaryClasses().MapLabels(data.Table)
	train, test, err := dataset.FixedSplit(table, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return errors.Wrap(err, "failed to split histology data")
	}

	summaries, err := c.Baselines.Run(ctx, train, test, cfg.BaselineRuns, cfg.Seed)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		cli.PrintMetricSummaries(os.Stdout, s.Name, s.Metrics)
	}
	return nil
}
