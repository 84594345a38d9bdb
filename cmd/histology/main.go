package main

import (
	"context"
	"fmt"
	"os"

	"imbexp/app"
	domain "imbexp/domain/dataset"
	"imbexp/domain/run"
	"imbexp/internal/cli"
	"imbexp/internal/dataset"
	"imbexp/internal/errors"

	"github.com/spf13/cobra"
)

const (
	defaultImagePath = "./data/hist"
	defaultCSVPath   = "./data/AE_20201412.csv"
)

func main() {
	cli.Execute(newRootCmd())
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "histology [imagepath] [csvpath]",
		Short: "Train the DDQN classifier on the structured histology data",
		Long: `Filters the histology table, fixes a stratified train/test split and runs the DDQN
trainer repeatedly, writing one row per repetition to <RESULTS_DIR>/histology/dqn_struct.csv.

The image folder is only recorded with the run; the structured model uses Age and arteryop.

Example: histology ./data/hist ./data/AE_20201412.csv`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistology(cmd.Context(),
				cli.ArgOr(args, 0, defaultImagePath),
				cli.ArgOr(args, 1, defaultCSVPath))
		},
	}
}

func runHistology(ctx context.Context, imagePath, csvPath string) error {
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
	train, test, err := dataset.FixedSplit(data.Table, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return errors.Wrap(err, "failed to split histology data")
	}

	exp := run.Experiment{
		Name:               "histology",
		Hyperparameters:    run.HistologyHyperparameters(),
		Classes:            domain.BinaryClasses(),
		Repetitions:        cfg.Repetitions,
		ValidationFraction: cfg.ValidationFraction,
		SelectionMetric:    run.SelectionMetricF1,
		ResultsPath:        c.ResultsPath("histology", "dqn_struct.csv"),
		Seed:               cfg.Seed,
		DatasetPaths:       []string{imagePath, csvPath},
	}

	result, err := c.Runner.Run(ctx, exp, train, test)
	if err != nil {
		return err
	}
	summary, err := app.SummarizeRecords(result.Records)
	if err != nil {
		return err
	}
	cli.PrintMetricSummaries(os.Stdout, fmt.Sprintf("DDQN over %d repetitions (run %s)", len(result.Records), result.Manifest.RunID), summary)
	return nil
}
