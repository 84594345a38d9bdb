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
	defaultTrainPath = "./data/credit0.csv"
	defaultTestPath  = "./data/credit1.csv"
)

func main() {
	cli.Execute(newRootCmd())
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "creditcard [train.csv] [test.csv]",
		Short: "Train the DDQN classifier on the credit-card fraud dataset",
		Long: `Runs the DDQN trainer repeatedly on the credit-card fraud dataset and writes one
row of test-set statistics per repetition to <RESULTS_DIR>/creditcardfraud/dqn.csv.

Example: creditcard ./data/credit0.csv ./data/credit1.csv`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreditCard(cmd.Context(),
				cli.ArgOr(args, 0, defaultTrainPath),
				cli.ArgOr(args, 1, defaultTestPath))
		},
	}
}

func runCreditCard(ctx context.Context, trainPath, testPath string) error {
	c, err := cli.Bootstrap(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown(context.Background())

	train, test, err := dataset.LoadCreditCard(trainPath, testPath, dataset.DefaultCreditCardOptions())
	if err != nil {
		return errors.Wrap(err, "failed to load credit-card data")
	}
	cli.PrintDatasetSummary(os.Stdout, "Class", domain.ImbalanceRatio(train.Y), domain.ValueCounts(train.Y))

	cfg := c.Config.Experiment
	exp := run.Experiment{
		Name:               "creditcardfraud",
		Hyperparameters:    run.CreditCardHyperparameters(),
		Classes:            domain.BinaryClasses(),
		Repetitions:        cfg.Repetitions,
		ValidationFraction: cfg.ValidationFraction,
		SelectionMetric:    run.SelectionMetricF1,
		ResultsPath:        c.ResultsPath("creditcardfraud", "dqn.csv"),
		Seed:               cfg.Seed,
		DatasetPaths:       []string{trainPath, testPath},
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
