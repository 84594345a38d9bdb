// Package cli holds the start-up and reporting code shared by the experiment binaries.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"imbexp/app"
	"imbexp/domain/core"
	"imbexp/domain/dataset"
	"imbexp/internal/config"
	"imbexp/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Execute loads .env, runs cmd with a context cancelled on SIGINT or SIGTERM, and exits 1 on error
func Execute(cmd *cobra.Command) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if core.IsSchemaError(err) {
			fmt.Fprintln(os.Stderr, "The input file does not have the expected columns or values.")
		}
		os.Exit(1)
	}
}

// Bootstrap loads the configuration and builds the container, opening the ledger when configured
func Bootstrap(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.InitLedger(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ArgOr returns args[i], or def when fewer arguments were given
func ArgOr(args []string, i int, def string) string {
	if i < len(args) {
		return args[i]
	}
	return def
}

// PrintDatasetSummary prints the imbalance ratio and the per-label counts
func PrintDatasetSummary(w io.Writer, labelName string, ratio float64, counts []dataset.LabelCount) {
	fmt.Fprintf(w, "Imbalance ratio: %.4f\n%s:\n", ratio, labelName)
	for _, c := range counts {
		fmt.Fprintf(w, "%-4d %d\n", c.Label, c.Count)
	}
	fmt.Fprintln(w)
}

// PrintMetricSummaries prints a titled block of "Metric: mean ± std" lines
func PrintMetricSummaries(w io.Writer, title string, summaries []app.MetricSummary) {
	fmt.Fprintf(w, "%s\n", title)
	for _, s := range summaries {
		fmt.Fprintln(w, s)
	}
	fmt.Fprintln(w)
}
