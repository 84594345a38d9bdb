package container

import (
	"context"
	"fmt"
	"path/filepath"

	"imbexp/adapters/ledger"
	"imbexp/adapters/rng"
	"imbexp/adapters/trainer"
	"imbexp/app"
	"imbexp/internal"
	"imbexp/internal/config"
	"imbexp/ports"
)

// Container holds the driver dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Ledger   *ledger.SQLLedger
	RNG      ports.RNGPort
	Trainers ports.TrainerFactory

	// Services
	Runner    *app.ExperimentRunner
	Baselines *app.BaselineService
}

// New creates a container with the subprocess trainer; call InitLedger before building services
// when a ledger DSN is configured
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	c := &Container{
		Config: cfg,
		Logger: logger,
		RNG:    rng.NewSeeded(),
		Trainers: trainer.NewFactory(trainer.Config{
			Command: cfg.Trainer.Command,
			WorkDir: cfg.Trainer.WorkDir,
			Timeout: cfg.Trainer.Timeout,
		}, logger),
	}
	c.initServices()
	return c, nil
}

// InitLedger opens and migrates the run ledger when LEDGER_DSN is set
func (c *Container) InitLedger(ctx context.Context) error {
	if !c.Config.Ledger.Enabled() {
		return nil
	}
	l, err := ledger.Open(ctx, c.Config.Ledger.Driver, c.Config.Ledger.DSN)
	if err != nil {
		return err
	}
	c.Ledger = l
	c.Logger.Info("Run ledger enabled (%s)", c.Config.Ledger.Driver)
	c.initServices()
	return nil
}

func (c *Container) initServices() {
	opts := []app.RunnerOption{
		app.WithLogger(c.Logger),
		app.WithProgressBar(c.Config.Log.ProgressBar),
	}
	if c.Ledger != nil {
		opts = append(opts, app.WithLedger(c.Ledger))
	}
	c.Runner = app.NewExperimentRunner(c.Trainers, c.RNG, opts...)
	c.Baselines = app.NewBaselineService(c.RNG, c.Logger)
}

// ResultsPath joins parts under the configured results directory
func (c *Container) ResultsPath(parts ...string) string {
	return filepath.Join(append([]string{c.Config.Experiment.ResultsDir}, parts...)...)
}

// Shutdown closes the ledger connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Ledger != nil {
		return c.Ledger.Close()
	}
	return nil
}
