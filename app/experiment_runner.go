package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"imbexp/adapters/results"
	"imbexp/domain/core"
	domain "imbexp/domain/dataset"
	"imbexp/domain/run"
	"imbexp/internal"
	"imbexp/internal/dataset"
	"imbexp/internal/errors"
	"imbexp/internal/metrics"
	"imbexp/ports"

	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
)

// ValidationSplitStream names the RNG stream that draws every repetition's validation split
const ValidationSplitStream = "validation-split"

// ExperimentRunner repeats DDQN training attempts and appends one record per attempt
type ExperimentRunner struct {
	trainers ports.TrainerFactory
	rngPort  ports.RNGPort
	ledger   ports.RunLedger
	logger   *internal.Logger
	progress bool
}

// RunnerOption configures an ExperimentRunner
type RunnerOption func(*ExperimentRunner)

// WithLedger records the run and every repetition in ledger
func WithLedger(ledger ports.RunLedger) RunnerOption {
	return func(r *ExperimentRunner) { r.ledger = ledger }
}

// WithLogger replaces the default logger
func WithLogger(logger *internal.Logger) RunnerOption {
	return func(r *ExperimentRunner) { r.logger = logger }
}

// WithProgressBar toggles the repetition progress bar
func WithProgressBar(enabled bool) RunnerOption {
	return func(r *ExperimentRunner) { r.progress = enabled }
}

// NewExperimentRunner creates a runner
func NewExperimentRunner(trainers ports.TrainerFactory, rngPort ports.RNGPort, opts ...RunnerOption) *ExperimentRunner {
	r := &ExperimentRunner{
		trainers: trainers,
		rngPort:  rngPort,
		logger:   internal.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("ExperimentRunner")
	return r
}

// RunResult is what one invocation produced
type RunResult struct {
	Manifest *run.Manifest
	Records  []run.Record
	Runtime  time.Duration
}

// Run trains exp.Repetitions models on fresh train/validation splits of train and
// scores each on test. The results file is truncated first and closed on every exit.
func (r *ExperimentRunner) Run(ctx context.Context, exp run.Experiment, train, test domain.Table) (result *RunResult, err error) {
	start := time.Now()
	if err := exp.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	for name, t := range map[string]domain.Table{"train": train, "test": test} {
		if err := t.Validate(); err != nil {
			return nil, errors.Wrapf(errors.WithCode(errors.CodeInvalidInput, err), "invalid %s table", name)
		}
	}

	train = exp.Classes.MapLabels(train)
	test = exp.Classes.MapLabels(test)
	if train.Len() == 0 || test.Len() == 0 {
		return nil, errors.WithCode(errors.CodeInvalidInput,
			fmt.Errorf("%w: no rows left after label mapping", core.ErrInsufficientData))
	}

	manifest := run.NewManifest(exp)
	if err := manifest.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid run manifest")
	}

	var sink ports.ResultSink
	sink, err = results.CreateCSV(exp.ResultsPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if r.ledger != nil {
		if err := r.ledger.StartRun(ctx, manifest); err != nil {
			return nil, err
		}
		defer func() {
			if finishErr := r.ledger.FinishRun(context.WithoutCancel(ctx), manifest.RunID.String(), err); finishErr != nil {
				r.logger.Warn("Failed to close run %s in ledger: %v", manifest.RunID, finishErr)
			}
		}()
	}

	r.logger.Info("Starting %s run %s: %d repetitions, hyperparameters %s, train=%d test=%d",
		exp.Name, manifest.RunID, exp.Repetitions, manifest.Fingerprint.Short(), train.Len(), test.Len())

	result = &RunResult{Manifest: manifest}
	rng := r.rngPort.Stream(ValidationSplitStream, exp.Seed)
	repetition := func(i int) error {
		rec, modelPath, err := r.runRepetition(ctx, exp, i, train, test, rng)
		if err != nil {
			return errors.Wrapf(err, "repetition %d failed", i+1)
		}
		if err := sink.Append(rec); err != nil {
			return err
		}
		if r.ledger != nil {
			if err := r.ledger.RecordRepetition(ctx, manifest.RunID.String(), i, modelPath, rec); err != nil {
				return err
			}
		}
		result.Records = append(result.Records, rec)
		r.logger.Info("Repetition %d/%d: F1=%.3f Precision=%.3f Recall=%.3f Gmean=%.3f",
			i+1, exp.Repetitions, rec.F1, rec.Precision, rec.Recall, rec.Gmean)
		return nil
	}

	if r.progress {
		var loopErr error
		barErr := tqdm.With(iterators.Interval(0, exp.Repetitions), exp.Name, func(v interface{}) (brk bool) {
			if loopErr = repetition(v.(int)); loopErr != nil {
				return true
			}
			return false
		})
		if loopErr != nil {
			return result, loopErr
		}
		if barErr != nil {
			return result, errors.Wrap(barErr, "progress bar failed")
		}
	} else {
		for i := 0; i < exp.Repetitions; i++ {
			if err := repetition(i); err != nil {
				return result, err
			}
		}
	}

	result.Runtime = time.Since(start)
	r.logger.Info("Finished %s run %s in %v; results in %s", exp.Name, manifest.RunID, result.Runtime, exp.ResultsPath)
	return result, nil
}

// runRepetition performs one attempt: split, construct, compile, train, reload best, predict, score
func (r *ExperimentRunner) runRepetition(ctx context.Context, exp run.Experiment, i int, train, test domain.Table, rng *rand.Rand) (run.Record, string, error) {
	if err := ctx.Err(); err != nil {
		return run.Record{}, "", err
	}

	trn, val, err := dataset.StratifiedSplit(train, exp.ValidationFraction, rng)
	if err != nil {
		return run.Record{}, "", errors.Wrap(err, "failed to split validation set")
	}
	split := domain.Split{Train: trn, Validation: val, Test: test}

	hp := exp.Hyperparameters
	imbalanceRate := hp.ImbalanceRate
	if imbalanceRate == 0 {
		imbalanceRate = domain.ImbalanceRatio(split.Train.Y)
	}
	r.logger.Debug("Repetition %d: train=%d val=%d imbalance_rate=%g", i+1, split.Train.Len(), split.Validation.Len(), imbalanceRate)

	trainer, err := r.trainers.New(ctx, hp)
	if err != nil {
		return run.Record{}, "", errors.Wrap(err, "failed to create trainer")
	}
	if err := trainer.Compile(ctx, split.Train, imbalanceRate, hp.Architecture); err != nil {
		return run.Record{}, "", errors.Wrap(err, "compile failed")
	}
	if err := trainer.Train(ctx, split.Validation, exp.SelectionMetric); err != nil {
		return run.Record{}, "", errors.Wrap(err, "training failed")
	}

	modelPath := trainer.ModelPath()
	model, err := trainer.LoadModel(ctx, modelPath)
	if err != nil {
		return run.Record{}, "", errors.Wrapf(err, "failed to load model %s", modelPath)
	}
	preds, err := model.Predict(ctx, split.Test.X)
	if err != nil {
		return run.Record{}, "", errors.Wrap(err, "prediction failed")
	}

	stats, err := metrics.Classification(split.Test.Y, preds)
	if err != nil {
		return run.Record{}, "", errors.WithCode(errors.CodeExternalService, err)
	}
	return recordFromStats(stats), modelPath, nil
}

func recordFromStats(s metrics.Stats) run.Record {
	return run.Record{
		Gmean:     s.Gmean,
		F1:        s.F1,
		Precision: s.Precision,
		Recall:    s.Recall,
		TP:        s.TP,
		TN:        s.TN,
		FP:        s.FP,
		FN:        s.FN,
	}
}
