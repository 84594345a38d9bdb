package trainer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"imbexp/domain/core"
	"imbexp/domain/dataset"
	"imbexp/domain/run"
	"imbexp/internal"
	"imbexp/internal/errors"
	"imbexp/ports"

	"github.com/tidwall/gjson"
)

const serviceName = "ddqn trainer"

// Files exchanged with the trainer process inside a repetition's work directory
const (
	HyperparametersFile = "hyperparameters.json"
	TrainFile           = "train.csv"
	ValidationFile      = "val.csv"
	PredictFile         = "predict.csv"
	LabelColumn         = "label"
)

// Config configures the external trainer command
type Config struct {
	// Command and leading arguments; the verb and flags are appended.
	Command []string
	// Parent directory for per-repetition work directories.
	WorkDir string
	// Per-call limit; zero means no limit beyond the caller's context.
	Timeout time.Duration
}

var _ ports.TrainerFactory = (*Factory)(nil)

// Factory launches one trainer process sequence per repetition
type Factory struct {
	config Config
	logger *internal.Logger
}

// NewFactory creates a subprocess trainer factory
func NewFactory(config Config, logger *internal.Logger) *Factory {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Factory{config: config, logger: logger.WithComponent("Trainer")}
}

// New creates a fresh work directory and stages the hyperparameters in it
func (f *Factory) New(ctx context.Context, hp run.Hyperparameters) (ports.Trainer, error) {
	if len(f.config.Command) == 0 {
		return nil, errors.ConfigInvalid("trainer command is empty")
	}
	dir := filepath.Join(f.config.WorkDir, "ddqn-"+core.NewRepetitionID().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.IOError("failed to create trainer work directory", err)
	}
	return &Subprocess{
		config: f.config,
		logger: f.logger,
		dir:    dir,
		hp:     hp,
	}, nil
}

// Subprocess drives the trainer command through its compile, train and predict verbs
type Subprocess struct {
	config    Config
	logger    *internal.Logger
	dir       string
	hp        run.Hyperparameters
	modelPath string
	bestScore float64
}

// Dir returns the work directory holding the staged files
func (s *Subprocess) Dir() string {
	return s.dir
}

// BestScore returns the validation score of the saved checkpoint; valid after Train
func (s *Subprocess) BestScore() float64 {
	return s.bestScore
}

// Compile writes the training rows and the final hyperparameters, then asks the trainer to build its network
func (s *Subprocess) Compile(ctx context.Context, train dataset.Table, imbalanceRate float64, arch run.Architecture) error {
	hp := s.hp
	hp.ImbalanceRate = imbalanceRate
	hp.Architecture = arch
	data, err := json.MarshalIndent(hp, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode hyperparameters")
	}
	if err := os.WriteFile(filepath.Join(s.dir, HyperparametersFile), data, 0o644); err != nil {
		return errors.IOError("failed to write hyperparameters", err)
	}
	if err := writeTable(filepath.Join(s.dir, TrainFile), train, true); err != nil {
		return err
	}
	_, err = s.invoke(ctx, "compile")
	return err
}

// Train runs the training loop and records where the best checkpoint was saved
func (s *Subprocess) Train(ctx context.Context, val dataset.Table, metric string) error {
	if err := writeTable(filepath.Join(s.dir, ValidationFile), val, true); err != nil {
		return err
	}
	out, err := s.invoke(ctx, "train", "--metric", metric)
	if err != nil {
		return err
	}
	result := lastJSONLine(out)
	path := gjson.Get(result, "model_path")
	if !path.Exists() || path.String() == "" {
		return errors.ExternalServiceError(serviceName, fmt.Errorf("train output has no model_path: %q", result))
	}
	s.modelPath = path.String()
	if !filepath.IsAbs(s.modelPath) {
		s.modelPath = filepath.Join(s.dir, s.modelPath)
	}
	s.bestScore = gjson.Get(result, "best_score").Float()
	s.logger.Debug("Best %s on validation: %.4f (%s)", metric, s.bestScore, s.modelPath)
	return nil
}

// ModelPath returns the checkpoint chosen during Train
func (s *Subprocess) ModelPath() string {
	return s.modelPath
}

// LoadModel checks the checkpoint exists; inference runs through the predict verb
func (s *Subprocess) LoadModel(ctx context.Context, path string) (ports.Model, error) {
	if path == "" {
		return nil, errors.InvalidInput("model path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.IOError("model checkpoint not found", err)
	}
	return &model{trainer: s, path: path}, nil
}

type model struct {
	trainer *Subprocess
	path    string
}

// Predict writes the rows without labels and reads back one action per row
func (m *model) Predict(ctx context.Context, x [][]float64) ([]int, error) {
	features := 0
	if len(x) > 0 {
		features = len(x[0])
	}
	table := dataset.Table{Features: featureNames(features), X: x, Y: make([]int, len(x))}
	if err := writeTable(filepath.Join(m.trainer.dir, PredictFile), table, false); err != nil {
		return nil, err
	}
	out, err := m.trainer.invoke(ctx, "predict", "--model", m.path)
	if err != nil {
		return nil, err
	}
	result := gjson.Get(lastJSONLine(out), "predictions")
	if !result.IsArray() {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("predict output has no predictions array"))
	}
	values := result.Array()
	if len(values) != len(x) {
		return nil, errors.ExternalServiceError(serviceName, core.NewLengthMismatchError("predictions", len(x), len(values)))
	}
	preds := make([]int, len(values))
	for i, v := range values {
		preds[i] = int(v.Int())
	}
	return preds, nil
}

// invoke runs `<command> <verb> --workdir <dir> [args...]` and returns its stdout
func (s *Subprocess) invoke(ctx context.Context, verb string, args ...string) (string, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	argv := append([]string{}, s.config.Command[1:]...)
	argv = append(argv, verb, "--workdir", s.dir)
	argv = append(argv, args...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.config.Command[0], argv...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = s.dir

	start := time.Now()
	s.logger.Debug("Running %s %s", s.config.Command[0], strings.Join(argv, " "))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", errors.ExternalServiceError(serviceName, ctx.Err())
		}
		return "", errors.ExternalServiceError(serviceName,
			fmt.Errorf("%s failed: %v\nstderr:\n%s", verb, err, strings.TrimSpace(stderr.String())))
	}
	s.logger.Debug("%s finished in %v", verb, time.Since(start))
	return stdout.String(), nil
}

// lastJSONLine returns the last stdout line that is valid JSON; trainers tend to log before the result
func lastJSONLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if gjson.Valid(line) && strings.HasPrefix(line, "{") {
			return line
		}
	}
	return ""
}

func featureNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "f" + strconv.Itoa(i)
	}
	return names
}

// writeTable writes features (and optionally the label column) with a header row
func writeTable(path string, t dataset.Table, withLabels bool) error {
	if err := t.Validate(); err != nil {
		return errors.WithCode(errors.CodeInvalidInput, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.IOError("failed to create "+filepath.Base(path), err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := append([]string{}, t.Features...)
	if withLabels {
		header = append(header, LabelColumn)
	}
	if err := w.Write(header); err != nil {
		return errors.IOError("failed to write "+filepath.Base(path), err)
	}
	row := make([]string, len(header))
	for i, x := range t.X {
		for j, v := range x {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if withLabels {
			row[len(row)-1] = strconv.Itoa(t.Y[i])
		}
		if err := w.Write(row); err != nil {
			return errors.IOError("failed to write "+filepath.Base(path), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.IOError("failed to write "+filepath.Base(path), err)
	}
	return nil
}
