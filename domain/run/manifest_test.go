package run

import (
	"testing"

	"imbexp/domain/dataset"
)

func testExperiment() Experiment {
	return Experiment{
		Name:               "histology",
		Hyperparameters:    HistologyHyperparameters(),
		Classes:            dataset.BinaryClasses(),
		Repetitions:        10,
		ValidationFraction: 0.2,
		SelectionMetric:    SelectionMetricF1,
		ResultsPath:        "results/histology/dqn_struct.csv",
		Seed:               42,
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	fp1 := HistologyHyperparameters().Fingerprint()
	fp2 := HistologyHyperparameters().Fingerprint()

	if fp1 != fp2 {
		t.Errorf("Fingerprints not identical: %s vs %s", fp1, fp2)
	}
	if len(fp1) != 64 {
		t.Errorf("Expected sha256 hex fingerprint, got %q", fp1)
	}
}

func TestFingerprint_Unique(t *testing.T) {
	base := HistologyHyperparameters().Fingerprint()

	lr := HistologyHyperparameters()
	lr.LearningRate = 0.001
	gamma := HistologyHyperparameters()
	gamma.Gamma = 0.9
	layers := HistologyHyperparameters()
	layers.Architecture.Layers[0].Units = 64

	testCases := []struct {
		name string
		hp   Hyperparameters
	}{
		{"different learning rate", lr},
		{"different gamma", gamma},
		{"different layer width", layers},
		{"different preset", CreditCardHyperparameters()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.hp.Fingerprint() == base {
				t.Errorf("Fingerprint should be different for %s", tc.name)
			}
		})
	}
}

func TestPresets_Validate(t *testing.T) {
	for name, hp := range map[string]Hyperparameters{
		"creditcard": CreditCardHyperparameters(),
		"histology":  HistologyHyperparameters(),
	} {
		if err := hp.Validate(); err != nil {
			t.Errorf("%s preset invalid: %v", name, err)
		}
	}
	if got := CreditCardHyperparameters().DecayEpisodes; got != 10_000 {
		t.Errorf("credit card decay episodes = %d, want 10000", got)
	}
}

func TestHyperparameters_ValidateRejects(t *testing.T) {
	cases := map[string]func(*Hyperparameters){
		"zero batch":          func(h *Hyperparameters) { h.BatchSize = 0 },
		"tau above one":       func(h *Hyperparameters) { h.TargetUpdateTau = 1.5 },
		"negative gamma":      func(h *Hyperparameters) { h.Gamma = -0.1 },
		"no network":          func(h *Hyperparameters) { h.Architecture = Architecture{} },
		"dropout count":       func(h *Hyperparameters) { h.Architecture = Architecture{DenseLayers: []int{8}} },
		"mixed architectures": func(h *Hyperparameters) { h.Architecture.DenseLayers = []int{8} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			hp := HistologyHyperparameters()
			mutate(&hp)
			if err := hp.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestManifest_Complete(t *testing.T) {
	exp := testExperiment()
	if err := exp.Validate(); err != nil {
		t.Fatalf("experiment invalid: %v", err)
	}

	manifest := NewManifest(exp)

	if manifest.Experiment != "histology" {
		t.Errorf("Experiment not set correctly")
	}
	if manifest.Seed != 42 || manifest.Repetitions != 10 {
		t.Errorf("Seed/Repetitions not set correctly")
	}
	if manifest.Fingerprint != exp.Hyperparameters.Fingerprint() {
		t.Errorf("Fingerprint not computed")
	}
	if err := manifest.Validate(); err != nil {
		t.Errorf("Manifest validation failed: %v", err)
	}
	if NewManifest(exp).RunID == manifest.RunID {
		t.Errorf("each manifest should get its own run ID")
	}
}

func TestExperiment_ValidateRejectsMissingClasses(t *testing.T) {
	exp := testExperiment()
	exp.Classes = dataset.ClassSpec{Minority: []int{1}}
	if err := exp.Validate(); err == nil {
		t.Error("expected error for missing majority labels")
	}
}
