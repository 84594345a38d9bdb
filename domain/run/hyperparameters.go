package run

import (
	"encoding/json"

	"imbexp/domain/core"
)

// Layer is one dense layer of an explicit network stack
type Layer struct {
	Units      int    `json:"units"`
	Activation string `json:"activation,omitempty"`
	InputShape []int  `json:"input_shape,omitempty"`
}

// Architecture describes the Q-network handed to the trainer at compile time.
// Either Layers is set, or DenseLayers (optionally with ConvLayers and one dropout rate per dense layer).
type Architecture struct {
	ConvLayers    []int     `json:"conv_layers"`
	DenseLayers   []int     `json:"dense_layers,omitempty"`
	DropoutLayers []float64 `json:"dropout_layers,omitempty"`
	Layers        []Layer   `json:"layers,omitempty"`
}

// Validate checks the architecture is internally consistent
func (a Architecture) Validate() error {
	if len(a.Layers) > 0 {
		if len(a.DenseLayers) > 0 || len(a.ConvLayers) > 0 {
			return core.NewValidationError("architecture", "explicit layers cannot be combined with conv/dense sizes")
		}
		for _, l := range a.Layers {
			if l.Units < 1 {
				return core.NewValidationError("architecture.layers", "every layer needs at least one unit")
			}
		}
		return nil
	}
	if len(a.DenseLayers) == 0 {
		return core.NewValidationError("architecture", "either layers or dense_layers must be set")
	}
	if len(a.DropoutLayers) != len(a.DenseLayers) {
		return core.NewValidationError("architecture.dropout_layers", "one dropout rate per dense layer")
	}
	for _, p := range a.DropoutLayers {
		if p < 0 || p >= 1 {
			return core.NewValidationError("architecture.dropout_layers", "rates must be in [0, 1)")
		}
	}
	return nil
}

// Hyperparameters is the immutable DDQN configuration for one experiment.
type Hyperparameters struct {
	// Total training episodes.
	Episodes int `json:"episodes"`
	// Steps collected with a random policy before training starts.
	WarmupSteps int `json:"warmup_steps"`
	// Replay memory capacity.
	MemoryLength int `json:"memory_length"`
	BatchSize    int `json:"batch_size"`
	// Environment steps collected per episode.
	CollectStepsPerEpisode int `json:"collect_steps_per_episode"`
	// Episodes between collection rounds.
	CollectEvery int `json:"collect_every"`
	// Episodes between overwriting the target Q-network with the online one.
	TargetUpdatePeriod int `json:"target_update_period"`
	// 1 is a hard copy; lower values soften the target update.
	TargetUpdateTau float64 `json:"target_update_tau"`
	NStepUpdate     int     `json:"n_step_update"`

	LearningRate float64 `json:"learning_rate"`
	// Discount factor.
	Gamma float64 `json:"gamma"`
	// Final chance of choosing a random action.
	MinEpsilon float64 `json:"min_epsilon"`
	// Episodes to decay epsilon from 1.0 to MinEpsilon.
	DecayEpisodes int `json:"decay_episodes"`

	// Minority/majority ratio given to the trainer; zero means derive it from the training labels.
	ImbalanceRate float64 `json:"imbalance_rate,omitempty"`

	Architecture Architecture `json:"architecture"`
}

// Validate checks ranges of every option
func (h Hyperparameters) Validate() error {
	counts := []struct {
		name  string
		value int
	}{
		{"episodes", h.Episodes},
		{"memory_length", h.MemoryLength},
		{"batch_size", h.BatchSize},
		{"collect_steps_per_episode", h.CollectStepsPerEpisode},
		{"collect_every", h.CollectEvery},
		{"target_update_period", h.TargetUpdatePeriod},
		{"n_step_update", h.NStepUpdate},
		{"decay_episodes", h.DecayEpisodes},
	}
	for _, c := range counts {
		if c.value < 1 {
			return core.NewValidationError(c.name, "must be at least 1")
		}
	}
	if h.WarmupSteps < 0 {
		return core.NewValidationError("warmup_steps", "cannot be negative")
	}
	if h.TargetUpdateTau <= 0 || h.TargetUpdateTau > 1 {
		return core.NewValidationError("target_update_tau", "must be in (0, 1]")
	}
	if h.LearningRate <= 0 {
		return core.NewValidationError("learning_rate", "must be positive")
	}
	if h.Gamma < 0 || h.Gamma > 1 {
		return core.NewValidationError("gamma", "must be in [0, 1]")
	}
	if h.MinEpsilon < 0 || h.MinEpsilon > 1 {
		return core.NewValidationError("min_epsilon", "must be in [0, 1]")
	}
	if h.ImbalanceRate < 0 || h.ImbalanceRate > 1 {
		return core.NewValidationError("imbalance_rate", "must be in [0, 1]")
	}
	return h.Architecture.Validate()
}

// Fingerprint hashes the canonical JSON encoding; equal configurations share a fingerprint
func (h Hyperparameters) Fingerprint() core.Hash {
	data, err := json.Marshal(h)
	if err != nil {
		// Only plain numbers and slices are encoded.
		panic(err)
	}
	return core.NewHash(data)
}

// CreditCardHyperparameters is the preset used for the credit-card fraud experiment
func CreditCardHyperparameters() Hyperparameters {
	const episodes = 100_000
	const warmup = 170_000
	return Hyperparameters{
		Episodes:               episodes,
		WarmupSteps:            warmup,
		MemoryLength:           warmup,
		BatchSize:              32,
		CollectStepsPerEpisode: 2000,
		CollectEvery:           500,
		TargetUpdatePeriod:     800,
		TargetUpdateTau:        1,
		NStepUpdate:            1,
		LearningRate:           0.00025,
		Gamma:                  0.0,
		MinEpsilon:             0.5,
		DecayEpisodes:          episodes / 10,
		ImbalanceRate:          0.001729,
		Architecture: Architecture{
			DenseLayers:   []int{256, 256},
			DropoutLayers: []float64{0.2, 0.2},
		},
	}
}

// HistologyHyperparameters is the preset used for the structured histology experiment
func HistologyHyperparameters() Hyperparameters {
	return Hyperparameters{
		Episodes:               12_000,
		WarmupSteps:            10_000,
		MemoryLength:           10_000,
		BatchSize:              32,
		CollectStepsPerEpisode: 100,
		CollectEvery:           100,
		TargetUpdatePeriod:     400,
		TargetUpdateTau:        1,
		NStepUpdate:            4,
		LearningRate:           0.00025,
		Gamma:                  0.0,
		MinEpsilon:             0.01,
		DecayEpisodes:          10_000,
		Architecture: Architecture{
			Layers: []Layer{
				{Units: 40, Activation: "relu", InputShape: []int{2}},
				{Units: 40, Activation: "relu"},
				{Units: 2},
			},
		},
	}
}
