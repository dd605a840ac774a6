// Package config loads training run configuration from YAML.
//
// Example file:
//
//	epochs: 20
//	classes: [sports, politics, tech]
//	batch_size: 32
//	seed: 7
//	model:
//	  hidden: [64, 32]
//	optimizer:
//	  name: adam
//	  lr: 0.001
//	scheduler:
//	  name: step
//	  step_size: 10
//	  gamma: 0.5
//	data:
//	  source: csv
//	  train: data/train.csv
//	  val: data/val.csv
//	output:
//	  checkpoint: runs/best.safetensors
//	  history: runs/history.json
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Data sources.
const (
	SourceSynthetic = "synthetic"
	SourceCSV       = "csv"
	SourceJSONL     = "jsonl"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Run is the full configuration of one training run.
type Run struct {
	Epochs     int      `yaml:"epochs"`
	Classes    []string `yaml:"classes"`
	NumClasses int      `yaml:"num_classes"` // Ignored when Classes is set
	BatchSize  int      `yaml:"batch_size"`
	Threshold  float64  `yaml:"threshold"`
	Inception  bool     `yaml:"inception"`
	Profile    bool     `yaml:"profile"`
	LogEvery   int      `yaml:"log_every"`
	Seed       int64    `yaml:"seed"`

	Model     Model     `yaml:"model"`
	Optimizer Optimizer `yaml:"optimizer"`
	Scheduler Scheduler `yaml:"scheduler"`
	Data      Data      `yaml:"data"`
	Output    Output    `yaml:"output"`
}

// Model configures the MultiLabelNet.
type Model struct {
	Hidden  []int `yaml:"hidden"`
	AuxHead bool  `yaml:"aux_head"`
}

// Optimizer selects and configures the optimizer.
type Optimizer struct {
	Name     string  `yaml:"name"` // "adam" or "sgd"
	LR       float64 `yaml:"lr"`
	Momentum float64 `yaml:"momentum"`
}

// Scheduler selects and configures the learning rate schedule.
type Scheduler struct {
	Name     string  `yaml:"name"` // "step", "exponential", "cosine" or "constant"
	StepSize int     `yaml:"step_size"`
	Gamma    float64 `yaml:"gamma"`
	TMax     int     `yaml:"t_max"`
	EtaMin   float64 `yaml:"eta_min"`
}

// Data describes where samples come from.
type Data struct {
	Source      string  `yaml:"source"`
	Train       string  `yaml:"train"`
	Val         string  `yaml:"val"`          // Optional; split from Train when empty
	ValFraction float64 `yaml:"val_fraction"` // Used when Val is empty
	Shuffle     bool    `yaml:"shuffle"`

	// Synthetic source.
	Samples   int     `yaml:"samples"`
	Features  int     `yaml:"features"`
	LabelProb float64 `yaml:"label_prob"`
	Noise     float64 `yaml:"noise"`

	// JSONL text source.
	Encoding string `yaml:"encoding"`
	Dims     int    `yaml:"dims"`
}

// Output lists the files a run writes.
type Output struct {
	Checkpoint string `yaml:"checkpoint"`
	History    string `yaml:"history"`
}

// Default returns a configuration that trains on a small synthetic problem.
func Default() Run {
	return Run{
		Epochs:     10,
		NumClasses: 4,
		BatchSize:  32,
		Threshold:  0.5,
		LogEvery:   100,
		Seed:       1,
		Model:      Model{Hidden: []int{32}},
		Optimizer:  Optimizer{Name: "adam", LR: 0.001},
		Scheduler:  Scheduler{Name: "constant"},
		Data: Data{
			Source:      SourceSynthetic,
			ValFraction: 0.2,
			Shuffle:     true,
			Samples:     1000,
			Features:    16,
			Encoding:    "cl100k_base",
			Dims:        256,
		},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Run, error) {
	cfg := Default()
	raw, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ClassCount returns len(Classes) when class names are given, NumClasses otherwise.
func (r Run) ClassCount() int {
	if len(r.Classes) > 0 {
		return len(r.Classes)
	}
	return r.NumClasses
}

// Validate reports the first invalid setting.
func (r Run) Validate() error {
	switch {
	case r.Epochs < 0:
		return fmt.Errorf("%w: epochs must be non-negative, got %d", ErrInvalid, r.Epochs)
	case r.ClassCount() <= 0:
		return fmt.Errorf("%w: classes or num_classes is required", ErrInvalid)
	case r.BatchSize <= 0:
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalid, r.BatchSize)
	case r.Threshold <= 0 || r.Threshold >= 1:
		return fmt.Errorf("%w: threshold must be in (0, 1), got %v", ErrInvalid, r.Threshold)
	case r.Model.AuxHead && len(r.Model.Hidden) == 0:
		return fmt.Errorf("%w: model.aux_head needs at least one hidden layer", ErrInvalid)
	case r.Inception && !r.Model.AuxHead:
		return fmt.Errorf("%w: inception training needs model.aux_head", ErrInvalid)
	case !slices.Contains([]string{"adam", "sgd"}, r.Optimizer.Name):
		return fmt.Errorf("%w: unknown optimizer %q", ErrInvalid, r.Optimizer.Name)
	case r.Optimizer.LR <= 0:
		return fmt.Errorf("%w: optimizer.lr must be positive, got %v", ErrInvalid, r.Optimizer.LR)
	case !slices.Contains([]string{"step", "exponential", "cosine", "constant"}, r.Scheduler.Name):
		return fmt.Errorf("%w: unknown scheduler %q", ErrInvalid, r.Scheduler.Name)
	}
	return r.Data.validate()
}

func (d Data) validate() error {
	switch d.Source {
	case SourceSynthetic:
		if d.Samples <= 0 || d.Features <= 0 {
			return fmt.Errorf("%w: synthetic data needs positive samples and features", ErrInvalid)
		}
		if d.Val != "" {
			return fmt.Errorf("%w: data.val is not supported for synthetic data, use data.val_fraction", ErrInvalid)
		}
	case SourceCSV, SourceJSONL:
		if d.Train == "" {
			return fmt.Errorf("%w: data.train is required for %s data", ErrInvalid, d.Source)
		}
		if d.Source == SourceJSONL && d.Dims <= 0 {
			return fmt.Errorf("%w: data.dims must be positive for jsonl data", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown data source %q", ErrInvalid, d.Source)
	}
	if d.Val == "" && (d.ValFraction <= 0 || d.ValFraction >= 1) {
		return fmt.Errorf("%w: data.val_fraction must be in (0, 1) when data.val is empty", ErrInvalid)
	}
	return nil
}
