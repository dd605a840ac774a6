package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
epochs: 3
classes: [sports, politics]
inception: true
model:
  hidden: [8, 4]
  aux_head: true
optimizer:
  name: sgd
  lr: 0.1
  momentum: 0.9
scheduler:
  name: step
  step_size: 2
  gamma: 0.5
data:
  source: csv
  train: train.csv
output:
  checkpoint: best.safetensors
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Epochs)
	assert.Equal(t, 2, cfg.ClassCount())
	assert.Equal(t, 32, cfg.BatchSize, "default kept")
	assert.Equal(t, 0.5, cfg.Threshold, "default kept")
	assert.Equal(t, []int{8, 4}, cfg.Model.Hidden)
	assert.Equal(t, "sgd", cfg.Optimizer.Name)
	assert.Equal(t, 0.9, cfg.Optimizer.Momentum)
	assert.Equal(t, 2, cfg.Scheduler.StepSize)
	assert.Equal(t, SourceCSV, cfg.Data.Source)
	assert.Equal(t, 0.2, cfg.Data.ValFraction, "default kept")
	assert.Equal(t, "best.safetensors", cfg.Output.Checkpoint)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Run)
	}{
		{"negative epochs", func(r *Run) { r.Epochs = -1 }},
		{"no classes", func(r *Run) { r.NumClasses = 0 }},
		{"zero batch", func(r *Run) { r.BatchSize = 0 }},
		{"threshold out of range", func(r *Run) { r.Threshold = 1 }},
		{"aux head without hidden", func(r *Run) { r.Model = Model{AuxHead: true} }},
		{"inception without aux head", func(r *Run) { r.Inception = true }},
		{"unknown optimizer", func(r *Run) { r.Optimizer.Name = "rmsprop" }},
		{"zero lr", func(r *Run) { r.Optimizer.LR = 0 }},
		{"unknown scheduler", func(r *Run) { r.Scheduler.Name = "plateau" }},
		{"unknown source", func(r *Run) { r.Data.Source = "parquet" }},
		{"csv without path", func(r *Run) { r.Data.Source = SourceCSV }},
		{"jsonl without dims", func(r *Run) { r.Data = Data{Source: SourceJSONL, Train: "x", ValFraction: 0.2} }},
		{"no val split", func(r *Run) { r.Data.ValFraction = 0 }},
		{"synthetic with val path", func(r *Run) { r.Data.Val = "val.csv" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "epochs: [1, 2]\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "batch_size: -4\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}
