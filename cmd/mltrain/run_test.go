package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/multilabel/internal/config"
	"github.com/born-ml/multilabel/internal/nn"
	"github.com/born-ml/multilabel/internal/optim"
	"github.com/born-ml/multilabel/internal/report"
	"github.com/born-ml/multilabel/internal/tensor"
)

func smallConfig() config.Run {
	cfg := config.Default()
	cfg.Epochs = 2
	cfg.NumClasses = 3
	cfg.BatchSize = 16
	cfg.Data.Samples = 120
	cfg.Data.Features = 6
	return cfg
}

func TestRunSynthetic(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()
	cfg.Output.Checkpoint = filepath.Join(dir, "best.safetensors")
	cfg.Output.History = filepath.Join(dir, "history.json")
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	require.NoError(t, run(cfg, &out))

	text := out.String()
	assert.Contains(t, text, "Epoch 1/2")
	assert.Contains(t, text, "Training complete in")
	assert.Contains(t, text, "Final validation epoch:")
	assert.Contains(t, text, "class_2")

	_, err := os.Stat(cfg.Output.Checkpoint)
	require.NoError(t, err)

	summary, err := report.ReadHistory(cfg.Output.History)
	require.NoError(t, err)
	assert.Len(t, summary.Val.Loss, 2)
	assert.Equal(t, []string{"class_0", "class_1", "class_2"}, summary.Classes)
}

func TestRunInceptionWithProfile(t *testing.T) {
	cfg := smallConfig()
	cfg.Epochs = 1
	cfg.Inception = true
	cfg.Profile = true
	cfg.Model.AuxHead = true
	cfg.Optimizer = config.Optimizer{Name: "sgd", LR: 0.05, Momentum: 0.9}
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	require.NoError(t, run(cfg, &out))
	assert.Contains(t, out.String(), "Forward profile")
}

func TestLoadDataCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv")
	rows := "f0,f1,sports,politics\n" +
		"0.1,0.2,1,0\n" +
		"0.3,0.4,0,1\n" +
		"0.5,0.6,1,1\n" +
		"0.7,0.8,0,0\n"
	require.NoError(t, os.WriteFile(path, []byte(rows), 0o600))

	cfg := config.Default()
	cfg.NumClasses = 2
	cfg.Data.Source = config.SourceCSV
	cfg.Data.Train = path
	cfg.Data.ValFraction = 0.25

	trainSet, valSet, classes, err := loadData(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"sports", "politics"}, classes)
	assert.Equal(t, 3, trainSet.Len())
	assert.Equal(t, 1, valSet.Len())
	assert.Equal(t, 2, trainSet.NumFeatures())
}

func TestLoadDataMissingFile(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Source = config.SourceCSV
	cfg.Data.Train = filepath.Join(t.TempDir(), "missing.csv")

	_, _, _, err := loadData(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load train data")
}

func TestNewScheduler(t *testing.T) {
	p := nn.NewParameter("w", tensor.Zeros(tensor.Shape{1}))

	tests := []struct {
		cfg  config.Scheduler
		want string
	}{
		{config.Scheduler{Name: "step", StepSize: 2, Gamma: 0.1}, "StepLR"},
		{config.Scheduler{Name: "exponential", Gamma: 0.9}, "ExponentialLR"},
		{config.Scheduler{Name: "cosine", TMax: 10}, "CosineAnnealingLR"},
		{config.Scheduler{Name: "constant"}, "ConstantLR"},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Name, func(t *testing.T) {
			opt := newOptimizer(config.Optimizer{Name: "adam", LR: 0.01}, []*nn.Parameter{p})
			assert.True(t, strings.HasPrefix(newScheduler(tt.cfg, opt).Name(), tt.want))
		})
	}
}

func TestNewOptimizer(t *testing.T) {
	p := nn.NewParameter("w", tensor.Zeros(tensor.Shape{1}))

	sgd := newOptimizer(config.Optimizer{Name: "sgd", LR: 0.1}, []*nn.Parameter{p})
	assert.IsType(t, &optim.SGD{}, sgd)
	assert.InDelta(t, 0.1, sgd.GetLR(), 1e-12)

	adam := newOptimizer(config.Optimizer{Name: "adam", LR: 0.002}, []*nn.Parameter{p})
	assert.IsType(t, &optim.Adam{}, adam)
}

func TestTrainCommandRejectsSyntheticValPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	yaml := "num_classes: 3\ndata:\n  source: synthetic\n  val: val.csv\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	err := trainCommand([]string{"-config", path})
	assert.ErrorIs(t, err, config.ErrInvalid)
}
