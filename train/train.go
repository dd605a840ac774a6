// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train runs the epoch loop for multi-label classifiers.
//
// Example:
//
//	import (
//	    "github.com/born-ml/multilabel/autodiff"
//	    "github.com/born-ml/multilabel/backend/cpu"
//	    "github.com/born-ml/multilabel/data"
//	    "github.com/born-ml/multilabel/nn"
//	    "github.com/born-ml/multilabel/optim"
//	    "github.com/born-ml/multilabel/train"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    model := nn.NewMultiLabelNet(nn.NetConfig{InFeatures: 16, NumClasses: 4, Hidden: []int{32}}, backend)
//	    opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 1e-3})
//
//	    result, err := train.Run(
//	        train.Config{Epochs: 20, NumClasses: 4},
//	        model,
//	        map[train.Phase]train.Loader{
//	            train.PhaseTrain: data.NewDataLoader(trainSet, data.LoaderConfig{BatchSize: 32, Shuffle: true}),
//	            train.PhaseVal:   data.NewDataLoader(valSet, data.LoaderConfig{BatchSize: 32}),
//	        },
//	        opt, optim.NewStepLR(opt, 10, 0.5), nn.NewBCELoss(backend), backend,
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.BestLoss, result.Val.Acc)
//	}
package train

import (
	"github.com/born-ml/multilabel/internal/train"
)

// Phase names one pass of an epoch.
type Phase = train.Phase

// Phases of an epoch.
const (
	PhaseTrain = train.PhaseTrain
	PhaseVal   = train.PhaseVal
)

// Config controls a training run.
type Config = train.Config

// Result is everything a run produces.
type Result = train.Result

// History holds one entry per epoch for one phase.
type History = train.History

// StepSummary describes one processed batch.
type StepSummary = train.StepSummary

// EpochSummary reports the aggregates of one finished epoch.
type EpochSummary = train.EpochSummary

// Collaborator interfaces.
type (
	Model     = train.Model
	AuxModel  = train.AuxModel
	Optimizer = train.Optimizer
	Scheduler = train.Scheduler
	Criterion = train.Criterion
	Loader    = train.Loader
	Backend   = train.Backend
)

// Errors returned by Run.
var (
	ErrMissingPhase  = train.ErrMissingPhase
	ErrEmptyPhase    = train.ErrEmptyPhase
	ErrNoAuxOutput   = train.ErrNoAuxOutput
	ErrInvalidConfig = train.ErrInvalidConfig
)

// Run trains model and returns it with its best-validation-loss weights
// restored.
func Run(
	cfg Config,
	model Model,
	loaders map[Phase]Loader,
	opt Optimizer,
	sched Scheduler,
	crit Criterion,
	backend Backend,
) (*Result, error) {
	return train.Run(cfg, model, loaders, opt, sched, crit, backend)
}
