// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/multilabel/internal/nn"
	"github.com/born-ml/multilabel/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config represents the base configuration for optimizers.
type Config = optim.Config

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(
//	    model.Parameters(),
//	    optim.SGDConfig{
//	        LR:       0.01,
//	        Momentum: 0.9,
//	    },
//	)
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam(
//	    model.Parameters(),
//	    optim.AdamConfig{
//	        LR:    0.001,
//	        Betas: [2]float64{0.9, 0.999},
//	        Eps:   1e-8,
//	    },
//	)
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}

// Schedulers

// Scheduler adjusts an optimizer's learning rate once per epoch.
type Scheduler = optim.Scheduler

// NewStepLR decays the rate by gamma every stepSize epochs.
func NewStepLR(optimizer Optimizer, stepSize int, gamma float64) *optim.StepLR {
	return optim.NewStepLR(optimizer, stepSize, gamma)
}

// NewExponentialLR decays the rate by gamma every epoch.
func NewExponentialLR(optimizer Optimizer, gamma float64) *optim.ExponentialLR {
	return optim.NewExponentialLR(optimizer, gamma)
}

// NewCosineAnnealingLR anneals the rate from its base value to etaMin over tMax epochs.
func NewCosineAnnealingLR(optimizer Optimizer, tMax int, etaMin float64) *optim.CosineAnnealingLR {
	return optim.NewCosineAnnealingLR(optimizer, tMax, etaMin)
}

// NewConstantLR keeps the rate unchanged.
func NewConstantLR(optimizer Optimizer) *optim.ConstantLR {
	return optim.NewConstantLR(optimizer)
}
