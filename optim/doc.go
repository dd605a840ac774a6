// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Epoch schedulers: StepLR, ExponentialLR, CosineAnnealingLR, ConstantLR
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/multilabel/optim"
//	)
//
//	func main() {
//	    opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//	    sched := optim.NewStepLR(opt, 10, 0.5)
//
//	    for epoch := 0; epoch < epochs; epoch++ {
//	        // ... backward, then opt.Step() per batch
//	        sched.Step()
//	    }
//	}
package optim
