// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks for multi-label models.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, ReLU, Sigmoid, Sequential
//   - Losses: BCELoss (multi-label), MSELoss
//   - MultiLabelNet: an MLP with sigmoid outputs and an optional auxiliary head
//   - StateDict: parameter snapshots for checkpointing
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/multilabel/autodiff"
//	    "github.com/born-ml/multilabel/backend/cpu"
//	    "github.com/born-ml/multilabel/nn"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    model := nn.NewMultiLabelNet(nn.NetConfig{
//	        InFeatures: 256,
//	        NumClasses: 8,
//	        Hidden:     []int{128, 64},
//	        AuxHead:    true,
//	    }, backend)
//	    criterion := nn.NewBCELoss(backend)
//
//	    best := model.StateDict().Clone() // value copy
//	    ...
//	    _ = model.LoadStateDict(best)
//	}
package nn
