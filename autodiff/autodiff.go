// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation (backpropagation)
// using a gradient tape. It wraps any backend to add autodiff capabilities.
//
// Example:
//
//	import (
//	    "github.com/born-ml/multilabel/autodiff"
//	    "github.com/born-ml/multilabel/backend/cpu"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    // Parameters created with RequireGrad receive gradients.
//	    loss := backend.BinaryCrossEntropy(model.Forward(x), y)
//	    if err := backend.Backward(loss); err != nil {
//	        log.Fatal(err)
//	    }
//	}
package autodiff

import (
	"github.com/born-ml/multilabel/internal/autodiff"
	"github.com/born-ml/multilabel/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// ErrNothingRecorded is returned by Backward when no operation was recorded.
var ErrNothingRecorded = autodiff.ErrNothingRecorded
