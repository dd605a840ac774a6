// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Matrix products through gonum's BLAS implementation
//   - Element-wise kernels split across physical cores
//   - Numerically guarded binary cross-entropy
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/multilabel/backend/cpu"
//	    "github.com/born-ml/multilabel/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    fmt.Println(backend.Describe()) // host CPU and SIMD features
//
//	    model := nn.NewMultiLabelNet(nn.NetConfig{InFeatures: 16, NumClasses: 4}, backend)
//	}
//
// Wrap the backend with autodiff.New to train.
package cpu
