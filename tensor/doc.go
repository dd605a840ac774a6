// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensors used by multilabel.
//
// # Overview
//
// Tensors hold row-major float64 data with a Shape and a Device tag. Batches
// are 2-D: [samples, features] for inputs and [samples, classes] for labels,
// predictions and scores.
//
// # Basic Usage
//
//	import "github.com/born-ml/multilabel/tensor"
//
//	func main() {
//	    scores := tensor.MustFromSlice([]float64{0.2, 0.5, 0.9, 0.4}, tensor.Shape{2, 2})
//
//	    // Multi-label predictions: every score >= 0.5 becomes 1.
//	    preds := tensor.Threshold(scores, 0.5) // [[0 1] [1 0]]
//
//	    labels := tensor.MustFromSlice([]float64{0, 1, 1, 1}, tensor.Shape{2, 2})
//	    correct := tensor.CountEqual(preds, labels) // 3
//	}
//
// # Device Support
//
// Every tensor carries a Device. Only the CPU backend computes in this build;
// other devices are placement tags that keep host memory.
package tensor
