// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/multilabel/internal/nn"
	"github.com/born-ml/multilabel/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return nn.NewParameter(name, t)
}

// StateDict maps parameter names to tensors.
type StateDict = nn.StateDict

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
// A nil rng uses the global random source.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear("fc1", 784, 128, backend, nil)
func NewLinear(name string, inFeatures, outFeatures int, backend tensor.Backend, rng *rand.Rand) *Linear {
	return nn.NewLinear(name, inFeatures, outFeatures, backend, rng)
}

// ReLU applies max(0, x) element-wise.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation.
func NewReLU(backend tensor.Backend) *ReLU {
	return nn.NewReLU(backend)
}

// Sigmoid applies the logistic function element-wise.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new Sigmoid activation.
func NewSigmoid(backend tensor.Backend) *Sigmoid {
	return nn.NewSigmoid(backend)
}

// Sequential chains modules.
type Sequential = nn.Sequential

// NewSequential creates a container running modules in order.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Models

// NetConfig describes a MultiLabelNet.
type NetConfig = nn.NetConfig

// MultiLabelNet is a fully connected multi-label classifier.
type MultiLabelNet = nn.MultiLabelNet

// NewMultiLabelNet builds a network from config.
func NewMultiLabelNet(config NetConfig, backend tensor.Backend) *MultiLabelNet {
	return nn.NewMultiLabelNet(config, backend)
}

// Losses

// BCELoss is the mean binary cross-entropy over every (sample, class) position.
type BCELoss = nn.BCELoss

// NewBCELoss creates a binary cross-entropy criterion.
func NewBCELoss(backend tensor.Backend) *BCELoss {
	return nn.NewBCELoss(backend)
}

// MSELoss is the mean squared error.
type MSELoss = nn.MSELoss

// NewMSELoss creates a mean squared error criterion.
func NewMSELoss(backend tensor.Backend) *MSELoss {
	return nn.NewMSELoss(backend)
}
