// Package nn implements neural network modules for multi-label classification.
//
// This package provides building blocks for constructing networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable parameters with gradient tracking
//   - Linear: Fully connected layer
//   - Activations: ReLU, Sigmoid
//   - Loss functions: BCE, MSE
//   - Sequential: Container for stacking layers
//   - MultiLabelNet: sigmoid-headed MLP with an optional auxiliary head
//   - StateDict: named parameter values for checkpointing
package nn

import (
	"github.com/born-ml/multilabel/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear("fc1", 64, 32, backend, rng),
//	    nn.NewReLU(backend),
//	    nn.NewLinear("fc2", 32, 5, backend, rng),
//	    nn.NewSigmoid(backend),
//	)
type Module interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor) *tensor.Tensor

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter
}
