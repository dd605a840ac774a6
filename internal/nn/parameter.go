package nn

import (
	"github.com/born-ml/multilabel/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are tensors that require gradient computation during training.
// The gradient lives on the tensor itself; the autodiff backend fills it in
// during Backward and ZeroGrad resets it to the "no gradient" state.
//
// Example:
//
//	weight := nn.NewParameter("fc1.weight", weightTensor)
//	w := weight.Tensor()
//	grad := weight.Grad() // nil until the first backward pass
type Parameter struct {
	name   string         // Fully qualified name (e.g. "trunk.0.weight")
	tensor *tensor.Tensor // The parameter tensor
}

// NewParameter creates a new trainable parameter and marks its tensor for
// gradient computation.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t.RequireGrad(),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Grad returns the gradient tensor.
//
// Returns nil if no gradient has been computed since the last ZeroGrad.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.tensor.Grad()
}

// ZeroGrad puts the parameter in the "no gradient" state.
//
// The gradient is dropped rather than filled with zeros; the next backward pass
// allocates a fresh one.
func (p *Parameter) ZeroGrad() {
	p.tensor.SetGrad(nil)
}
