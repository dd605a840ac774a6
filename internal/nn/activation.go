package nn

import (
	"github.com/born-ml/multilabel/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
type ReLU struct {
	backend tensor.Backend
}

// NewReLU creates a new ReLU activation.
func NewReLU(backend tensor.Backend) *ReLU {
	return &ReLU{backend: backend}
}

// Forward applies ReLU.
func (r *ReLU) Forward(input *tensor.Tensor) *tensor.Tensor {
	return r.backend.ReLU(input)
}

// Parameters returns nil (no trainable parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}

// Sigmoid applies 1 / (1 + exp(-x)) element-wise.
//
// It turns per-class logits into independent per-class probabilities, which is
// what multi-label thresholding expects.
type Sigmoid struct {
	backend tensor.Backend
}

// NewSigmoid creates a new Sigmoid activation.
func NewSigmoid(backend tensor.Backend) *Sigmoid {
	return &Sigmoid{backend: backend}
}

// Forward applies the sigmoid.
func (s *Sigmoid) Forward(input *tensor.Tensor) *tensor.Tensor {
	return s.backend.Sigmoid(input)
}

// Parameters returns nil (no trainable parameters).
func (s *Sigmoid) Parameters() []*Parameter {
	return nil
}
