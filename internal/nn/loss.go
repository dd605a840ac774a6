package nn

import (
	"fmt"

	"github.com/born-ml/multilabel/internal/tensor"
)

// BCELoss computes mean binary cross-entropy between predicted probabilities
// and multi-hot targets:
//
//	Loss = mean(-(y*log(p) + (1-y)*log(1-p)))
//
// It is the standard criterion for multi-label classification with a sigmoid
// output layer: every class is an independent binary decision.
//
// Example:
//
//	criterion := nn.NewBCELoss(backend)
//	loss := criterion.Forward(model.Forward(x), labels)
type BCELoss struct {
	backend tensor.Backend
}

// NewBCELoss creates a new BCE loss function.
func NewBCELoss(backend tensor.Backend) *BCELoss {
	return &BCELoss{backend: backend}
}

// Forward computes the BCE loss. Returns a scalar tensor with shape [1].
func (l *BCELoss) Forward(predictions, targets *tensor.Tensor) *tensor.Tensor {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("BCELoss: predictions %v and targets %v must have the same shape",
			predictions.Shape(), targets.Shape()))
	}
	return l.backend.BinaryCrossEntropy(predictions, targets)
}

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
type MSELoss struct {
	backend tensor.Backend
}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss(backend tensor.Backend) *MSELoss {
	return &MSELoss{backend: backend}
}

// Forward computes the MSE loss. Returns a scalar tensor with shape [1].
func (m *MSELoss) Forward(predictions, targets *tensor.Tensor) *tensor.Tensor {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}
	return m.backend.MeanSquaredError(predictions, targets)
}
