// Package optim implements optimization algorithms and learning-rate schedules.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//   - Scheduler interface and epoch-based schedules (StepLR, ExponentialLR,
//     CosineAnnealingLR, ConstantLR)
//
// Optimizers read gradients from the parameters themselves, so a training step is:
//
//	optimizer.ZeroGrad()
//	backend.SetGradEnabled(true)
//	loss := criterion.Forward(model.Forward(x), y)
//	if err := backend.Backward(loss); err != nil {
//	    return err
//	}
//	optimizer.Step()
//
// and once per epoch:
//
//	scheduler.Step()
package optim

import (
	"github.com/born-ml/multilabel/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to every parameter that has a gradient.
	// Parameters whose gradient is nil are skipped.
	Step()

	// ZeroGrad puts every parameter in the "no gradient" state.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate (used by schedulers).
	SetLR(lr float64)
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

func zeroGrad(params []*nn.Parameter) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
