// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient tracking
// through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: records operations while gradient tracking is enabled
//   - Operation interface: each op implements its backward pass
//   - Backward: reverse-mode AD that accumulates into the Grad of every leaf
//     tensor marked with RequireGrad (model parameters)
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.SetGradEnabled(true)
//	w := tensor.Full(tensor.Shape{2, 2}, 0.5).RequireGrad()
//	loss := backend.MeanSquaredError(backend.MatMul(x, w), y)
//	if err := backend.Backward(loss); err != nil {
//	    return err
//	}
//	fmt.Println(w.Grad())
package autodiff

import (
	"errors"
	"time"

	"github.com/born-ml/multilabel/internal/profile"
	"github.com/born-ml/multilabel/internal/tensor"
)

// ErrNothingRecorded is returned by Backward when the tape is empty, usually
// because gradient tracking was disabled during the forward pass.
var ErrNothingRecorded = errors.New("backward: no operations recorded (is gradient tracking enabled?)")

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner    B                 // Wrapped backend
	tape     *GradientTape     // Records operations for backpropagation
	profiler *profile.Recorder // Receives per-op timings while instrumented
}

// New creates a new AutodiffBackend wrapping the given backend.
// Gradient tracking starts disabled.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// SetGradEnabled turns operation recording on or off.
//
// Disabling also drops anything already on the tape, so an inference pass
// never holds on to a graph.
func (b *AutodiffBackend[B]) SetGradEnabled(enabled bool) {
	if enabled {
		b.tape.StartRecording()
		return
	}
	b.tape.StopRecording()
	b.tape.Clear()
}

// GradEnabled reports whether operations are currently recorded.
func (b *AutodiffBackend[B]) GradEnabled() bool {
	return b.tape.IsRecording()
}

// Backward computes gradients of loss and accumulates them into the Grad of
// every recorded tensor that requires gradients. The tape is cleared afterwards.
//
// Returns ErrNothingRecorded if no operation was recorded.
func (b *AutodiffBackend[B]) Backward(loss *tensor.Tensor) error {
	if b.tape.NumOps() == 0 {
		return ErrNothingRecorded
	}
	defer b.tape.Clear()

	done := b.trace("backward")
	grads := b.tape.Backward(loss, b.inner)
	for t, g := range grads {
		if !t.RequiresGrad() {
			continue
		}
		if existing := t.Grad(); existing != nil {
			t.SetGrad(b.inner.Add(existing, g))
		} else {
			t.SetGrad(g)
		}
	}
	done(loss)
	return nil
}

// Instrument routes per-op timings to rec until the returned restore function
// is called. Passing nil disables instrumentation.
func (b *AutodiffBackend[B]) Instrument(rec *profile.Recorder) (restore func()) {
	prev := b.profiler
	b.profiler = rec
	return func() { b.profiler = prev }
}

// trace starts timing op when instrumented. The returned func records the
// elapsed time and the size of the produced tensor.
func (b *AutodiffBackend[B]) trace(op string) func(out *tensor.Tensor) {
	rec := b.profiler
	if rec == nil {
		return noTrace
	}
	start := time.Now()
	return func(out *tensor.Tensor) {
		rec.RecordOp(op, time.Since(start), int64(out.NumElements())*8)
	}
}

func noTrace(*tensor.Tensor) {}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(a, c *tensor.Tensor) *tensor.Tensor {
	done := b.trace("matmul")
	result := b.inner.MatMul(a, c)
	done(result)
	b.tape.Record(&MatMulOp{node{[]*tensor.Tensor{a, c}, result}})
	return result
}

// Transpose swaps the dimensions of a 2-D tensor and records the operation.
func (b *AutodiffBackend[B]) Transpose(a *tensor.Tensor) *tensor.Tensor {
	done := b.trace("transpose")
	result := b.inner.Transpose(a)
	done(result)
	b.tape.Record(&TransposeOp{node{[]*tensor.Tensor{a}, result}})
	return result
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.Tensor) *tensor.Tensor {
	done := b.trace("add")
	result := b.inner.Add(a, c)
	done(result)
	b.tape.Record(&AddOp{node{[]*tensor.Tensor{a, c}, result}})
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.Tensor) *tensor.Tensor {
	done := b.trace("sub")
	result := b.inner.Sub(a, c)
	done(result)
	b.tape.Record(&SubOp{node{[]*tensor.Tensor{a, c}, result}})
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.Tensor) *tensor.Tensor {
	done := b.trace("mul")
	result := b.inner.Mul(a, c)
	done(result)
	b.tape.Record(&MulOp{node{[]*tensor.Tensor{a, c}, result}})
	return result
}

// AddRow broadcasts row over x and records the operation.
func (b *AutodiffBackend[B]) AddRow(x, row *tensor.Tensor) *tensor.Tensor {
	done := b.trace("add_row")
	result := b.inner.AddRow(x, row)
	done(result)
	b.tape.Record(&AddRowOp{node{[]*tensor.Tensor{x, row}, result}})
	return result
}

// SumRows sums over rows and records the operation.
func (b *AutodiffBackend[B]) SumRows(x *tensor.Tensor) *tensor.Tensor {
	done := b.trace("sum_rows")
	result := b.inner.SumRows(x)
	done(result)
	b.tape.Record(&SumRowsOp{node{[]*tensor.Tensor{x}, result}})
	return result
}

// MulScalar scales x and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.Tensor, scalar float64) *tensor.Tensor {
	done := b.trace("mul_scalar")
	result := b.inner.MulScalar(x, scalar)
	done(result)
	b.tape.Record(&MulScalarOp{node: node{[]*tensor.Tensor{x}, result}, scalar: scalar})
	return result
}

// ReLU applies the ReLU activation and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.Tensor) *tensor.Tensor {
	done := b.trace("relu")
	result := b.inner.ReLU(x)
	done(result)
	b.tape.Record(&ReLUOp{node{[]*tensor.Tensor{x}, result}})
	return result
}

// Sigmoid applies the sigmoid activation and records the operation.
func (b *AutodiffBackend[B]) Sigmoid(x *tensor.Tensor) *tensor.Tensor {
	done := b.trace("sigmoid")
	result := b.inner.Sigmoid(x)
	done(result)
	b.tape.Record(&SigmoidOp{node{[]*tensor.Tensor{x}, result}})
	return result
}

// BinaryCrossEntropy computes the mean BCE loss and records the operation.
func (b *AutodiffBackend[B]) BinaryCrossEntropy(pred, target *tensor.Tensor) *tensor.Tensor {
	done := b.trace("binary_cross_entropy")
	result := b.inner.BinaryCrossEntropy(pred, target)
	done(result)
	b.tape.Record(&BCEOp{node{[]*tensor.Tensor{pred, target}, result}})
	return result
}

// MeanSquaredError computes the mean squared error and records the operation.
func (b *AutodiffBackend[B]) MeanSquaredError(pred, target *tensor.Tensor) *tensor.Tensor {
	done := b.trace("mse")
	result := b.inner.MeanSquaredError(pred, target)
	done(result)
	b.tape.Record(&MSEOp{node{[]*tensor.Tensor{pred, target}, result}})
	return result
}
