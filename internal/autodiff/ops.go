package autodiff

import (
	"math"

	"github.com/born-ml/multilabel/internal/tensor"
)

// bceEps bounds p*(1-p) away from zero in the BCE gradient.
const bceEps = 1e-12

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns one gradient per input; nil means no gradient flows there
	// (e.g. loss targets).
	Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.Tensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.Tensor
}

// node holds the bookkeeping shared by every operation.
type node struct {
	inputs []*tensor.Tensor
	output *tensor.Tensor
}

func (n node) Inputs() []*tensor.Tensor { return n.inputs }
func (n node) Output() *tensor.Tensor    { return n.output }

// MatMulOp: d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad.
type MatMulOp struct{ node }

// Backward implements Operation.
func (op *MatMulOp) Backward(g *tensor.Tensor, b tensor.Backend) []*tensor.Tensor {
	a, c := op.inputs[0], op.inputs[1]
	return []*tensor.Tensor{
		b.MatMul(g, b.Transpose(c)),
		b.MatMul(b.Transpose(a), g),
	}
}

// TransposeOp: the gradient is transposed back.
type TransposeOp struct{ node }

// Backward implements Operation.
func (op *TransposeOp) Backward(g *tensor.Tensor, b tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{b.Transpose(g)}
}

// AddOp: gradient flows unchanged to both inputs.
type AddOp struct{ node }

// Backward implements Operation.
func (op *AddOp) Backward(g *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{g, g}
}

// SubOp: d(a-b)/da = 1, d(a-b)/db = -1.
type SubOp struct{ node }

// Backward implements Operation.
func (op *SubOp) Backward(g *tensor.Tensor, b tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{g, b.MulScalar(g, -1)}
}

// MulOp: d(a*b)/da = b, d(a*b)/db = a.
type MulOp struct{ node }

// Backward implements Operation.
func (op *MulOp) Backward(g *tensor.Tensor, b tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{b.Mul(g, op.inputs[1]), b.Mul(g, op.inputs[0])}
}

// AddRowOp: the row gradient is the column-wise sum of the output gradient.
type AddRowOp struct{ node }

// Backward implements Operation.
func (op *AddRowOp) Backward(g *tensor.Tensor, b tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{g, b.SumRows(g)}
}

// SumRowsOp: every row of the input receives the output gradient.
type SumRowsOp struct{ node }

// Backward implements Operation.
func (op *SumRowsOp) Backward(g *tensor.Tensor, b tensor.Backend) []*tensor.Tensor {
	zeros := tensor.New(op.inputs[0].Shape(), g.Device())
	return []*tensor.Tensor{b.AddRow(zeros, g)}
}

// MulScalarOp: d(s*x)/dx = s.
type MulScalarOp struct {
	node
	scalar float64
}

// Backward implements Operation.
func (op *MulScalarOp) Backward(g *tensor.Tensor, b tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{b.MulScalar(g, op.scalar)}
}

// ReLUOp: d(ReLU(x))/dx = 1 if x > 0, else 0.
type ReLUOp struct{ node }

// Backward implements Operation.
func (op *ReLUOp) Backward(g *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	out := tensor.New(g.Shape(), g.Device())
	x, gd, od := op.inputs[0].Data(), g.Data(), out.Data()
	for i := range od {
		if x[i] > 0 {
			od[i] = gd[i]
		}
	}
	return []*tensor.Tensor{out}
}

// SigmoidOp: dσ/dx = σ(x) * (1 - σ(x)), computed from the saved output.
type SigmoidOp struct{ node }

// Backward implements Operation.
func (op *SigmoidOp) Backward(g *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	out := tensor.New(g.Shape(), g.Device())
	s, gd, od := op.output.Data(), g.Data(), out.Data()
	for i := range od {
		od[i] = gd[i] * s[i] * (1 - s[i])
	}
	return []*tensor.Tensor{out}
}

// BCEOp: dL/dp = (p - y) / max(p*(1-p), eps) / N. Targets get no gradient.
type BCEOp struct{ node }

// Backward implements Operation.
func (op *BCEOp) Backward(g *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	pred, target := op.inputs[0], op.inputs[1]
	out := tensor.New(pred.Shape(), g.Device())
	p, y, od := pred.Data(), target.Data(), out.Data()
	scale := g.Item() / float64(len(p))
	for i := range od {
		od[i] = scale * (p[i] - y[i]) / math.Max(p[i]*(1-p[i]), bceEps)
	}
	return []*tensor.Tensor{out, nil}
}

// MSEOp: dL/dp = 2 * (p - y) / N. Targets get no gradient.
type MSEOp struct{ node }

// Backward implements Operation.
func (op *MSEOp) Backward(g *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	pred, target := op.inputs[0], op.inputs[1]
	out := tensor.New(pred.Shape(), g.Device())
	p, y, od := pred.Data(), target.Data(), out.Data()
	scale := 2 * g.Item() / float64(len(p))
	for i := range od {
		od[i] = scale * (p[i] - y[i])
	}
	return []*tensor.Tensor{out, nil}
}
