// Package cpu implements the CPU compute backend.
//
// Matrix products go through gonum's BLAS implementation; element-wise kernels
// are split across physical cores with internal/parallel.
package cpu

import (
	"fmt"
	"math"

	"github.com/klauspost/cpuid/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/multilabel/internal/parallel"
	"github.com/born-ml/multilabel/internal/tensor"
)

// logFloor bounds log(p) for BCE so a saturated prediction yields a finite loss.
const logFloor = -100

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.DefaultConfig(),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Describe returns a one-line description of the host CPU, e.g.
// "Intel(R) Xeon(R) ... (8 cores, AVX2 FMA3)".
func (cpu *CPUBackend) Describe() string {
	feats := ""
	for _, f := range []cpuid.FeatureID{cpuid.AVX512F, cpuid.AVX2, cpuid.FMA3, cpuid.ASIMD} {
		if cpuid.CPU.Supports(f) {
			if feats != "" {
				feats += " "
			}
			feats += f.String()
		}
	}
	if feats == "" {
		feats = "scalar"
	}
	return fmt.Sprintf("%s (%d cores, %s)", cpuid.CPU.BrandName, cpu.parallel.NumWorkers, feats)
}

// MatMul performs [m,k] @ [k,n] -> [m,n].
func (cpu *CPUBackend) MatMul(a, b *tensor.Tensor) *tensor.Tensor {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 || as[1] != bs[0] {
		panic(fmt.Sprintf("matmul: incompatible shapes %v and %v", as, bs))
	}
	out := tensor.New(tensor.Shape{as[0], bs[1]}, cpu.device)
	am := mat.NewDense(as[0], as[1], a.Data())
	bm := mat.NewDense(bs[0], bs[1], b.Data())
	om := mat.NewDense(as[0], bs[1], out.Data())
	om.Mul(am, bm)
	return out
}

// Transpose swaps the two dimensions of a 2-D tensor.
func (cpu *CPUBackend) Transpose(a *tensor.Tensor) *tensor.Tensor {
	s := a.Shape()
	if len(s) != 2 {
		panic(fmt.Sprintf("transpose: expected 2-D tensor, got %v", s))
	}
	out := tensor.New(tensor.Shape{s[1], s[0]}, cpu.device)
	om := mat.NewDense(s[1], s[0], out.Data())
	om.Copy(mat.NewDense(s[0], s[1], a.Data()).T())
	return out
}

// Add performs element-wise addition of equally shaped tensors.
func (cpu *CPUBackend) Add(a, b *tensor.Tensor) *tensor.Tensor {
	return cpu.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction of equally shaped tensors.
func (cpu *CPUBackend) Sub(a, b *tensor.Tensor) *tensor.Tensor {
	return cpu.binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication of equally shaped tensors.
func (cpu *CPUBackend) Mul(a, b *tensor.Tensor) *tensor.Tensor {
	return cpu.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// AddRow adds a [n] vector to every row of an [m,n] tensor.
func (cpu *CPUBackend) AddRow(x, row *tensor.Tensor) *tensor.Tensor {
	cols := x.Shape().Cols()
	if row.NumElements() != cols {
		panic(fmt.Sprintf("add row: row of %d elements cannot broadcast over %v", row.NumElements(), x.Shape()))
	}
	out := tensor.New(x.Shape(), cpu.device)
	r := row.Data()
	for i := 0; i < x.Shape().Rows(); i++ {
		floats.AddTo(out.Row(i), x.Row(i), r)
	}
	return out
}

// SumRows reduces an [m,n] tensor to [n] by summing over rows.
func (cpu *CPUBackend) SumRows(x *tensor.Tensor) *tensor.Tensor {
	cols := x.Shape().Cols()
	out := tensor.New(tensor.Shape{cols}, cpu.device)
	acc := out.Data()
	for i := 0; i < x.Shape().Rows(); i++ {
		floats.Add(acc, x.Row(i))
	}
	return out
}

// MulScalar multiplies every element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.Tensor, scalar float64) *tensor.Tensor {
	return cpu.unary(x, func(v float64) float64 { return v * scalar })
}

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, func(v float64) float64 { return math.Max(0, v) })
}

// Sigmoid computes 1 / (1 + exp(-x)) element-wise.
func (cpu *CPUBackend) Sigmoid(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, sigmoid)
}

// BinaryCrossEntropy computes mean(-(y*log(p) + (1-y)*log(1-p))) over every element.
//
// pred holds probabilities in [0, 1]; log terms are floored at -100 so a
// saturated prediction gives a large but finite loss.
func (cpu *CPUBackend) BinaryCrossEntropy(pred, target *tensor.Tensor) *tensor.Tensor {
	checkSameShape("binary cross entropy", pred, target)
	p, y := pred.Data(), target.Data()
	var sum float64
	for i := range p {
		sum -= y[i]*clampedLog(p[i]) + (1-y[i])*clampedLog(1-p[i])
	}
	return scalarOn(sum/float64(len(p)), cpu.device)
}

// MeanSquaredError computes mean((pred - target)²) over every element.
func (cpu *CPUBackend) MeanSquaredError(pred, target *tensor.Tensor) *tensor.Tensor {
	checkSameShape("mean squared error", pred, target)
	p, y := pred.Data(), target.Data()
	var sum float64
	for i := range p {
		d := p[i] - y[i]
		sum += d * d
	}
	return scalarOn(sum/float64(len(p)), cpu.device)
}

func (cpu *CPUBackend) unary(x *tensor.Tensor, f func(float64) float64) *tensor.Tensor {
	out := tensor.New(x.Shape(), cpu.device)
	src, dst := x.Data(), out.Data()
	parallel.ForRange(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(src[i])
		}
	}, cpu.parallel)
	return out
}

func (cpu *CPUBackend) binary(op string, a, b *tensor.Tensor, f func(x, y float64) float64) *tensor.Tensor {
	checkSameShape(op, a, b)
	out := tensor.New(a.Shape(), cpu.device)
	x, y, dst := a.Data(), b.Data(), out.Data()
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(x[i], y[i])
		}
	}, cpu.parallel)
	return out
}

func checkSameShape(op string, a, b *tensor.Tensor) {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.Shape(), b.Shape()))
	}
}

func scalarOn(v float64, device tensor.Device) *tensor.Tensor {
	out := tensor.New(tensor.Shape{1}, device)
	out.Data()[0] = v
	return out
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func clampedLog(v float64) float64 {
	if v <= 0 {
		return logFloor
	}
	return math.Max(math.Log(v), logFloor)
}
