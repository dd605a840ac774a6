// Package tensor provides the dense float64 tensor used by the multilabel framework.
package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a dense, row-major float64 tensor.
//
// Tensors optionally carry a gradient. Gradients are filled in by the autodiff
// backend for tensors marked with RequireGrad (model parameters) and cleared by
// setting them back to nil.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{32, 10})
//	x.Set(1, 0, 3)
//	row := x.Row(0)
type Tensor struct {
	data         []float64
	shape        Shape
	strides      []int
	device       Device
	grad         *Tensor // Gradient tensor (nil means "no gradient")
	requiresGrad bool    // Whether backward should accumulate into grad
}

// New creates a zero-filled tensor with the given shape on the given device.
// Panics if the shape is invalid.
func New(shape Shape, device Device) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return &Tensor{
		data:    make([]float64, shape.NumElements()),
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		device:  device,
	}
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Device returns the tensor's compute device.
func (t *Tensor) Device() Device {
	return t.device
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the underlying slice (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Item returns the value of a single-element tensor.
// Panics if the tensor holds more than one element.
func (t *Tensor) Item() float64 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", t.shape))
	}
	return t.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) Set(value float64, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	off := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		off += idx * t.strides[i]
	}
	return off
}

// Row returns a view of row i of a tensor with at least one dimension.
// The returned slice shares memory with the tensor.
func (t *Tensor) Row(i int) []float64 {
	cols := t.shape.Cols()
	return t.data[i*cols : (i+1)*cols]
}

// Reshape returns a tensor sharing the same data with a new shape.
// Panics if the element count changes.
func (t *Tensor) Reshape(shape ...int) *Tensor {
	s := Shape(shape)
	if s.NumElements() != len(t.data) {
		panic(fmt.Sprintf("reshape: cannot view %v as %v", t.shape, s))
	}
	return &Tensor{
		data:         t.data,
		shape:        s.Clone(),
		strides:      s.ComputeStrides(),
		device:       t.device,
		requiresGrad: t.requiresGrad,
	}
}

// Clone creates a deep copy of the tensor. Gradient state is not cloned.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{
		data:    data,
		shape:   t.shape.Clone(),
		strides: t.shape.ComputeStrides(),
		device:  t.device,
	}
}

// Detach returns a tensor that shares the same data but doesn't track gradients.
//
// Operations on the detached tensor are never recorded by the autodiff tape, which
// makes it the right form for bookkeeping copies (history buffers, metrics).
func (t *Tensor) Detach() *Tensor {
	return &Tensor{
		data:    t.data,
		shape:   t.shape,
		strides: t.strides,
		device:  t.device,
	}
}

// To returns the tensor placed on the given device.
//
// If the tensor already lives there it is returned as is. Otherwise a copy tagged
// with the target device is returned; all devices share host memory in this build.
func (t *Tensor) To(device Device) *Tensor {
	if t.device == device {
		return t
	}
	out := t.Clone()
	out.device = device
	out.requiresGrad = t.requiresGrad
	return out
}

// CopyFrom overwrites the tensor's values with src's values.
// Panics if the shapes differ.
func (t *Tensor) CopyFrom(src *Tensor) {
	if !t.shape.Equal(src.shape) {
		panic(fmt.Sprintf("copy: shape mismatch %v vs %v", t.shape, src.shape))
	}
	copy(t.data, src.data)
}

// Grad returns the gradient tensor, or nil when no gradient has been computed.
func (t *Tensor) Grad() *Tensor {
	return t.grad
}

// SetGrad sets the gradient tensor. Passing nil clears it.
func (t *Tensor) SetGrad(grad *Tensor) {
	t.grad = grad
}

// RequireGrad marks this tensor for gradient computation and returns it.
func (t *Tensor) RequireGrad() *Tensor {
	t.requiresGrad = true
	return t
}

// RequiresGrad returns true if this tensor requires gradient computation.
func (t *Tensor) RequiresGrad() bool {
	return t.requiresGrad
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tensor%v on %s", []int(t.shape), t.device)
	if len(t.data) <= 8 {
		fmt.Fprintf(&b, " %v", t.data)
	}
	return b.String()
}
