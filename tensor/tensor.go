// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/multilabel/internal/tensor"

// Tensor is a dense float64 tensor.
type Tensor = tensor.Tensor

// Shape is the size of each tensor dimension.
type Shape = tensor.Shape

// Device identifies where a tensor lives.
type Device = tensor.Device

// Backend is the compute interface implemented by cpu.Backend and the
// autodiff wrapper.
type Backend = tensor.Backend

// Devices.
const (
	CPU    = tensor.CPU
	CUDA   = tensor.CUDA
	Vulkan = tensor.Vulkan
	Metal  = tensor.Metal
	WebGPU = tensor.WebGPU
)

// Zeros creates a zero-filled CPU tensor.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a CPU tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Full creates a CPU tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	return tensor.Full(shape, value)
}

// FromSlice creates a tensor from row-major data.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice(data []float64, shape Shape) *Tensor {
	return tensor.MustFromSlice(data, shape)
}

// FromRows stacks equally sized rows into a 2-D tensor.
func FromRows(rows [][]float64) (*Tensor, error) {
	return tensor.FromRows(rows)
}

// Threshold maps every element >= cutoff to 1 and every other element to 0.
func Threshold(t *Tensor, cutoff float64) *Tensor {
	return tensor.Threshold(t, cutoff)
}

// CountEqual returns the number of positions where a and b agree.
func CountEqual(a, b *Tensor) int {
	return tensor.CountEqual(a, b)
}

// Concat concatenates tensors along the leading dimension.
func Concat(tensors []*Tensor) (*Tensor, error) {
	return tensor.Concat(tensors)
}
