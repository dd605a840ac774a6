package tensor

import "fmt"

// Zeros creates a tensor filled with zeros on the CPU.
func Zeros(shape Shape) *Tensor {
	return New(shape, CPU)
}

// Ones creates a tensor filled with ones on the CPU.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with value on the CPU.
func Full(shape Shape, value float64) *Tensor {
	t := New(shape, CPU)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Scalar creates a single-element tensor with shape [1].
func Scalar(value float64) *Tensor {
	return Full(Shape{1}, value)
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t := New(shape, CPU)
	copy(t.data, data)
	return t, nil
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice(data []float64, shape Shape) *Tensor {
	t, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return t
}

// FromRows stacks equally sized rows into a [len(rows), len(rows[0])] tensor.
func FromRows(rows [][]float64) (*Tensor, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("from rows: no rows")
	}
	cols := len(rows[0])
	t := New(Shape{len(rows), cols}, CPU)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("from rows: row %d has %d values, want %d", i, len(row), cols)
		}
		copy(t.data[i*cols:], row)
	}
	return t, nil
}
