package tensor

import "fmt"

// Threshold returns a new tensor where every element >= cutoff is 1 and every
// other element is 0. Each element is decided independently (multi-label
// thresholding, not argmax).
//
// The input is left untouched; the result lives on the input's device and never
// tracks gradients.
func Threshold(t *Tensor, cutoff float64) *Tensor {
	out := t.Clone()
	for i, v := range out.data {
		if v >= cutoff {
			out.data[i] = 1
		} else {
			out.data[i] = 0
		}
	}
	return out
}

// CountEqual returns the number of positions where a and b hold the same value.
// Panics if the shapes differ.
func CountEqual(a, b *Tensor) int {
	if !a.shape.Equal(b.shape) {
		panic(fmt.Sprintf("count equal: shape mismatch %v vs %v", a.shape, b.shape))
	}
	n := 0
	for i, v := range a.data {
		if v == b.data[i] {
			n++
		}
	}
	return n
}

// Concat concatenates tensors along the leading dimension.
//
// All tensors must agree on every trailing dimension. The result is a fresh tensor
// on the device of the first input.
//
// Example:
//
//	a := tensor.Zeros(tensor.Shape{2, 3})
//	b := tensor.Ones(tensor.Shape{4, 3})
//	c, _ := tensor.Concat([]*tensor.Tensor{a, b}) // shape [6, 3]
func Concat(tensors []*Tensor) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("concat: no tensors")
	}
	first := tensors[0].shape
	if len(first) == 0 {
		return nil, fmt.Errorf("concat: cannot concatenate scalars")
	}
	rows := 0
	for i, t := range tensors {
		s := t.shape
		if len(s) != len(first) || !s[1:].Equal(first[1:]) {
			return nil, fmt.Errorf("concat: tensor %d has shape %v, incompatible with %v", i, s, first)
		}
		rows += s[0]
	}
	shape := first.Clone()
	shape[0] = rows
	out := New(shape, tensors[0].device)
	off := 0
	for _, t := range tensors {
		off += copy(out.data[off:], t.data)
	}
	return out, nil
}

// Sum returns the sum of all elements.
func Sum(t *Tensor) float64 {
	var s float64
	for _, v := range t.data {
		s += v
	}
	return s
}
