package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.NoError(t, s.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.True(t, s.Equal(s.Clone()))
	assert.False(t, s.Equal(Shape{2, 3}))
}

func TestFromSlice(t *testing.T) {
	x, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 6.0, x.At(1, 2))
	assert.Equal(t, []float64{4, 5, 6}, x.Row(1))

	_, err = FromSlice([]float64{1, 2}, Shape{3})
	assert.Error(t, err)
}

func TestCloneDetachTo(t *testing.T) {
	x := MustFromSlice([]float64{1, 2}, Shape{2}).RequireGrad()
	x.SetGrad(Ones(Shape{2}))

	c := x.Clone()
	c.Set(9, 0)
	assert.Equal(t, 1.0, x.At(0), "clone does not share memory")
	assert.Nil(t, c.Grad())
	assert.False(t, c.RequiresGrad())

	d := x.Detach()
	d.Set(7, 0)
	assert.Equal(t, 7.0, x.At(0), "detach shares memory")
	assert.False(t, d.RequiresGrad())

	assert.Same(t, x, x.To(CPU))
	moved := x.To(CUDA)
	assert.Equal(t, CUDA, moved.Device())
	assert.Equal(t, x.Data(), moved.Data())
}

func TestThreshold(t *testing.T) {
	x := MustFromSlice([]float64{0.49, 0.5, 0.51, 0.0}, Shape{2, 2})
	tests := []struct {
		name   string
		cutoff float64
		want   []float64
	}{
		{"half is inclusive", 0.5, []float64{0, 1, 1, 0}},
		{"zero cutoff", 0, []float64{1, 1, 1, 1}},
		{"high cutoff", 0.9, []float64{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Threshold(x, tt.cutoff).Data())
		})
	}
	assert.Equal(t, 0.49, x.At(0, 0), "input untouched")
}

func TestCountEqual(t *testing.T) {
	a := MustFromSlice([]float64{1, 0, 1, 1}, Shape{2, 2})
	b := MustFromSlice([]float64{1, 1, 1, 0}, Shape{2, 2})
	assert.Equal(t, 2, CountEqual(a, b))
	assert.Panics(t, func() { CountEqual(a, Zeros(Shape{4})) })
}

func TestConcat(t *testing.T) {
	a := Zeros(Shape{2, 3})
	b := Ones(Shape{1, 3})
	c, err := Concat([]*Tensor{a, b})
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 3}, c.Shape())
	assert.Equal(t, 3.0, Sum(c))

	_, err = Concat(nil)
	assert.Error(t, err)
	_, err = Concat([]*Tensor{a, Zeros(Shape{1, 2})})
	assert.Error(t, err)
}

func TestFromRows(t *testing.T) {
	x, err := FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2}, x.Shape())

	_, err = FromRows([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestReshape(t *testing.T) {
	x := MustFromSlice([]float64{1, 2, 3, 4}, Shape{4})
	y := x.Reshape(2, 2)
	assert.Equal(t, 3.0, y.At(1, 0))
	assert.Panics(t, func() { x.Reshape(3) })
}
