package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/multilabel/internal/tensor"
)

func TestMatMul(t *testing.T) {
	b := New()
	x := tensor.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	w := tensor.MustFromSlice([]float64{1, 0, 0, 1, 1, 1}, tensor.Shape{3, 2})

	out := b.MatMul(x, w)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float64{4, 5, 10, 11}, out.Data())

	assert.Panics(t, func() { b.MatMul(x, x) })
}

func TestTranspose(t *testing.T) {
	x := tensor.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out := New().Transpose(x)
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, out.Data())
}

func TestElementwise(t *testing.T) {
	b := New()
	x := tensor.MustFromSlice([]float64{-1, 2}, tensor.Shape{1, 2})
	y := tensor.MustFromSlice([]float64{3, 4}, tensor.Shape{1, 2})

	tests := []struct {
		name string
		got  *tensor.Tensor
		want []float64
	}{
		{"add", b.Add(x, y), []float64{2, 6}},
		{"sub", b.Sub(x, y), []float64{-4, -2}},
		{"mul", b.Mul(x, y), []float64{-3, 8}},
		{"mul scalar", b.MulScalar(x, 0.5), []float64{-0.5, 1}},
		{"relu", b.ReLU(x), []float64{0, 2}},
		{"add row", b.AddRow(x, tensor.MustFromSlice([]float64{1, 1}, tensor.Shape{2})), []float64{0, 3}},
		{"sum rows", b.SumRows(tensor.MustFromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})), []float64{4, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got.Data())
		})
	}

	assert.Panics(t, func() { b.Add(x, tensor.Zeros(tensor.Shape{2, 1})) })
}

func TestSigmoid(t *testing.T) {
	out := New().Sigmoid(tensor.MustFromSlice([]float64{0, 100, -100}, tensor.Shape{3}))
	assert.InDelta(t, 0.5, out.At(0), 1e-12)
	assert.InDelta(t, 1.0, out.At(1), 1e-12)
	assert.InDelta(t, 0.0, out.At(2), 1e-12)
}

func TestLosses(t *testing.T) {
	b := New()
	pred := tensor.MustFromSlice([]float64{0.6, 0.6}, tensor.Shape{1, 2})
	target := tensor.MustFromSlice([]float64{1, 0}, tensor.Shape{1, 2})

	bce := b.BinaryCrossEntropy(pred, target).Item()
	assert.InDelta(t, -(math.Log(0.6)+math.Log(0.4))/2, bce, 1e-12)

	mse := b.MeanSquaredError(pred, target).Item()
	assert.InDelta(t, (0.16+0.36)/2, mse, 1e-12)
}

func TestDescribe(t *testing.T) {
	b := New()
	assert.Equal(t, "CPU", b.Name())
	assert.Equal(t, tensor.CPU, b.Device())
	assert.NotEmpty(t, b.Describe())
}
