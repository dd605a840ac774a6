package autodiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/multilabel/internal/autodiff"
	"github.com/born-ml/multilabel/internal/backend/cpu"
	"github.com/born-ml/multilabel/internal/profile"
	"github.com/born-ml/multilabel/internal/tensor"
)

func TestBackward_SquareViaMul(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.SetGradEnabled(true)

	x := tensor.MustFromSlice([]float64{3}, tensor.Shape{1}).RequireGrad()
	y := backend.Mul(x, x) // y = x², dy/dx = 2x

	require.NoError(t, backend.Backward(y))
	require.NotNil(t, x.Grad())
	assert.InDelta(t, 6.0, x.Grad().Item(), 1e-12)
	assert.Equal(t, 0, backend.Tape().NumOps(), "tape is cleared after backward")
}

func TestBackward_AccumulatesAcrossCalls(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.SetGradEnabled(true)

	x := tensor.MustFromSlice([]float64{2}, tensor.Shape{1}).RequireGrad()

	require.NoError(t, backend.Backward(backend.MulScalar(x, 3)))
	require.NoError(t, backend.Backward(backend.MulScalar(x, 3)))
	assert.InDelta(t, 6.0, x.Grad().Item(), 1e-12)

	x.SetGrad(nil)
	assert.Nil(t, x.Grad())
}

func TestBackward_NothingRecorded(t *testing.T) {
	backend := autodiff.New(cpu.New())
	x := tensor.MustFromSlice([]float64{2}, tensor.Shape{1}).RequireGrad()

	loss := backend.MulScalar(x, 3) // tracking disabled
	assert.ErrorIs(t, backend.Backward(loss), autodiff.ErrNothingRecorded)
}

func TestSetGradEnabled_DisableClearsTape(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.SetGradEnabled(true)
	x := tensor.Ones(tensor.Shape{2})
	backend.Add(x, x)
	require.Equal(t, 1, backend.Tape().NumOps())

	backend.SetGradEnabled(false)
	assert.False(t, backend.GradEnabled())
	assert.Equal(t, 0, backend.Tape().NumOps())

	backend.Add(x, x)
	assert.Equal(t, 0, backend.Tape().NumOps())
}

// linearSigmoidBCE builds loss = BCE(sigmoid(x @ w^T + b), y).
func linearSigmoidBCE(backend tensor.Backend, x, w, b, y *tensor.Tensor) *tensor.Tensor {
	logits := backend.AddRow(backend.MatMul(x, backend.Transpose(w)), b)
	return backend.BinaryCrossEntropy(backend.Sigmoid(logits), y)
}

func TestBackward_MatchesFiniteDifferences(t *testing.T) {
	x := tensor.MustFromSlice([]float64{0.5, -1, 2, 0.1, 0.3, -0.7}, tensor.Shape{2, 3})
	y := tensor.MustFromSlice([]float64{1, 0, 0, 1}, tensor.Shape{2, 2})
	w := tensor.MustFromSlice([]float64{0.2, -0.1, 0.4, -0.3, 0.25, 0.05}, tensor.Shape{2, 3}).RequireGrad()
	b := tensor.MustFromSlice([]float64{0.1, -0.2}, tensor.Shape{2}).RequireGrad()

	backend := autodiff.New(cpu.New())
	backend.SetGradEnabled(true)
	require.NoError(t, backend.Backward(linearSigmoidBCE(backend, x, w, b, y)))

	plain := cpu.New()
	const h = 1e-6
	for _, param := range []*tensor.Tensor{w, b} {
		grad := param.Grad()
		require.NotNil(t, grad)
		for i := range param.Data() {
			orig := param.Data()[i]
			param.Data()[i] = orig + h
			up := linearSigmoidBCE(plain, x, w, b, y).Item()
			param.Data()[i] = orig - h
			down := linearSigmoidBCE(plain, x, w, b, y).Item()
			param.Data()[i] = orig

			numeric := (up - down) / (2 * h)
			assert.InDelta(t, numeric, grad.Data()[i], 1e-6, "element %d", i)
		}
	}
}

func TestBackward_ReLUAndMSE(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.SetGradEnabled(true)

	x := tensor.MustFromSlice([]float64{-1, 2}, tensor.Shape{2}).RequireGrad()
	target := tensor.Zeros(tensor.Shape{2})
	loss := backend.MeanSquaredError(backend.ReLU(x), target)
	require.NoError(t, backend.Backward(loss))

	// d/dx mean(relu(x)²) = relu'(x) * 2*relu(x)/2
	assert.InDelta(t, 0.0, x.Grad().Data()[0], 1e-12)
	assert.InDelta(t, 2.0, x.Grad().Data()[1], 1e-12)
	assert.False(t, math.IsNaN(loss.Item()))
}

func TestInstrument_RecordsOps(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rec := profile.Start("test")
	restore := backend.Instrument(rec)

	x := tensor.Ones(tensor.Shape{2, 2})
	backend.Sigmoid(backend.MatMul(x, x))
	restore()
	backend.ReLU(x) // not recorded

	prof := rec.Stop()
	require.Len(t, prof.Events, 2)
	assert.Equal(t, "matmul", prof.Events[0].Name)
	assert.Equal(t, "sigmoid", prof.Events[1].Name)
	assert.Equal(t, int64(32), prof.Events[0].Bytes)
}
