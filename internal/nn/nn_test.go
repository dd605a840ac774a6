package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/multilabel/internal/autodiff"
	"github.com/born-ml/multilabel/internal/backend/cpu"
	"github.com/born-ml/multilabel/internal/nn"
	"github.com/born-ml/multilabel/internal/tensor"
)

func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear("fc", 3, 2, backend, nil)
	copy(layer.Weight().Tensor().Data(), []float64{1, 0, 0, 0, 1, 1})
	copy(layer.Bias().Tensor().Data(), []float64{0.5, -1})

	x := tensor.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := layer.Forward(x)

	require.Equal(t, tensor.Shape{2, 2}, y.Shape())
	assert.Equal(t, []float64{1.5, 4, 4.5, 10}, y.Data())
	assert.Equal(t, "fc.weight", layer.Parameters()[0].Name())
	assert.Equal(t, "fc.bias", layer.Parameters()[1].Name())
}

func TestLinear_ForwardRejectsWrongWidth(t *testing.T) {
	layer := nn.NewLinear("fc", 3, 2, cpu.New(), nil)
	assert.Panics(t, func() { layer.Forward(tensor.Zeros(tensor.Shape{2, 4})) })
}

func TestParameter_ZeroGradClearsToNil(t *testing.T) {
	p := nn.NewParameter("w", tensor.Ones(tensor.Shape{2}))
	assert.True(t, p.Tensor().RequiresGrad())

	p.Tensor().SetGrad(tensor.Ones(tensor.Shape{2}))
	require.NotNil(t, p.Grad())
	p.ZeroGrad()
	assert.Nil(t, p.Grad())
}

func TestBCELoss_KnownValue(t *testing.T) {
	criterion := nn.NewBCELoss(cpu.New())
	pred := tensor.Full(tensor.Shape{2, 3}, 0.6)
	target := tensor.Ones(tensor.Shape{2, 3})

	loss := criterion.Forward(pred, target)
	assert.InDelta(t, -math.Log(0.6), loss.Item(), 1e-12)
}

func TestBCELoss_SaturatedPredictionIsFinite(t *testing.T) {
	criterion := nn.NewBCELoss(cpu.New())
	pred := tensor.MustFromSlice([]float64{0, 1}, tensor.Shape{1, 2})
	target := tensor.MustFromSlice([]float64{1, 0}, tensor.Shape{1, 2})

	loss := criterion.Forward(pred, target)
	assert.InDelta(t, 100.0, loss.Item(), 1e-9)
}

func TestMSELoss(t *testing.T) {
	criterion := nn.NewMSELoss(cpu.New())
	loss := criterion.Forward(
		tensor.MustFromSlice([]float64{1, 3}, tensor.Shape{2}),
		tensor.MustFromSlice([]float64{0, 1}, tensor.Shape{2}),
	)
	assert.InDelta(t, 2.5, loss.Item(), 1e-12)
}

func TestStateDict_CloneIsIndependent(t *testing.T) {
	net := nn.NewMultiLabelNet(nn.NetConfig{InFeatures: 4, NumClasses: 3, Hidden: []int{5}, Seed: 7}, cpu.New())

	snapshot := net.StateDict().Clone()
	net.Parameters()[0].Tensor().Data()[0] += 10

	assert.NotEqual(t, snapshot["trunk.0.weight"].Data()[0], net.StateDict()["trunk.0.weight"].Data()[0])
	assert.False(t, snapshot["trunk.0.weight"].RequiresGrad())

	require.NoError(t, net.LoadStateDict(snapshot))
	assert.Equal(t, snapshot["trunk.0.weight"].Data(), net.StateDict()["trunk.0.weight"].Data())
}

func TestLoadState_Validation(t *testing.T) {
	net := nn.NewMultiLabelNet(nn.NetConfig{InFeatures: 2, NumClasses: 2, Seed: 1}, cpu.New())

	tests := []struct {
		name    string
		mutate  func(nn.StateDict)
		wantErr string
	}{
		{"missing", func(sd nn.StateDict) { delete(sd, "head.bias") }, "missing parameter"},
		{"shape", func(sd nn.StateDict) { sd["head.bias"] = tensor.Zeros(tensor.Shape{3}) }, "has shape"},
		{"extra", func(sd nn.StateDict) { sd["ghost"] = tensor.Zeros(tensor.Shape{1}) }, "unexpected parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := net.StateDict().Clone()
			sd := net.StateDict().Clone()
			sd["head.weight"].Data()[0] = 42
			tt.mutate(sd)

			err := net.LoadStateDict(sd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, before["head.weight"].Data(), net.StateDict()["head.weight"].Data(), "nothing written on error")
		})
	}
}

func TestMultiLabelNet_AuxOnlyInTraining(t *testing.T) {
	net := nn.NewMultiLabelNet(nn.NetConfig{InFeatures: 4, NumClasses: 3, Hidden: []int{6, 5}, AuxHead: true, Seed: 3}, cpu.New())
	x := tensor.Full(tensor.Shape{2, 4}, 0.5)

	out, aux := net.ForwardAux(x)
	require.NotNil(t, aux)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, tensor.Shape{2, 3}, aux.Shape())
	for _, v := range out.Data() {
		assert.True(t, v > 0 && v < 1, "sigmoid output in (0,1)")
	}

	net.SetTraining(false)
	evalOut, evalAux := net.ForwardAux(x)
	assert.Nil(t, evalAux)
	assert.Equal(t, out.Data(), evalOut.Data())
	assert.Len(t, net.Parameters(), 8)
}

func TestMultiLabelNet_SeedIsReproducible(t *testing.T) {
	cfg := nn.NetConfig{InFeatures: 4, NumClasses: 2, Hidden: []int{3}, Seed: 11}
	a := nn.NewMultiLabelNet(cfg, cpu.New())
	b := nn.NewMultiLabelNet(cfg, cpu.New())
	assert.Equal(t, a.StateDict()["trunk.0.weight"].Data(), b.StateDict()["trunk.0.weight"].Data())
}

func TestMultiLabelNet_GradientsReachEveryParameter(t *testing.T) {
	backend := autodiff.New(cpu.New())
	net := nn.NewMultiLabelNet(nn.NetConfig{InFeatures: 3, NumClasses: 2, Hidden: []int{4}, AuxHead: true, Seed: 5}, backend)
	criterion := nn.NewBCELoss(backend)

	x := tensor.MustFromSlice([]float64{0.1, 0.9, -0.4, 1.2, -0.3, 0.8}, tensor.Shape{2, 3})
	y := tensor.MustFromSlice([]float64{1, 0, 0, 1}, tensor.Shape{2, 2})

	backend.SetGradEnabled(true)
	out, aux := net.ForwardAux(x)
	loss := backend.Add(criterion.Forward(out, y), backend.MulScalar(criterion.Forward(aux, y), 0.4))
	require.NoError(t, backend.Backward(loss))

	for _, p := range net.Parameters() {
		require.NotNil(t, p.Grad(), p.Name())
		assert.Equal(t, p.Tensor().Shape(), p.Grad().Shape(), p.Name())
	}
}

func TestNewMultiLabelNet_InvalidConfig(t *testing.T) {
	assert.Panics(t, func() { nn.NewMultiLabelNet(nn.NetConfig{InFeatures: 0, NumClasses: 2}, cpu.New()) })
	assert.Panics(t, func() { nn.NewMultiLabelNet(nn.NetConfig{InFeatures: 2, NumClasses: 2, AuxHead: true}, cpu.New()) })
}
