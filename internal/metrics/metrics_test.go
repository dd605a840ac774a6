package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/multilabel/internal/tensor"
)

func TestEvaluate(t *testing.T) {
	// 4 samples, 2 classes.
	preds := tensor.MustFromSlice([]float64{
		1, 0,
		1, 1,
		0, 0,
		1, 0,
	}, tensor.Shape{4, 2})
	targets := tensor.MustFromSlice([]float64{
		1, 0,
		0, 1,
		0, 1,
		1, 0,
	}, tensor.Shape{4, 2})

	r, err := Evaluate(preds, targets, []string{"sports"})
	require.NoError(t, err)

	sports, other := r.Classes[0], r.Classes[1]
	assert.Equal(t, "sports", sports.Name)
	assert.Equal(t, "class_1", other.Name)

	assert.Equal(t, []int{2, 1, 0, 1}, []int{sports.TP, sports.FP, sports.FN, sports.TN})
	assert.Equal(t, []int{1, 0, 1, 2}, []int{other.TP, other.FP, other.FN, other.TN})
	assert.Equal(t, 2, sports.Support())
	assert.InDelta(t, 2.0/3.0, sports.Precision, 1e-12)
	assert.InDelta(t, 1.0, sports.Recall, 1e-12)
	assert.InDelta(t, 0.8, sports.F1, 1e-12)
	assert.InDelta(t, 1.0, other.Precision, 1e-12)
	assert.InDelta(t, 0.5, other.Recall, 1e-12)

	assert.InDelta(t, (2.0/3.0+1.0)/2, r.MacroPrecision, 1e-12)
	assert.InDelta(t, 0.75, r.MicroPrecision, 1e-12) // 3 TP, 1 FP
	assert.InDelta(t, 0.75, r.MicroRecall, 1e-12)    // 3 TP, 1 FN
	assert.InDelta(t, 0.75, r.LabelAccuracy, 1e-12)
	assert.InDelta(t, 0.25, r.HammingLoss, 1e-12)
	assert.InDelta(t, 0.5, r.SubsetAccuracy, 1e-12)

	table := r.Table()
	assert.Contains(t, table, "sports")
	assert.Contains(t, table, "subset accuracy 0.5000")
}

func TestEvaluateDegenerate(t *testing.T) {
	zeros := tensor.Zeros(tensor.Shape{3, 2})
	r, err := Evaluate(zeros, zeros, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.MacroF1, "no positives anywhere")
	assert.Equal(t, 1.0, r.LabelAccuracy)
	assert.Equal(t, 1.0, r.SubsetAccuracy)
}

func TestEvaluateShapeMismatch(t *testing.T) {
	_, err := Evaluate(tensor.Zeros(tensor.Shape{3, 2}), tensor.Zeros(tensor.Shape{2, 2}), nil)
	assert.Error(t, err)
}
