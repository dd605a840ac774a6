package train

import (
	"time"

	"github.com/born-ml/multilabel/internal/profile"
	"github.com/born-ml/multilabel/internal/tensor"
)

// History holds one entry per epoch for one phase.
//
// Outputs[e] and Targets[e] are the thresholded predictions and the labels of
// every sample seen in epoch e, concatenated in batch order on the host.
type History struct {
	Acc     []float64
	Loss    []float64
	Targets []*tensor.Tensor
	Outputs []*tensor.Tensor
}

// Epochs returns the number of recorded epochs.
func (h *History) Epochs() int {
	return len(h.Loss)
}

func (h *History) append(rec phaseRecord) {
	h.Acc = append(h.Acc, rec.acc)
	h.Loss = append(h.Loss, rec.loss)
	h.Targets = append(h.Targets, rec.targets)
	h.Outputs = append(h.Outputs, rec.outputs)
}

// Result is everything a run produces.
type Result struct {
	// Model is the trained model with its best-validation-loss weights restored.
	Model Model

	// Profile is the most recent forward-pass profile, nil unless profiling.
	Profile *profile.Profile

	Val   History
	Train History

	BestLoss  float64 // Lowest validation loss (+Inf if no epoch ran)
	BestAcc   float64 // Validation accuracy at BestEpoch
	BestEpoch int     // 0-indexed epoch of BestLoss, -1 if no epoch ran

	Elapsed time.Duration
	RunID   string
}

// StepSummary describes one processed batch.
type StepSummary struct {
	Epoch           int
	Phase           Phase
	Step            int // 1-indexed batch number within the phase
	BatchSize       int
	Loss            float64 // Loss of this batch
	Corrects        int     // Matching prediction/label positions in this batch
	RunningCorrects int     // Matching positions so far in this phase
}

// EpochSummary reports the aggregates of one finished epoch.
type EpochSummary struct {
	Epoch     int // 0-indexed
	TrainLoss float64
	TrainAcc  float64
	ValLoss   float64
	ValAcc    float64
	Improved  bool // ValLoss set a new best
}

// phaseRecord is the finalized result of one phase of one epoch.
type phaseRecord struct {
	loss    float64
	acc     float64
	outputs *tensor.Tensor
	targets *tensor.Tensor
}
