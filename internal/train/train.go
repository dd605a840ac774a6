// Package train implements the epoch loop for multi-label classifiers.
//
// Run drives a model through alternating train and val phases, thresholds
// the per-class scores into 0/1 predictions, accumulates loss and per-label
// accuracy, keeps the weights with the lowest validation loss and restores
// them before returning. Model, optimizer, scheduler, criterion, loaders and
// compute backend are collaborators seen only through the interfaces below.
package train

import (
	"errors"
	"io"
	"os"

	"github.com/born-ml/multilabel/internal/data"
	"github.com/born-ml/multilabel/internal/nn"
	"github.com/born-ml/multilabel/internal/profile"
	"github.com/born-ml/multilabel/internal/tensor"
)

// Phase names one pass of an epoch.
type Phase string

// Phases of an epoch, in execution order.
const (
	PhaseTrain Phase = "train"
	PhaseVal   Phase = "val"
)

// Phases lists the phases in the order Run executes them.
var Phases = []Phase{PhaseTrain, PhaseVal}

// Defaults.
const (
	DefaultThreshold = 0.5
	DefaultLogEvery  = 100

	// AuxLossWeight scales the auxiliary head's loss in inception-style training.
	AuxLossWeight = 0.4
)

// Errors returned by Run.
var (
	ErrMissingPhase  = errors.New("train: no loader for phase")
	ErrEmptyPhase    = errors.New("train: phase has no samples")
	ErrNoAuxOutput   = errors.New("train: inception-style model produced no auxiliary output")
	ErrInvalidConfig = errors.New("train: invalid config")
)

// Model is a trainable multi-label classifier producing per-class scores.
type Model interface {
	Forward(x *tensor.Tensor) *tensor.Tensor
	Parameters() []*nn.Parameter
	StateDict() nn.StateDict
	LoadStateDict(sd nn.StateDict) error
	SetTraining(training bool)
}

// AuxModel is an inception-style model with an auxiliary head.
//
// In training mode ForwardAux returns both outputs.
type AuxModel interface {
	Model
	ForwardAux(x *tensor.Tensor) (output, aux *tensor.Tensor)
}

// Optimizer applies the accumulated gradients to the model parameters.
type Optimizer interface {
	Step()
}

// Scheduler advances the learning rate once per epoch.
type Scheduler interface {
	Step()
}

// Criterion maps (scores, targets) to a differentiable scalar loss.
type Criterion interface {
	Forward(predictions, targets *tensor.Tensor) *tensor.Tensor
}

// Loader yields one epoch of batches per Reset, then io.EOF.
type Loader interface {
	Len() int        // Batches per epoch
	NumSamples() int // Samples per epoch
	Reset()
	Next() (*data.Batch, error)
}

// Backend is the execution context the loop needs: placement, gradient
// tracking and backpropagation, plus the two ops used to combine losses.
type Backend interface {
	Device() tensor.Device
	SetGradEnabled(enabled bool)
	Backward(loss *tensor.Tensor) error
	Add(a, b *tensor.Tensor) *tensor.Tensor
	MulScalar(x *tensor.Tensor, scalar float64) *tensor.Tensor
}

// Instrumented is implemented by backends that can report per-op timings to
// a profile recorder. Run uses it when profiling is enabled.
type Instrumented interface {
	Instrument(rec *profile.Recorder) (restore func())
}

// Config controls a training run.
type Config struct {
	Epochs      int     // Number of epochs
	NumClasses  int     // Label width
	IsInception bool    // Combine primary and auxiliary losses in the train phase
	Profile     bool    // Capture a profile of each forward pass, keeping the last
	Threshold   float64 // Prediction cutoff, inclusive; 0 selects 0.5
	LogEvery    int     // Emit a step line every LogEvery batches (default: 100)

	// Out receives the human-readable progress lines (default: os.Stdout).
	Out io.Writer

	// CheckpointPath, when set, receives every new best snapshot as SafeTensors.
	CheckpointPath string

	// OnStep is called after the bookkeeping of every batch.
	OnStep func(StepSummary)

	// OnEpoch is called after both phases of an epoch and the scheduler step.
	OnEpoch func(EpochSummary)
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	if c.LogEvery <= 0 {
		c.LogEvery = DefaultLogEvery
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	return c
}
