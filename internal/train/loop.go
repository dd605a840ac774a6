package train

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/born-ml/multilabel/internal/nn"
	"github.com/born-ml/multilabel/internal/profile"
	"github.com/born-ml/multilabel/internal/serialization"
	"github.com/born-ml/multilabel/internal/tensor"
)

// Run trains model for cfg.Epochs epochs and returns it with the weights of
// the epoch that achieved the lowest validation loss.
//
// Each epoch runs the train phase then the val phase over loaders. In the
// train phase gradients are tracked, backpropagated and applied with opt; in
// the val phase the forward pass runs without gradient tracking. sched is
// stepped once after both phases. A new best snapshot is taken only when the
// validation loss is strictly lower than every earlier one, so ties keep the
// first epoch.
//
// Parameters:
//   - cfg: Run configuration (zero values select defaults)
//   - model: The model to train; must implement AuxModel if cfg.IsInception
//   - loaders: One Loader per phase; both PhaseTrain and PhaseVal are required
//   - opt: Optimizer stepped after every train batch
//   - sched: Scheduler stepped once per epoch
//   - crit: Loss function
//   - backend: Execution context (device placement, grad mode, backward)
//
// Returns:
//   - The run result, with histories for both phases
//   - An error if a loader fails, a phase is empty, or a checkpoint cannot be
//     written or restored
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	model := nn.NewMultiLabelNet(nn.NetConfig{InFeatures: 16, NumClasses: 4, Hidden: []int{32}}, backend)
//	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 1e-3})
//	result, err := train.Run(train.Config{Epochs: 10, NumClasses: 4}, model,
//	    map[train.Phase]train.Loader{train.PhaseTrain: trainLoader, train.PhaseVal: valLoader},
//	    opt, optim.NewStepLR(opt, 5, 0.5), nn.NewBCELoss(backend), backend)
func Run(
	cfg Config,
	model Model,
	loaders map[Phase]Loader,
	opt Optimizer,
	sched Scheduler,
	crit Criterion,
	backend Backend,
) (*Result, error) {
	cfg = cfg.withDefaults()
	if cfg.Epochs < 0 {
		return nil, fmt.Errorf("%w: epochs must be non-negative, got %d", ErrInvalidConfig, cfg.Epochs)
	}
	if cfg.NumClasses <= 0 {
		return nil, fmt.Errorf("%w: num classes must be positive, got %d", ErrInvalidConfig, cfg.NumClasses)
	}
	for _, phase := range Phases {
		if loaders[phase] == nil {
			return nil, fmt.Errorf("%w %q", ErrMissingPhase, phase)
		}
	}

	r := &runner{
		cfg:     cfg,
		model:   model,
		loaders: loaders,
		opt:     opt,
		crit:    crit,
		backend: backend,
	}
	if cfg.IsInception {
		aux, ok := model.(AuxModel)
		if !ok {
			return nil, fmt.Errorf("%w: model %T has no ForwardAux", ErrNoAuxOutput, model)
		}
		r.aux = aux
	}

	start := time.Now()
	result := &Result{
		Model:     model,
		BestLoss:  math.Inf(1),
		BestEpoch: -1,
		RunID:     uuid.NewString(),
	}
	best := model.StateDict().Clone()

	klog.V(1).InfoS("Starting training", "run", result.RunID, "epochs", cfg.Epochs,
		"classes", cfg.NumClasses, "device", backend.Device(), "inception", cfg.IsInception,
		"profile", cfg.Profile, "threshold", cfg.Threshold)

	out := cfg.Out
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		fmt.Fprintf(out, "Epoch %d/%d\n", epoch+1, cfg.Epochs)
		fmt.Fprintln(out, strings.Repeat("-", 10))

		summary := EpochSummary{Epoch: epoch}
		for _, phase := range Phases {
			rec, err := r.runPhase(epoch, phase)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(out, "%s Loss: %.4f Acc: %.2f%%\n", phase, rec.loss, 100*rec.acc)

			switch phase {
			case PhaseTrain:
				result.Train.append(*rec)
				summary.TrainLoss, summary.TrainAcc = rec.loss, rec.acc
			case PhaseVal:
				result.Val.append(*rec)
				summary.ValLoss, summary.ValAcc = rec.loss, rec.acc
				if rec.loss < result.BestLoss {
					result.BestLoss, result.BestAcc, result.BestEpoch = rec.loss, rec.acc, epoch
					best = model.StateDict().Clone()
					summary.Improved = true
					if err := r.saveCheckpoint(best, result); err != nil {
						return nil, err
					}
				}
			}
		}

		sched.Step()
		fmt.Fprintln(out)
		if cfg.OnEpoch != nil {
			cfg.OnEpoch(summary)
		}
	}

	result.Elapsed = time.Since(start)
	secs := result.Elapsed.Seconds()
	fmt.Fprintf(out, "Training complete in %.0fm %.0fs\n", math.Floor(secs/60), math.Mod(secs, 60))
	fmt.Fprintf(out, "Best val Acc: %4f\n", result.BestAcc)
	fmt.Fprintf(out, "Best loss: %4f\n", result.BestLoss)

	if err := model.LoadStateDict(best); err != nil {
		return nil, fmt.Errorf("restore best weights: %w", err)
	}
	result.Profile = r.profile

	klog.V(1).InfoS("Training finished", "run", result.RunID, "elapsed", result.Elapsed,
		"bestEpoch", result.BestEpoch, "bestLoss", result.BestLoss, "bestAcc", result.BestAcc)
	return result, nil
}

// runner carries the collaborators and the mutable profile slot of one run.
type runner struct {
	cfg     Config
	model   Model
	aux     AuxModel
	loaders map[Phase]Loader
	opt     Optimizer
	crit    Criterion
	backend Backend
	profile *profile.Profile
}

// runPhase iterates every batch of phase once and finalizes its aggregates.
func (r *runner) runPhase(epoch int, phase Phase) (*phaseRecord, error) {
	loader := r.loaders[phase]
	samples := loader.NumSamples()
	if samples == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPhase, phase)
	}

	training := phase == PhaseTrain
	r.model.SetTraining(training)
	loader.Reset()

	device := r.backend.Device()
	// Step lines count against the train loader in every phase.
	totalSteps := r.loaders[PhaseTrain].Len()
	var (
		runningLoss     float64
		runningCorrects int
		outputs         []*tensor.Tensor
		targets         []*tensor.Tensor
	)

	for step := 1; ; step++ {
		batch, err := loader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s batch %d: %w", phase, step, err)
		}

		inputs := batch.Inputs.To(device)
		labels := batch.Labels.To(device)

		for _, p := range r.model.Parameters() {
			p.ZeroGrad()
		}

		r.backend.SetGradEnabled(training)
		output, loss, err := r.forward(inputs, labels, training)
		if err != nil {
			r.backend.SetGradEnabled(false)
			return nil, fmt.Errorf("%s batch %d: %w", phase, step, err)
		}
		if got := output.Shape().Cols(); got != r.cfg.NumClasses {
			r.backend.SetGradEnabled(false)
			return nil, fmt.Errorf("%s batch %d: model produced %d classes, want %d", phase, step, got, r.cfg.NumClasses)
		}
		preds := tensor.Threshold(output, r.cfg.Threshold)

		if training {
			if err := r.backend.Backward(loss); err != nil {
				r.backend.SetGradEnabled(false)
				return nil, fmt.Errorf("%s batch %d: %w", phase, step, err)
			}
			r.opt.Step()
		}
		r.backend.SetGradEnabled(false)

		batchSize := inputs.Shape().Rows()
		currLoss := loss.Item()
		corrects := tensor.CountEqual(preds, labels)
		runningLoss += currLoss * float64(batchSize)
		runningCorrects += corrects
		outputs = append(outputs, preds.Detach().To(tensor.Host))
		targets = append(targets, labels.Detach().To(tensor.Host))

		if step%r.cfg.LogEvery == 0 {
			acc := 100 * float64(corrects) / float64(preds.Shape().Rows()*preds.Shape().Cols())
			fmt.Fprintf(r.cfg.Out, "Epoch [%d/%d], Step [%d/%d], Loss: %.4f, Accuracy: %.2f%%\n",
				epoch+1, r.cfg.Epochs, step, totalSteps, currLoss, acc)
		}
		if r.cfg.OnStep != nil {
			r.cfg.OnStep(StepSummary{
				Epoch:           epoch,
				Phase:           phase,
				Step:            step,
				BatchSize:       batchSize,
				Loss:            currLoss,
				Corrects:        corrects,
				RunningCorrects: runningCorrects,
			})
		}
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: %s loader yielded no batches", ErrEmptyPhase, phase)
	}
	allOutputs, err := tensor.Concat(outputs)
	if err != nil {
		return nil, fmt.Errorf("%s outputs: %w", phase, err)
	}
	allTargets, err := tensor.Concat(targets)
	if err != nil {
		return nil, fmt.Errorf("%s targets: %w", phase, err)
	}

	return &phaseRecord{
		loss:    runningLoss / float64(samples),
		acc:     float64(runningCorrects) / float64(samples*r.cfg.NumClasses),
		outputs: allOutputs,
		targets: allTargets,
	}, nil
}

// forward runs the model and the criterion on one batch.
//
// For inception-style models in the train phase the loss is
// crit(output) + AuxLossWeight*crit(aux).
func (r *runner) forward(inputs, labels *tensor.Tensor, training bool) (output, loss *tensor.Tensor, err error) {
	if r.aux != nil && training {
		var aux *tensor.Tensor
		r.profiled(func() { output, aux = r.aux.ForwardAux(inputs) })
		if aux == nil {
			return nil, nil, ErrNoAuxOutput
		}
		primary := r.crit.Forward(output, labels)
		auxiliary := r.crit.Forward(aux, labels)
		return output, r.backend.Add(primary, r.backend.MulScalar(auxiliary, AuxLossWeight)), nil
	}

	r.profiled(func() { output = r.model.Forward(inputs) })
	return output, r.crit.Forward(output, labels), nil
}

// profiled runs fn, wrapped in a profile region when profiling is enabled.
// Only the most recent profile is kept.
func (r *runner) profiled(fn func()) {
	if !r.cfg.Profile {
		fn()
		return
	}

	rec := profile.Start("forward")
	if inst, ok := r.backend.(Instrumented); ok {
		restore := inst.Instrument(rec)
		defer restore()
	}
	fn()
	r.profile = rec.Stop()
}

// saveCheckpoint writes best to cfg.CheckpointPath when one is configured.
func (r *runner) saveCheckpoint(best nn.StateDict, result *Result) error {
	if r.cfg.CheckpointPath == "" {
		return nil
	}
	meta := map[string]string{
		"run_id":   result.RunID,
		"epoch":    strconv.Itoa(result.BestEpoch),
		"val_loss": strconv.FormatFloat(result.BestLoss, 'g', -1, 64),
		"val_acc":  strconv.FormatFloat(result.BestAcc, 'g', -1, 64),
	}
	if err := serialization.WriteSafeTensors(r.cfg.CheckpointPath, best, meta); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	klog.V(1).InfoS("Saved best checkpoint", "path", r.cfg.CheckpointPath,
		"epoch", result.BestEpoch, "valLoss", result.BestLoss)
	return nil
}
