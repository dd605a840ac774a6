package main

import (
	"fmt"
	"io"

	"k8s.io/klog/v2"

	"github.com/born-ml/multilabel/internal/autodiff"
	"github.com/born-ml/multilabel/internal/backend/cpu"
	"github.com/born-ml/multilabel/internal/config"
	"github.com/born-ml/multilabel/internal/data"
	"github.com/born-ml/multilabel/internal/metrics"
	"github.com/born-ml/multilabel/internal/nn"
	"github.com/born-ml/multilabel/internal/optim"
	"github.com/born-ml/multilabel/internal/report"
	"github.com/born-ml/multilabel/internal/train"
)

// run builds every collaborator from cfg, trains, and reports to out.
func run(cfg config.Run, out io.Writer) error {
	trainSet, valSet, classes, err := loadData(cfg)
	if err != nil {
		return err
	}

	base := cpu.New()
	klog.V(1).InfoS("Using backend", "name", base.Name(), "cpu", base.Describe())
	backend := autodiff.New(base)

	model := nn.NewMultiLabelNet(nn.NetConfig{
		InFeatures: trainSet.NumFeatures(),
		NumClasses: len(classes),
		Hidden:     cfg.Model.Hidden,
		AuxHead:    cfg.Model.AuxHead,
		Seed:       cfg.Seed,
	}, backend)
	opt := newOptimizer(cfg.Optimizer, model.Parameters())
	sched := newScheduler(cfg.Scheduler, opt)

	fmt.Fprintf(out, "Train: %d samples, Val: %d samples, %d features, %d classes\n",
		trainSet.Len(), valSet.Len(), trainSet.NumFeatures(), len(classes))
	fmt.Fprintf(out, "Optimizer: %s (lr=%g), scheduler: %s\n\n", cfg.Optimizer.Name, opt.GetLR(), sched.Name())

	loaders := map[train.Phase]train.Loader{
		train.PhaseTrain: data.NewDataLoader(trainSet, data.LoaderConfig{
			BatchSize: cfg.BatchSize,
			Shuffle:   cfg.Data.Shuffle,
			Seed:      cfg.Seed,
		}),
		train.PhaseVal: data.NewDataLoader(valSet, data.LoaderConfig{BatchSize: cfg.BatchSize}),
	}

	result, err := train.Run(train.Config{
		Epochs:         cfg.Epochs,
		NumClasses:     len(classes),
		IsInception:    cfg.Inception,
		Profile:        cfg.Profile,
		Threshold:      cfg.Threshold,
		LogEvery:       cfg.LogEvery,
		Out:            out,
		CheckpointPath: cfg.Output.Checkpoint,
		OnEpoch: func(s train.EpochSummary) {
			klog.V(2).InfoS("Epoch done", "epoch", s.Epoch, "trainLoss", s.TrainLoss,
				"valLoss", s.ValLoss, "improved", s.Improved, "lr", opt.GetLR())
		},
	}, model, loaders, opt, sched, nn.NewBCELoss(backend), backend)
	if err != nil {
		return err
	}

	if n := result.Val.Epochs(); n > 0 {
		rep, err := metrics.Evaluate(result.Val.Outputs[n-1], result.Val.Targets[n-1], classes)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nFinal validation epoch:\n%s", rep.Table())
	}
	if result.Profile != nil {
		fmt.Fprintf(out, "\nForward profile (%s, %v, %d allocs):\n%s",
			result.Profile.Site, result.Profile.Wall, result.Profile.Mallocs, result.Profile.Table())
	}
	if cfg.Output.History != "" {
		if err := report.WriteHistory(cfg.Output.History, result, classes); err != nil {
			return err
		}
		klog.InfoS("Wrote history", "path", cfg.Output.History)
	}
	return nil
}

// loadData returns the train and val datasets and the class names.
func loadData(cfg config.Run) (trainSet, valSet *data.InMemory, classes []string, err error) {
	classes = cfg.Classes
	if len(classes) == 0 {
		classes = make([]string, cfg.ClassCount())
		for i := range classes {
			classes[i] = fmt.Sprintf("class_%d", i)
		}
	}

	load := func(path string) (*data.InMemory, error) {
		switch cfg.Data.Source {
		case config.SourceCSV:
			ds, header, err := data.LoadCSV(path, len(classes))
			if err == nil && len(cfg.Classes) == 0 {
				classes = header
			}
			return ds, err
		case config.SourceJSONL:
			tok, err := data.NewTikTokenizer(cfg.Data.Encoding)
			if err != nil {
				return nil, err
			}
			return data.LoadJSONL(path, data.NewTextFeaturizer(tok, cfg.Data.Dims), classes)
		default:
			return data.Synthetic(data.SyntheticConfig{
				Samples:   cfg.Data.Samples,
				Features:  cfg.Data.Features,
				Classes:   len(classes),
				LabelProb: cfg.Data.LabelProb,
				Noise:     cfg.Data.Noise,
				Seed:      cfg.Seed,
			})
		}
	}

	all, err := load(cfg.Data.Train)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load train data: %w", err)
	}
	if cfg.Data.Val == "" {
		trainSet, valSet, err = all.Split(cfg.Data.ValFraction, cfg.Seed)
		if err != nil {
			return nil, nil, nil, err
		}
	} else {
		trainSet = all
		if valSet, err = load(cfg.Data.Val); err != nil {
			return nil, nil, nil, fmt.Errorf("load val data: %w", err)
		}
	}
	if trainSet.NumFeatures() == 0 {
		return nil, nil, nil, fmt.Errorf("training set is empty")
	}
	if valSet.Len() > 0 && valSet.NumFeatures() != trainSet.NumFeatures() {
		return nil, nil, nil, fmt.Errorf("val set has %d features, train set has %d", valSet.NumFeatures(), trainSet.NumFeatures())
	}
	return trainSet, valSet, classes, nil
}

// newOptimizer builds the configured optimizer.
func newOptimizer(cfg config.Optimizer, params []*nn.Parameter) optim.Optimizer {
	if cfg.Name == "sgd" {
		return optim.NewSGD(params, optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum})
	}
	return optim.NewAdam(params, optim.AdamConfig{LR: cfg.LR})
}

// newScheduler builds the configured epoch scheduler.
func newScheduler(cfg config.Scheduler, opt optim.Optimizer) optim.Scheduler {
	switch cfg.Name {
	case "step":
		return optim.NewStepLR(opt, cfg.StepSize, cfg.Gamma)
	case "exponential":
		return optim.NewExponentialLR(opt, cfg.Gamma)
	case "cosine":
		return optim.NewCosineAnnealingLR(opt, cfg.TMax, cfg.EtaMin)
	default:
		return optim.NewConstantLR(opt)
	}
}
