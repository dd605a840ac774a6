package optim

import (
	"fmt"
	"math"
)

// Scheduler adjusts an optimizer's learning rate once per epoch.
//
// Schedules are computed from the base learning rate captured at construction,
// so the resulting rate depends only on how many times Step has been called.
type Scheduler interface {
	// Step advances the schedule by one epoch and applies the new rate.
	Step()

	// GetLR returns the rate currently applied to the optimizer.
	GetLR() float64

	// Epoch returns how many times Step has been called.
	Epoch() int

	// Name returns the scheduler name for logging.
	Name() string
}

// lrSchedule holds the state shared by every epoch schedule.
type lrSchedule struct {
	optimizer Optimizer
	baseLR    float64
	epoch     int
	rate      func(epoch int) float64
}

func (s *lrSchedule) Step() {
	s.epoch++
	s.optimizer.SetLR(s.rate(s.epoch))
}

func (s *lrSchedule) GetLR() float64 {
	return s.optimizer.GetLR()
}

func (s *lrSchedule) Epoch() int {
	return s.epoch
}

// StepLR decays the learning rate by gamma every stepSize epochs.
//
//	lr = baseLR * gamma^(epoch / stepSize)
type StepLR struct {
	lrSchedule
	stepSize int
	gamma    float64
}

// NewStepLR creates a step schedule. stepSize <= 0 defaults to 30 and gamma
// outside (0, 1) defaults to 0.1.
func NewStepLR(optimizer Optimizer, stepSize int, gamma float64) *StepLR {
	if stepSize <= 0 {
		stepSize = 30
	}
	if gamma <= 0 || gamma >= 1 {
		gamma = 0.1
	}
	s := &StepLR{stepSize: stepSize, gamma: gamma}
	s.lrSchedule = lrSchedule{optimizer: optimizer, baseLR: optimizer.GetLR()}
	s.rate = func(epoch int) float64 {
		return s.baseLR * math.Pow(s.gamma, float64(epoch/s.stepSize))
	}
	return s
}

// Name returns "StepLR(step=N, gamma=G)".
func (s *StepLR) Name() string {
	return fmt.Sprintf("StepLR(step=%d, gamma=%g)", s.stepSize, s.gamma)
}

// ExponentialLR decays the learning rate by gamma every epoch.
//
//	lr = baseLR * gamma^epoch
type ExponentialLR struct {
	lrSchedule
	gamma float64
}

// NewExponentialLR creates an exponential schedule. gamma outside (0, 1)
// defaults to 0.95.
func NewExponentialLR(optimizer Optimizer, gamma float64) *ExponentialLR {
	if gamma <= 0 || gamma >= 1 {
		gamma = 0.95
	}
	s := &ExponentialLR{gamma: gamma}
	s.lrSchedule = lrSchedule{optimizer: optimizer, baseLR: optimizer.GetLR()}
	s.rate = func(epoch int) float64 {
		return s.baseLR * math.Pow(s.gamma, float64(epoch))
	}
	return s
}

// Name returns "ExponentialLR(gamma=G)".
func (s *ExponentialLR) Name() string {
	return fmt.Sprintf("ExponentialLR(gamma=%g)", s.gamma)
}

// CosineAnnealingLR anneals the learning rate from baseLR to etaMin over tMax
// epochs and holds etaMin afterwards.
//
//	lr = etaMin + (baseLR - etaMin) * (1 + cos(π * epoch / tMax)) / 2
type CosineAnnealingLR struct {
	lrSchedule
	tMax   int
	etaMin float64
}

// NewCosineAnnealingLR creates a cosine schedule. tMax <= 0 defaults to 100.
func NewCosineAnnealingLR(optimizer Optimizer, tMax int, etaMin float64) *CosineAnnealingLR {
	if tMax <= 0 {
		tMax = 100
	}
	s := &CosineAnnealingLR{tMax: tMax, etaMin: etaMin}
	s.lrSchedule = lrSchedule{optimizer: optimizer, baseLR: optimizer.GetLR()}
	s.rate = func(epoch int) float64 {
		if epoch >= s.tMax {
			return s.etaMin
		}
		progress := float64(epoch) / float64(s.tMax)
		return s.etaMin + (s.baseLR-s.etaMin)*(1+math.Cos(math.Pi*progress))/2
	}
	return s
}

// Name returns "CosineAnnealingLR(tmax=N, eta_min=E)".
func (s *CosineAnnealingLR) Name() string {
	return fmt.Sprintf("CosineAnnealingLR(tmax=%d, eta_min=%g)", s.tMax, s.etaMin)
}

// ConstantLR keeps the base learning rate; it only counts epochs.
type ConstantLR struct {
	lrSchedule
}

// NewConstantLR creates a constant schedule.
func NewConstantLR(optimizer Optimizer) *ConstantLR {
	s := &ConstantLR{}
	s.lrSchedule = lrSchedule{optimizer: optimizer, baseLR: optimizer.GetLR()}
	s.rate = func(int) float64 { return s.baseLR }
	return s
}

// Name returns "ConstantLR".
func (s *ConstantLR) Name() string {
	return "ConstantLR"
}
