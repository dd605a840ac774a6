package data

import (
	"fmt"
	"math/rand"
)

// SyntheticConfig describes a generated multi-label problem.
type SyntheticConfig struct {
	Samples   int     // Number of samples
	Features  int     // Feature width
	Classes   int     // Label width
	LabelProb float64 // Probability each class is active (default: 0.3)
	Noise     float64 // Stddev of Gaussian feature noise (default: 0.1)
	Seed      int64
}

// Synthetic generates a separable multi-label dataset.
//
// Each class owns a random prototype vector. A sample's features are the sum
// of the prototypes of its active classes plus Gaussian noise, so a small MLP
// can learn the labels.
func Synthetic(config SyntheticConfig) (*InMemory, error) {
	if config.Samples <= 0 || config.Features <= 0 || config.Classes <= 0 {
		return nil, fmt.Errorf("synthetic: samples, features and classes must be positive, got %d, %d, %d",
			config.Samples, config.Features, config.Classes)
	}
	if config.LabelProb == 0 {
		config.LabelProb = 0.3
	}
	if config.Noise == 0 {
		config.Noise = 0.1
	}

	//nolint:gosec // Synthetic data generation, not security-critical
	rng := rand.New(rand.NewSource(config.Seed))

	prototypes := make([][]float64, config.Classes)
	for c := range prototypes {
		prototypes[c] = make([]float64, config.Features)
		for j := range prototypes[c] {
			prototypes[c][j] = rng.NormFloat64()
		}
	}

	features := make([][]float64, config.Samples)
	labels := make([][]float64, config.Samples)
	for i := range features {
		x := make([]float64, config.Features)
		y := make([]float64, config.Classes)
		for c := range y {
			if rng.Float64() < config.LabelProb {
				y[c] = 1
				for j, v := range prototypes[c] {
					x[j] += v
				}
			}
		}
		for j := range x {
			x[j] += config.Noise * rng.NormFloat64()
		}
		features[i], labels[i] = x, y
	}
	return NewInMemory(features, labels)
}
