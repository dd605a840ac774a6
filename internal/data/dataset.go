// Package data provides multi-label datasets and the restartable batch loader
// consumed by the training loop.
package data

import (
	"fmt"
	"math/rand"
)

// Dataset is an indexable collection of (features, multi-hot labels) samples.
type Dataset interface {
	// Len returns the total number of samples.
	Len() int
	// Get returns sample idx. The returned slices must not be modified.
	Get(idx int) (features, labels []float64, err error)
}

// InMemory is a Dataset held entirely in memory.
type InMemory struct {
	features [][]float64
	labels   [][]float64
}

// NewInMemory validates and wraps samples.
//
// Every row must have the same feature width and the same label width, and
// labels must be 0 or 1.
func NewInMemory(features, labels [][]float64) (*InMemory, error) {
	if len(features) != len(labels) {
		return nil, fmt.Errorf("dataset: %d feature rows but %d label rows", len(features), len(labels))
	}
	for i := range features {
		if len(features[i]) != len(features[0]) {
			return nil, fmt.Errorf("dataset: row %d has %d features, want %d", i, len(features[i]), len(features[0]))
		}
		if len(labels[i]) != len(labels[0]) {
			return nil, fmt.Errorf("dataset: row %d has %d labels, want %d", i, len(labels[i]), len(labels[0]))
		}
		for j, y := range labels[i] {
			if y != 0 && y != 1 {
				return nil, fmt.Errorf("dataset: row %d label %d is %v, want 0 or 1", i, j, y)
			}
		}
	}
	return &InMemory{features: features, labels: labels}, nil
}

// Len returns the number of samples.
func (d *InMemory) Len() int {
	return len(d.features)
}

// Get returns sample idx.
func (d *InMemory) Get(idx int) (features, labels []float64, err error) {
	if idx < 0 || idx >= len(d.features) {
		return nil, nil, fmt.Errorf("dataset: index %d out of range [0, %d)", idx, len(d.features))
	}
	return d.features[idx], d.labels[idx], nil
}

// NumFeatures returns the feature width (0 for an empty dataset).
func (d *InMemory) NumFeatures() int {
	if len(d.features) == 0 {
		return 0
	}
	return len(d.features[0])
}

// NumClasses returns the label width (0 for an empty dataset).
func (d *InMemory) NumClasses() int {
	if len(d.labels) == 0 {
		return 0
	}
	return len(d.labels[0])
}

// Split shuffles the samples with seed and returns a (train, val) partition
// where val holds round(valFraction * Len()) samples.
func (d *InMemory) Split(valFraction float64, seed int64) (train, val *InMemory, err error) {
	if valFraction <= 0 || valFraction >= 1 {
		return nil, nil, fmt.Errorf("dataset: validation fraction %v must be in (0, 1)", valFraction)
	}
	//nolint:gosec // Shuffling samples, not security-critical
	perm := rand.New(rand.NewSource(seed)).Perm(d.Len())
	nVal := int(valFraction*float64(d.Len()) + 0.5)

	pick := func(idx []int) *InMemory {
		out := &InMemory{
			features: make([][]float64, len(idx)),
			labels:   make([][]float64, len(idx)),
		}
		for i, j := range idx {
			out.features[i] = d.features[j]
			out.labels[i] = d.labels[j]
		}
		return out
	}
	return pick(perm[nVal:]), pick(perm[:nVal]), nil
}
