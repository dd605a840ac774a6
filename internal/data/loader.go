package data

import (
	"fmt"
	"io"
	"math/rand"
	"sync"

	"github.com/born-ml/multilabel/internal/tensor"
)

// Batch is one (inputs, labels) pair.
//
// Inputs has shape [batch, features]; Labels is multi-hot with shape
// [batch, classes].
type Batch struct {
	Inputs *tensor.Tensor
	Labels *tensor.Tensor
}

// Size returns the number of samples in the batch.
func (b *Batch) Size() int {
	return b.Inputs.Shape().Rows()
}

// LoaderConfig configures a DataLoader.
type LoaderConfig struct {
	BatchSize int   // Samples per batch (default: 32)
	Shuffle   bool  // Reshuffle sample order on every Reset
	Seed      int64 // Shuffle seed
	DropLast  bool  // Drop a trailing partial batch
}

// DataLoader provides batching and shuffling over a Dataset.
//
// A loader yields one epoch of batches through Next, then io.EOF. Reset
// starts a new epoch (reshuffling if configured).
//
// Example:
//
//	loader := data.NewDataLoader(ds, data.LoaderConfig{BatchSize: 16, Shuffle: true})
//	loader.Reset()
//	for {
//	    batch, err := loader.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	}
type DataLoader struct {
	dataset Dataset
	config  LoaderConfig
	rng     *rand.Rand
	indices []int

	mu       sync.Mutex
	position int
}

// NewDataLoader creates a new DataLoader positioned at the start of an epoch.
func NewDataLoader(dataset Dataset, config LoaderConfig) *DataLoader {
	if config.BatchSize <= 0 {
		config.BatchSize = 32
	}
	indices := make([]int, dataset.Len())
	for i := range indices {
		indices[i] = i
	}
	//nolint:gosec // Shuffling samples, not security-critical
	rng := rand.New(rand.NewSource(config.Seed))
	return &DataLoader{
		dataset: dataset,
		config:  config,
		rng:     rng,
		indices: indices,
	}
}

// Len returns the number of batches in an epoch.
func (dl *DataLoader) Len() int {
	n := dl.dataset.Len()
	if dl.config.DropLast {
		return n / dl.config.BatchSize
	}
	return (n + dl.config.BatchSize - 1) / dl.config.BatchSize
}

// NumSamples returns the size of the underlying dataset.
func (dl *DataLoader) NumSamples() int {
	return dl.dataset.Len()
}

// Reset starts a new epoch.
func (dl *DataLoader) Reset() {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	dl.position = 0
	if dl.config.Shuffle {
		dl.rng.Shuffle(len(dl.indices), func(i, j int) {
			dl.indices[i], dl.indices[j] = dl.indices[j], dl.indices[i]
		})
	}
}

// Next returns the next batch, or io.EOF once the epoch is exhausted.
func (dl *DataLoader) Next() (*Batch, error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	remaining := len(dl.indices) - dl.position
	if remaining <= 0 || (dl.config.DropLast && remaining < dl.config.BatchSize) {
		return nil, io.EOF
	}

	end := min(dl.position+dl.config.BatchSize, len(dl.indices))
	batch, err := dl.loadBatch(dl.indices[dl.position:end])
	if err != nil {
		return nil, fmt.Errorf("failed to load batch: %w", err)
	}
	dl.position = end
	return batch, nil
}

// loadBatch stacks the samples at indices into batch tensors.
func (dl *DataLoader) loadBatch(indices []int) (*Batch, error) {
	features := make([][]float64, len(indices))
	labels := make([][]float64, len(indices))
	for i, idx := range indices {
		x, y, err := dl.dataset.Get(idx)
		if err != nil {
			return nil, err
		}
		features[i], labels[i] = x, y
	}

	inputs, err := tensor.FromRows(features)
	if err != nil {
		return nil, fmt.Errorf("inputs: %w", err)
	}
	targets, err := tensor.FromRows(labels)
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	return &Batch{Inputs: inputs, Labels: targets}, nil
}
