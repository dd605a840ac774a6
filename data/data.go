// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides multi-label datasets and batch loaders.
//
// Sources:
//   - LoadCSV: numeric features followed by 0/1 label columns
//   - LoadJSONL: {"text", "labels"} records featurized with a tiktoken BPE
//   - Synthetic: generated, learnable multi-label problems
package data

import (
	"github.com/born-ml/multilabel/internal/data"
)

// Dataset is an indexable collection of (features, multi-hot labels) samples.
type Dataset = data.Dataset

// InMemory is a Dataset held entirely in memory.
type InMemory = data.InMemory

// NewInMemory validates and wraps samples.
func NewInMemory(features, labels [][]float64) (*InMemory, error) {
	return data.NewInMemory(features, labels)
}

// Batch is one (inputs, labels) pair.
type Batch = data.Batch

// DataLoader batches and shuffles a Dataset.
type DataLoader = data.DataLoader

// LoaderConfig configures a DataLoader.
type LoaderConfig = data.LoaderConfig

// NewDataLoader creates a new DataLoader.
//
// Example:
//
//	loader := data.NewDataLoader(ds, data.LoaderConfig{BatchSize: 32, Shuffle: true, Seed: 1})
func NewDataLoader(dataset Dataset, config LoaderConfig) *DataLoader {
	return data.NewDataLoader(dataset, config)
}

// LoadCSV loads a dataset whose last numClasses columns are labels.
func LoadCSV(filename string, numClasses int) (*InMemory, []string, error) {
	return data.LoadCSV(filename, numClasses)
}

// Tokenizer converts text to token ids.
type Tokenizer = data.Tokenizer

// NewTikTokenizer loads a tiktoken BPE encoding such as "cl100k_base".
func NewTikTokenizer(encodingName string) (Tokenizer, error) {
	return data.NewTikTokenizer(encodingName)
}

// TextFeaturizer hashes BPE tokens into fixed-width feature vectors.
type TextFeaturizer = data.TextFeaturizer

// NewTextFeaturizer creates a featurizer producing dims-wide vectors.
func NewTextFeaturizer(tokenizer Tokenizer, dims int) *TextFeaturizer {
	return data.NewTextFeaturizer(tokenizer, dims)
}

// LoadJSONL loads a multi-label text dataset.
func LoadJSONL(filename string, featurizer *TextFeaturizer, classes []string) (*InMemory, error) {
	return data.LoadJSONL(filename, featurizer, classes)
}

// SyntheticConfig describes a generated multi-label problem.
type SyntheticConfig = data.SyntheticConfig

// Synthetic generates a separable multi-label dataset.
func Synthetic(config SyntheticConfig) (*InMemory, error) {
	return data.Synthetic(config)
}
