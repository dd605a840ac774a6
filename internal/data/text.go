package data

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer converts text to token ids.
type Tokenizer interface {
	Encode(text string) []int
}

// tikTokenizer adapts a tiktoken encoding to Tokenizer.
type tikTokenizer struct {
	encoding *tiktoken.Tiktoken
}

func (t tikTokenizer) Encode(text string) []int {
	return t.encoding.Encode(text, nil, nil)
}

// NewTikTokenizer loads a tiktoken BPE encoding such as "cl100k_base".
//
// The first call for an encoding downloads its vocabulary unless
// TIKTOKEN_CACHE_DIR already holds it.
func NewTikTokenizer(encodingName string) (Tokenizer, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}
	return tikTokenizer{encoding: encoding}, nil
}

// TextFeaturizer maps text to a fixed-width feature vector by hashing BPE
// token ids into Dims buckets.
//
// Bucket counts are log1p-scaled and the vector is L2-normalized, so
// document length does not dominate the features.
type TextFeaturizer struct {
	tokenizer Tokenizer
	dims      int
}

// NewTextFeaturizer creates a featurizer producing dims-wide vectors.
func NewTextFeaturizer(tokenizer Tokenizer, dims int) *TextFeaturizer {
	if dims <= 0 {
		panic(fmt.Sprintf("text featurizer: dims must be positive, got %d", dims))
	}
	return &TextFeaturizer{tokenizer: tokenizer, dims: dims}
}

// Dims returns the feature width.
func (f *TextFeaturizer) Dims() int {
	return f.dims
}

// Featurize returns the hashed bag-of-tokens vector for text.
func (f *TextFeaturizer) Featurize(text string) []float64 {
	vec := make([]float64, f.dims)
	for _, id := range f.tokenizer.Encode(text) {
		vec[id%f.dims]++
	}

	var norm float64
	for i, c := range vec {
		vec[i] = math.Log1p(c)
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// textRecord is one line of a JSONL text dataset.
type textRecord struct {
	Text   string   `json:"text"`
	Labels []string `json:"labels"`
}

// LoadJSONL loads a multi-label text dataset.
//
// Each line is a JSON object:
//
//	{"text": "cheap flights to rome", "labels": ["travel", "deals"]}
//
// Labels are mapped to multi-hot vectors by their position in classes; an
// unknown label is an error.
func LoadJSONL(filename string, featurizer *TextFeaturizer, classes []string) (*InMemory, error) {
	file, err := os.Open(filename) //nolint:gosec // G304: path comes from run config
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	var features, labels [][]float64
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec textRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		y := make([]float64, len(classes))
		for _, name := range rec.Labels {
			idx, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("line %d: unknown label %q", line, name)
			}
			y[idx] = 1
		}
		features = append(features, featurizer.Featurize(rec.Text))
		labels = append(labels, y)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read JSONL: %w", err)
	}

	return NewInMemory(features, labels)
}
