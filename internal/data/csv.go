package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// LoadCSV loads a multi-label dataset from a CSV file.
//
// CSV Format (header row required):
//
//	f0,f1,...,fN,label_a,label_b,label_c
//	0.12,0.5,...,1.0,1,0,1
//
// The last numClasses columns are the multi-hot labels; every other column
// is a feature.
//
// Parameters:
//   - filename: Path to CSV file
//   - numClasses: Number of trailing label columns
//
// Returns:
//   - The dataset and the label column names taken from the header
func LoadCSV(filename string, numClasses int) (*InMemory, []string, error) {
	if numClasses <= 0 {
		return nil, nil, fmt.Errorf("numClasses must be positive, got %d", numClasses)
	}

	file, err := os.Open(filename) //nolint:gosec // G304: path comes from run config
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("CSV file is empty or missing header")
	}

	header := records[0]
	if len(header) <= numClasses {
		return nil, nil, fmt.Errorf("CSV has %d columns, need more than %d label columns", len(header), numClasses)
	}
	numFeatures := len(header) - numClasses
	classes := append([]string(nil), header[numFeatures:]...)

	records = records[1:]
	features := make([][]float64, len(records))
	labels := make([][]float64, len(records))
	for i, record := range records {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid value at row %d column %d: %w", i+1, j+1, err)
			}
			row[j] = v
		}
		features[i] = row[:numFeatures]
		labels[i] = row[numFeatures:]
	}

	ds, err := NewInMemory(features, labels)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid CSV dataset: %w", err)
	}
	return ds, classes, nil
}
