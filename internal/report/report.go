// Package report exports the histories of a training run as a protobuf
// message, so experiment drivers written in any language can read them.
//
// The message is a google.protobuf.Struct:
//
//	{
//	  "run_id": "...", "best_loss": 0.21, "best_acc": 0.93, "best_epoch": 4,
//	  "elapsed_seconds": 12.5, "classes": ["sports", ...],
//	  "train": {"acc": [...], "loss": [...], "outputs": [T...], "targets": [T...]},
//	  "val":   {...}
//	}
//
// where each T is {"shape": [rows, cols], "data": [...]}. Files ending in
// ".json" are written in the protobuf JSON mapping, anything else in the
// binary wire format.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/born-ml/multilabel/internal/tensor"
	"github.com/born-ml/multilabel/internal/train"
)

// Summary is the decoded form of a history file.
type Summary struct {
	RunID     string
	BestLoss  float64
	BestAcc   float64
	BestEpoch int
	Elapsed   time.Duration
	Classes   []string
	Train     train.History
	Val       train.History
}

// Encode converts a run result into a protobuf Struct.
func Encode(result *train.Result, classes []string) (*structpb.Struct, error) {
	names := make([]any, len(classes))
	for i, c := range classes {
		names[i] = c
	}
	bestLoss := result.BestLoss
	if math.IsInf(bestLoss, 0) {
		// JSON has no infinity; a run without epochs reports no best loss.
		bestLoss = 0
	}
	s, err := structpb.NewStruct(map[string]any{
		"run_id":          result.RunID,
		"best_loss":       bestLoss,
		"best_acc":        result.BestAcc,
		"best_epoch":      result.BestEpoch,
		"elapsed_seconds": result.Elapsed.Seconds(),
		"classes":         names,
		"train":           encodeHistory(&result.Train),
		"val":             encodeHistory(&result.Val),
	})
	if err != nil {
		return nil, fmt.Errorf("report: encode: %w", err)
	}
	return s, nil
}

func encodeHistory(h *train.History) map[string]any {
	return map[string]any{
		"acc":     floatList(h.Acc),
		"loss":    floatList(h.Loss),
		"outputs": tensorList(h.Outputs),
		"targets": tensorList(h.Targets),
	}
}

func floatList(values []float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func tensorList(ts []*tensor.Tensor) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		shape := make([]any, len(t.Shape()))
		for j, d := range t.Shape() {
			shape[j] = d
		}
		out[i] = map[string]any{
			"shape": shape,
			"data":  floatList(t.Data()),
		}
	}
	return out
}

// WriteHistory writes the result's histories to path.
func WriteHistory(path string, result *train.Result, classes []string) error {
	msg, err := Encode(result, classes)
	if err != nil {
		return err
	}

	var raw []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		raw, err = protojson.MarshalOptions{Multiline: true}.Marshal(msg)
	} else {
		raw, err = proto.Marshal(msg)
	}
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// ReadHistory loads a file written by WriteHistory.
func ReadHistory(path string) (*Summary, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the caller
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	msg := &structpb.Struct{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = protojson.Unmarshal(raw, msg)
	} else {
		err = proto.Unmarshal(raw, msg)
	}
	if err != nil {
		return nil, fmt.Errorf("report: unmarshal: %w", err)
	}
	return Decode(msg)
}

// Decode converts a Struct produced by Encode back into a Summary.
func Decode(msg *structpb.Struct) (*Summary, error) {
	f := msg.GetFields()
	s := &Summary{
		RunID:     f["run_id"].GetStringValue(),
		BestLoss:  f["best_loss"].GetNumberValue(),
		BestAcc:   f["best_acc"].GetNumberValue(),
		BestEpoch: int(f["best_epoch"].GetNumberValue()),
		Elapsed:   time.Duration(f["elapsed_seconds"].GetNumberValue() * float64(time.Second)),
	}
	for _, v := range f["classes"].GetListValue().GetValues() {
		s.Classes = append(s.Classes, v.GetStringValue())
	}

	var err error
	if s.Train, err = decodeHistory(f["train"].GetStructValue()); err != nil {
		return nil, fmt.Errorf("report: train: %w", err)
	}
	if s.Val, err = decodeHistory(f["val"].GetStructValue()); err != nil {
		return nil, fmt.Errorf("report: val: %w", err)
	}
	return s, nil
}

func decodeHistory(msg *structpb.Struct) (train.History, error) {
	var h train.History
	f := msg.GetFields()
	h.Acc = numbers(f["acc"].GetListValue())
	h.Loss = numbers(f["loss"].GetListValue())

	var err error
	if h.Outputs, err = decodeTensors(f["outputs"].GetListValue()); err != nil {
		return h, fmt.Errorf("outputs: %w", err)
	}
	if h.Targets, err = decodeTensors(f["targets"].GetListValue()); err != nil {
		return h, fmt.Errorf("targets: %w", err)
	}
	return h, nil
}

func numbers(list *structpb.ListValue) []float64 {
	values := list.GetValues()
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.GetNumberValue()
	}
	return out
}

func decodeTensors(list *structpb.ListValue) ([]*tensor.Tensor, error) {
	var out []*tensor.Tensor
	for i, v := range list.GetValues() {
		fields := v.GetStructValue().GetFields()
		dims := numbers(fields["shape"].GetListValue())
		shape := make(tensor.Shape, len(dims))
		for j, d := range dims {
			shape[j] = int(d)
		}
		t, err := tensor.FromSlice(numbers(fields["data"].GetListValue()), shape)
		if err != nil {
			return nil, fmt.Errorf("tensor %d: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}
