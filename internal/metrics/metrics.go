// Package metrics computes multi-label classification metrics from the
// thresholded predictions and labels a training run records.
package metrics

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/multilabel/internal/tensor"
)

// ClassMetrics holds the confusion counts and derived scores of one class.
type ClassMetrics struct {
	Name      string
	TP        int
	FP        int
	FN        int
	TN        int
	Precision float64 // TP / (TP + FP), 0 when nothing was predicted
	Recall    float64 // TP / (TP + FN), 0 when the class never occurs
	F1        float64
}

// Support returns the number of samples carrying the class.
func (c ClassMetrics) Support() int {
	return c.TP + c.FN
}

// Report summarizes predictions against labels.
type Report struct {
	Samples int
	Classes []ClassMetrics

	MacroPrecision float64
	MacroRecall    float64
	MacroF1        float64
	MicroPrecision float64
	MicroRecall    float64
	MicroF1        float64

	// LabelAccuracy is the fraction of matching (sample, class) positions.
	LabelAccuracy float64
	// HammingLoss is 1 - LabelAccuracy.
	HammingLoss float64
	// SubsetAccuracy is the fraction of samples whose every label matches.
	SubsetAccuracy float64
}

// Evaluate compares 0/1 predictions against multi-hot targets.
//
// Both tensors must have shape [samples, classes]. names labels the classes
// in the report; missing names default to "class_<i>".
func Evaluate(predictions, targets *tensor.Tensor, names []string) (*Report, error) {
	ps, ts := predictions.Shape(), targets.Shape()
	if len(ps) != 2 || !ps.Equal(ts) {
		return nil, fmt.Errorf("metrics: predictions %v and targets %v must be equal 2-D shapes", ps, ts)
	}
	samples, classes := ps[0], ps[1]

	report := &Report{Samples: samples, Classes: make([]ClassMetrics, classes)}
	for c := range report.Classes {
		name := fmt.Sprintf("class_%d", c)
		if c < len(names) {
			name = names[c]
		}
		report.Classes[c].Name = name
	}

	exact := 0
	for i := 0; i < samples; i++ {
		p, t := predictions.Row(i), targets.Row(i)
		allMatch := true
		for c := range p {
			cm := &report.Classes[c]
			switch {
			case p[c] == 1 && t[c] == 1:
				cm.TP++
			case p[c] == 1:
				cm.FP++
				allMatch = false
			case t[c] == 1:
				cm.FN++
				allMatch = false
			default:
				cm.TN++
			}
		}
		if allMatch {
			exact++
		}
	}

	precision := make([]float64, classes)
	recall := make([]float64, classes)
	f1 := make([]float64, classes)
	var tp, fp, fn, correct int
	for c := range report.Classes {
		cm := &report.Classes[c]
		cm.Precision = ratio(cm.TP, cm.TP+cm.FP)
		cm.Recall = ratio(cm.TP, cm.TP+cm.FN)
		cm.F1 = harmonic(cm.Precision, cm.Recall)
		precision[c], recall[c], f1[c] = cm.Precision, cm.Recall, cm.F1
		tp, fp, fn = tp+cm.TP, fp+cm.FP, fn+cm.FN
		correct += cm.TP + cm.TN
	}

	n := float64(classes)
	report.MacroPrecision = floats.Sum(precision) / n
	report.MacroRecall = floats.Sum(recall) / n
	report.MacroF1 = floats.Sum(f1) / n
	report.MicroPrecision = ratio(tp, tp+fp)
	report.MicroRecall = ratio(tp, tp+fn)
	report.MicroF1 = harmonic(report.MicroPrecision, report.MicroRecall)
	report.LabelAccuracy = ratio(correct, samples*classes)
	report.HammingLoss = 1 - report.LabelAccuracy
	report.SubsetAccuracy = ratio(exact, samples)
	return report, nil
}

// Table renders the per-class metrics followed by the aggregates.
func (r *Report) Table() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "class\tprecision\trecall\tf1\tsupport\t")
	for _, c := range r.Classes {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%d\t\n", c.Name, c.Precision, c.Recall, c.F1, c.Support())
	}
	fmt.Fprintf(w, "macro\t%.4f\t%.4f\t%.4f\t%d\t\n", r.MacroPrecision, r.MacroRecall, r.MacroF1, r.Samples)
	fmt.Fprintf(w, "micro\t%.4f\t%.4f\t%.4f\t%d\t\n", r.MicroPrecision, r.MicroRecall, r.MicroF1, r.Samples)
	_ = w.Flush()
	fmt.Fprintf(&b, "label accuracy %.4f, hamming loss %.4f, subset accuracy %.4f\n",
		r.LabelAccuracy, r.HammingLoss, r.SubsetAccuracy)
	return b.String()
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func harmonic(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
