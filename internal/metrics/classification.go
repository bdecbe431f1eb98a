// Package metrics computes classification scores for evaluator runs.
package metrics

import (
	"errors"
	"fmt"
	"sort"

	"quote-lab/internal/domain"
)

// Errors returned by metric functions.
var (
	ErrLengthMismatch = errors.New("true and predicted labels differ in length")
	ErrNoLabels       = errors.New("empty label set")
)

// Average selects how per-class scores are aggregated.
type Average int

const (
	// AverageNone returns per-class scores without aggregation.
	AverageNone Average = iota
	// AverageMacro is the unweighted mean of per-class scores.
	AverageMacro
	// AverageMicro pools true/false positives and negatives across classes.
	AverageMicro
	// AverageWeighted weights per-class scores by true-label support.
	AverageWeighted
)

func (a Average) String() string {
	switch a {
	case AverageNone:
		return "none"
	case AverageMacro:
		return "macro"
	case AverageMicro:
		return "micro"
	case AverageWeighted:
		return "weighted"
	default:
		return fmt.Sprintf("Average(%d)", int(a))
	}
}

// counts holds the confusion counts of one label.
type counts struct {
	tp, fp, fn int
}

func (c counts) support() int {
	return c.tp + c.fn
}

func (c counts) scores() domain.ClassScores {
	return scoresFrom(c.tp, c.fp, c.fn)
}

// scoresFrom computes precision, recall and F1; any 0/0 yields 0.
func scoresFrom(tp, fp, fn int) domain.ClassScores {
	s := domain.ClassScores{Support: tp + fn}
	if tp+fp > 0 {
		s.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		s.Recall = float64(tp) / float64(tp+fn)
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}

// Accuracy returns the fraction of exactly matching labels.
// An empty input scores 0.
func Accuracy(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, nil
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// UniqueLabels returns the distinct labels in ascending order.
func UniqueLabels(y []float64) []float64 {
	seen := make(map[float64]struct{}, 4)
	out := make([]float64, 0, 4)
	for _, v := range y {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// confusion counts tp/fp/fn per requested label.
// Samples whose labels are outside the set only affect the labels they hit.
func confusion(yTrue, yPred, labels []float64) ([]counts, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}

	index := make(map[float64]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	out := make([]counts, len(labels))
	for i := range yTrue {
		ti, trueKnown := index[yTrue[i]]
		pi, predKnown := index[yPred[i]]
		if yTrue[i] == yPred[i] {
			if trueKnown {
				out[ti].tp++
			}
			continue
		}
		if trueKnown {
			out[ti].fn++
		}
		if predKnown {
			out[pi].fp++
		}
	}
	return out, nil
}

// PerClass returns precision, recall, F1 and support for every label, in label order.
func PerClass(yTrue, yPred, labels []float64) ([]domain.LabelScores, error) {
	c, err := confusion(yTrue, yPred, labels)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LabelScores, len(labels))
	for i, l := range labels {
		out[i] = domain.LabelScores{Label: l, ClassScores: c[i].scores()}
	}
	return out, nil
}

// Averaged returns precision, recall, F1 and support aggregated over labels.
// Support is the total true-label support over the label set.
func Averaged(yTrue, yPred, labels []float64, avg Average) (domain.ClassScores, error) {
	c, err := confusion(yTrue, yPred, labels)
	if err != nil {
		return domain.ClassScores{}, err
	}

	totalSupport := 0
	for _, lc := range c {
		totalSupport += lc.support()
	}

	switch avg {
	case AverageMicro:
		var tp, fp, fn int
		for _, lc := range c {
			tp += lc.tp
			fp += lc.fp
			fn += lc.fn
		}
		return scoresFrom(tp, fp, fn), nil

	case AverageMacro:
		var out domain.ClassScores
		for _, lc := range c {
			s := lc.scores()
			out.Precision += s.Precision
			out.Recall += s.Recall
			out.F1 += s.F1
		}
		n := float64(len(c))
		out.Precision /= n
		out.Recall /= n
		out.F1 /= n
		out.Support = totalSupport
		return out, nil

	case AverageWeighted:
		out := domain.ClassScores{Support: totalSupport}
		if totalSupport == 0 {
			return out, nil
		}
		for _, lc := range c {
			s := lc.scores()
			w := float64(lc.support()) / float64(totalSupport)
			out.Precision += w * s.Precision
			out.Recall += w * s.Recall
			out.F1 += w * s.F1
		}
		return out, nil

	default:
		return domain.ClassScores{}, fmt.Errorf("averaging %s does not produce a single score", avg)
	}
}
