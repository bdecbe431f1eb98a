// Package evaluator trains a linear classifier on a training matrix and
// scores it on a test matrix.
// Flow: fit → predict → accuracy → label sets → averaged scores
package evaluator

import (
	"context"
	"fmt"
	"time"

	"quote-lab/internal/domain"
	"quote-lab/internal/loader"
	"quote-lab/internal/logging"
	"quote-lab/internal/metrics"
	"quote-lab/internal/svm"
)

// DefaultLabels is the label set scored when Options.Labels is empty.
var DefaultLabels = []float64{domain.LabelDownward, domain.LabelStationary, domain.LabelUpward}

// Options for creating an Evaluator.
type Options struct {
	Config svm.Config
	Labels []float64 // scored label set; DefaultLabels when empty
	Logger *logging.Logger
}

// Evaluator runs one classifier evaluation.
type Evaluator struct {
	cfg    svm.Config
	labels []float64
	logger *logging.Logger
}

// New creates a new Evaluator.
func New(opts Options) *Evaluator {
	labels := opts.Labels
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Evaluator{
		cfg:    opts.Config,
		labels: labels,
		logger: logger,
	}
}

// Result contains the outcome of an evaluation run.
type Result struct {
	Report      *domain.EvaluationReport
	Predictions []float64 // one predicted label per test sample
	Model       *svm.LinearSVC
	Duration    time.Duration
}

// RunFiles loads both sparse files and evaluates them.
func (e *Evaluator) RunFiles(ctx context.Context, trainPath, testPath string) (*Result, error) {
	train, err := loader.LoadSparseFile(trainPath)
	if err != nil {
		return nil, fmt.Errorf("load train: %w", err)
	}
	test, err := loader.LoadSparseFile(testPath)
	if err != nil {
		return nil, fmt.Errorf("load test: %w", err)
	}
	return e.Run(ctx, train, test)
}

// Run fits on train and evaluates on test.
// Phases:
//  1. Fit the classifier
//  2. Predict the test labels and compute accuracy
//  3. Collect distinct true and predicted labels
//  4. Compute per-class and averaged scores
func (e *Evaluator) Run(ctx context.Context, train, test *domain.Dataset) (*Result, error) {
	start := time.Now()

	// Phase 1: fit
	e.logger.Info("fitting classifier",
		logging.Int("samples", train.Len()),
		logging.Int("features", train.NumFeatures),
		logging.String("loss", string(e.cfg.Loss)),
		logging.Float64("c", e.cfg.C),
	)
	model := svm.NewLinearSVC(e.cfg)
	if err := model.Fit(train); err != nil {
		return nil, fmt.Errorf("phase 1 (fit) failed: %w", err)
	}
	if !model.Converged() {
		e.logger.Warn("solver did not converge, increase max_iter",
			logging.Int("max_iter", e.cfg.MaxIter),
			logging.Any("iterations", model.Iterations()),
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: predict
	predictions, err := model.Predict(test)
	if err != nil {
		return nil, fmt.Errorf("phase 2 (predict) failed: %w", err)
	}
	accuracy, err := metrics.Accuracy(test.Labels, predictions)
	if err != nil {
		return nil, fmt.Errorf("phase 2 (accuracy) failed: %w", err)
	}

	// Phase 3: label sets
	report := &domain.EvaluationReport{
		ConfigVersion:   e.cfg.Version,
		TrainSamples:    train.Len(),
		TestSamples:     test.Len(),
		NumFeatures:     model.NumFeatures(),
		Converged:       model.Converged(),
		Accuracy:        accuracy,
		TrueLabels:      metrics.UniqueLabels(test.Labels),
		PredictedLabels: metrics.UniqueLabels(predictions),
		Labels:          append([]float64(nil), e.labels...),
	}

	// Phase 4: scores
	report.PerClass, err = metrics.PerClass(test.Labels, predictions, e.labels)
	if err != nil {
		return nil, fmt.Errorf("phase 4 (per-class scores) failed: %w", err)
	}
	averages := []struct {
		avg metrics.Average
		dst *domain.ClassScores
	}{
		{metrics.AverageMacro, &report.Macro},
		{metrics.AverageMicro, &report.Micro},
		{metrics.AverageWeighted, &report.Weighted},
	}
	for _, a := range averages {
		scores, err := metrics.Averaged(test.Labels, predictions, e.labels, a.avg)
		if err != nil {
			return nil, fmt.Errorf("phase 4 (%s scores) failed: %w", a.avg, err)
		}
		*a.dst = scores
	}

	duration := time.Since(start)
	e.logger.Info("evaluation complete",
		logging.Float64("accuracy", report.Accuracy),
		logging.Float64("macro_f1", report.Macro.F1),
		logging.Duration("duration", duration),
	)

	return &Result{
		Report:      report,
		Predictions: predictions,
		Model:       model,
		Duration:    duration,
	}, nil
}
