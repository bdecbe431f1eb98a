// Package observability provides Prometheus metrics for batch runs.
// Each run owns a registry that is pushed to a Pushgateway when it ends.
package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"quote-lab/internal/domain"
)

// Metrics holds all Prometheus metrics for one run.
type Metrics struct {
	registry *prometheus.Registry

	// Evaluator metrics
	SamplesLoaded   *prometheus.GaugeVec
	Accuracy        prometheus.Gauge
	AveragedScore   *prometheus.GaugeVec
	SolverConverged prometheus.Gauge

	// Series metrics
	ValuesInterpolated *prometheus.CounterVec
	RowsPlotted        prometheus.Gauge
	TrendSlope         prometheus.Gauge

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	RowsStored      prometheus.Counter

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "quote_lab"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Evaluator metrics
		SamplesLoaded: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "evaluator",
			Name:      "samples",
			Help:      "Number of samples in the training and test matrices",
		}, []string{"split"}),
		Accuracy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "evaluator",
			Name:      "accuracy",
			Help:      "Fraction of test samples predicted exactly",
		}),
		AveragedScore: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "evaluator",
			Name:      "score",
			Help:      "Averaged precision, recall and F1 by averaging scheme",
		}, []string{"average", "metric"}),
		SolverConverged: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "evaluator",
			Name:      "solver_converged",
			Help:      "1 if every binary problem converged within max_iter",
		}),

		// Series metrics
		ValuesInterpolated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "series",
			Name:      "values_interpolated_total",
			Help:      "Missing values filled by interpolation, by column",
		}, []string{"column"}),
		RowsPlotted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "series",
			Name:      "rows_plotted",
			Help:      "Number of rows in the rendered figure",
		}),
		TrendSlope: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "series",
			Name:      "vwap_trend_slope",
			Help:      "Slope of the VWAP trend line per timestamp unit",
		}),

		// Pipeline metrics
		PipelineRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"pipeline", "status"}),
		PipelineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"pipeline"}),

		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
		RowsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "rows_stored_total",
			Help:      "Total number of quote samples stored",
		}),

		// Health metrics
		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful run",
		}),
	}
}

// Registry returns the registry holding this run's metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveEvaluation records the outcome of a classifier evaluation.
func (m *Metrics) ObserveEvaluation(r *domain.EvaluationReport) {
	m.SamplesLoaded.WithLabelValues("train").Set(float64(r.TrainSamples))
	m.SamplesLoaded.WithLabelValues("test").Set(float64(r.TestSamples))
	m.Accuracy.Set(r.Accuracy)
	if r.Converged {
		m.SolverConverged.Set(1)
	} else {
		m.SolverConverged.Set(0)
	}

	for avg, s := range map[string]domain.ClassScores{
		"macro":    r.Macro,
		"micro":    r.Micro,
		"weighted": r.Weighted,
	} {
		m.AveragedScore.WithLabelValues(avg, "precision").Set(s.Precision)
		m.AveragedScore.WithLabelValues(avg, "recall").Set(s.Recall)
		m.AveragedScore.WithLabelValues(avg, "f1").Set(s.F1)
	}
}

// RecordInterpolated adds filled values for a column.
func (m *Metrics) RecordInterpolated(column string, filled int) {
	m.ValuesInterpolated.WithLabelValues(column).Add(float64(filled))
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, d time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(d.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordPipelineRun records a pipeline run and, on success, the health timestamp.
func (m *Metrics) RecordPipelineRun(pipeline string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.PipelineRunsTotal.WithLabelValues(pipeline, status).Inc()
	m.PipelineDuration.WithLabelValues(pipeline).Observe(d.Seconds())
	if err == nil {
		m.LastSuccessfulRun.SetToCurrentTime()
	}
}

// Push sends every metric of the run to a Pushgateway, replacing the job's
// previous group. An empty url is a no-op.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
