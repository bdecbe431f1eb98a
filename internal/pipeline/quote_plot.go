// Package pipeline wires the quote plot run: source, interpolation, trend
// fit and rendering.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"quote-lab/internal/domain"
	"quote-lab/internal/interpolate"
	"quote-lab/internal/loader"
	"quote-lab/internal/logging"
	"quote-lab/internal/observability"
	"quote-lab/internal/render"
	"quote-lab/internal/trend"
)

// SeriesTrend is the name of the fitted trend series in the figure.
const SeriesTrend = "Trend"

// DefaultColumns are interpolated when QuotePlotOptions.Columns is empty.
var DefaultColumns = []string{domain.ColumnBidPrice, domain.ColumnAskPrice}

var seriesStyles = map[string]render.Style{
	domain.ColumnLastPrice: {Kind: render.Points, Color: render.Black},
	domain.ColumnBidPrice:  {Kind: render.Line, Color: render.Green},
	domain.ColumnAskPrice:  {Kind: render.Line, Color: render.Red},
	domain.ColumnVWAP:      {Kind: render.Line, Color: render.Blue},
	SeriesTrend:            {Kind: render.Line, Color: render.Magenta},
}

// QuotePlotOptions selects the run variant.
type QuotePlotOptions struct {
	Columns      []string // designated columns to interpolate
	Trend        bool     // fit and draw a VWAP trend line
	Title        string
	OnAllMissing interpolate.AllMissingPolicy
}

// QuotePlot runs source → interpolate → trend → render.
type QuotePlot struct {
	source   FrameSource
	renderer render.Renderer
	opts     QuotePlotOptions
	logger   *logging.Logger
	metrics  *observability.Metrics
}

// NewQuotePlot creates a new pipeline.
func NewQuotePlot(source FrameSource, renderer render.Renderer, opts QuotePlotOptions) *QuotePlot {
	if len(opts.Columns) == 0 {
		opts.Columns = DefaultColumns
	}
	return &QuotePlot{
		source:   source,
		renderer: renderer,
		opts:     opts,
		logger:   logging.Nop(),
	}
}

// WithLogger sets the logger.
func (p *QuotePlot) WithLogger(logger *logging.Logger) *QuotePlot {
	p.logger = logger
	return p
}

// WithMetrics records run metrics.
func (p *QuotePlot) WithMetrics(m *observability.Metrics) *QuotePlot {
	p.metrics = m
	return p
}

// QuotePlotResult summarizes a run.
type QuotePlotResult struct {
	Rows          int
	Sufficiency   *SufficiencyResult
	Interpolation *interpolate.Result
	Trend         *domain.TrendLine // nil unless requested
	Figure        *render.Figure
}

// Run executes the pipeline.
// Phases:
//  1. Load the frame
//  2. Check data sufficiency (warnings only)
//  3. Interpolate designated columns
//  4. Fit the VWAP trend (optional)
//  5. Build and render the figure
func (p *QuotePlot) Run(ctx context.Context) (*QuotePlotResult, error) {
	start := time.Now()
	result, err := p.run(ctx)
	if p.metrics != nil {
		p.metrics.RecordPipelineRun("quote_plot", time.Since(start), err)
	}
	return result, err
}

func (p *QuotePlot) run(ctx context.Context) (*QuotePlotResult, error) {
	columns := p.designatedColumns()
	log := p.logger.With(logging.String("source", p.source.Describe()))

	// Phase 1: load
	frame, err := p.source.Frame(ctx)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (load) failed: %w", err)
	}
	if !frame.Has(domain.ColumnTimestamp) {
		return nil, fmt.Errorf("phase 1 (load) failed: %w: %s", loader.ErrMissingColumn, domain.ColumnTimestamp)
	}
	log.Info("frame loaded", logging.Int("rows", frame.Len()), logging.Any("columns", frame.Names()))
	result := &QuotePlotResult{Rows: frame.Len()}

	// Phase 2: sufficiency
	result.Sufficiency = NewSufficiencyChecker(columns, p.opts.Trend).Check(frame)
	for _, c := range result.Sufficiency.Failed() {
		log.Warn("sufficiency check failed",
			logging.String("check", c.Name),
			logging.String("threshold", c.Threshold),
			logging.String("actual", c.Actual),
		)
	}

	// Phase 3: interpolate
	var optional []string
	if !p.opts.Trend {
		optional = []string{domain.ColumnVWAP}
	}
	result.Interpolation, err = interpolate.Frame(frame, interpolate.Options{
		Columns:      columns,
		Optional:     optional,
		OnAllMissing: p.opts.OnAllMissing,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("phase 3 (interpolate) failed: %w", err)
	}
	if p.metrics != nil {
		for _, c := range result.Interpolation.Columns {
			p.metrics.RecordInterpolated(c.Name, c.Filled)
		}
	}

	ts, _ := frame.Column(domain.ColumnTimestamp)
	fig := &render.Figure{
		Title:  p.opts.Title,
		XLabel: domain.ColumnTimestamp,
		YLabel: "Price",
		X:      ts,
	}

	// Phase 4: trend
	var fitted []float64
	if p.opts.Trend {
		vwap, _ := frame.Column(domain.ColumnVWAP)
		line, values, err := trend.FitAndEvaluate(ts, vwap)
		if err != nil {
			return nil, fmt.Errorf("phase 4 (trend) failed: %w", err)
		}
		result.Trend = &line
		fitted = values
		log.Info("vwap trend fitted",
			logging.Float64("slope", line.Slope),
			logging.Float64("intercept", line.Intercept),
		)
		if p.metrics != nil {
			p.metrics.TrendSlope.Set(line.Slope)
		}
	}

	// Phase 5: render
	if last, ok := frame.Column(domain.ColumnLastPrice); ok {
		fig.Series = append(fig.Series, newSeries(domain.ColumnLastPrice, last))
	}
	for _, name := range columns {
		if name == domain.ColumnLastPrice {
			continue
		}
		if values, ok := frame.Column(name); ok {
			fig.Series = append(fig.Series, newSeries(name, values))
		}
	}
	if fitted != nil {
		fig.Series = append(fig.Series, newSeries(SeriesTrend, fitted))
	}

	if err := p.renderer.Render(fig); err != nil {
		return nil, fmt.Errorf("phase 5 (render) failed: %w", err)
	}
	result.Figure = fig
	if p.metrics != nil {
		p.metrics.RowsPlotted.Set(float64(frame.Len()))
	}
	log.Info("figure rendered", logging.Int("series", len(fig.Series)))

	return result, nil
}

// designatedColumns returns the configured columns, adding VWAP when a trend is requested.
func (p *QuotePlot) designatedColumns() []string {
	columns := append([]string(nil), p.opts.Columns...)
	if !p.opts.Trend {
		return columns
	}
	for _, c := range columns {
		if c == domain.ColumnVWAP {
			return columns
		}
	}
	return append(columns, domain.ColumnVWAP)
}

func newSeries(name string, values []float64) render.Series {
	style, ok := seriesStyles[name]
	if !ok {
		style = render.Style{Kind: render.Line, Color: render.Black}
	}
	return render.Series{Name: name, Values: values, Style: style}
}
