// Package trend fits a least-squares line to a series.
package trend

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"quote-lab/internal/domain"
)

// Errors returned by Fit.
var (
	ErrLengthMismatch = errors.New("x and y differ in length")
	ErrTooFewPoints   = errors.New("at least two points are required")
	ErrDegenerate     = errors.New("all x values are equal")
	ErrNotFinite      = errors.New("input contains NaN or Inf")
)

// Fit returns the least-squares line y ≈ slope·x + intercept.
func Fit(x, y []float64) (domain.TrendLine, error) {
	if len(x) != len(y) {
		return domain.TrendLine{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return domain.TrendLine{}, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(x))
	}
	if !finite(x) || !finite(y) {
		return domain.TrendLine{}, ErrNotFinite
	}
	if floats.Min(x) == floats.Max(x) {
		return domain.TrendLine{}, ErrDegenerate
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return domain.TrendLine{Slope: beta, Intercept: alpha}, nil
}

// FitAndEvaluate fits the line and evaluates it at every x.
func FitAndEvaluate(x, y []float64) (domain.TrendLine, []float64, error) {
	line, err := Fit(x, y)
	if err != nil {
		return domain.TrendLine{}, nil, err
	}
	return line, line.Evaluate(x), nil
}

// RSquared returns the coefficient of determination of line over (x, y).
func RSquared(line domain.TrendLine, x, y []float64) float64 {
	return stat.RSquared(x, y, nil, line.Intercept, line.Slope)
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
