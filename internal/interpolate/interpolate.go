// Package interpolate fills missing values in frame columns by linear
// interpolation over sample position.
package interpolate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"quote-lab/internal/domain"
	"quote-lab/internal/loader"
	"quote-lab/internal/logging"
)

// ErrAllMissing is returned when a column has no known value to interpolate from.
var ErrAllMissing = errors.New("column has no non-missing values")

// AllMissingPolicy controls the handling of columns with no known values.
type AllMissingPolicy string

const (
	// AllMissingFail returns ErrAllMissing.
	AllMissingFail AllMissingPolicy = "fail"
	// AllMissingSkip leaves the column untouched and logs a warning.
	AllMissingSkip AllMissingPolicy = "skip"
)

// Options selects the columns to fill.
type Options struct {
	Columns      []string         // designated columns, filled in order
	Optional     []string         // designated columns that may be absent from the frame
	OnAllMissing AllMissingPolicy // empty means AllMissingFail
}

// ColumnResult describes what happened to one designated column.
type ColumnResult struct {
	Name    string
	Filled  int  // NaN entries replaced
	Skipped bool // absent or entirely missing and skipped
}

// Result summarizes a Frame call.
type Result struct {
	Columns []ColumnResult
}

// Filled returns the total number of replaced entries.
func (r *Result) Filled() int {
	total := 0
	for _, c := range r.Columns {
		total += c.Filled
	}
	return total
}

// Fill replaces every NaN in values, in place, with the linear interpolation
// over the known entries using the position index as x. Positions before the
// first or after the last known entry take that entry's value.
// It returns the number of replaced entries.
func Fill(values []float64) (int, error) {
	var xs, ys []float64
	for i, v := range values {
		if !math.IsNaN(v) {
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
	}

	missing := len(values) - len(xs)
	switch {
	case missing == 0:
		return 0, nil
	case len(xs) == 0:
		return 0, ErrAllMissing
	case len(xs) == 1:
		for i := range values {
			values[i] = ys[0]
		}
		return missing, nil
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return 0, fmt.Errorf("fit piecewise linear: %w", err)
	}

	first, last := xs[0], xs[len(xs)-1]
	for i, v := range values {
		if !math.IsNaN(v) {
			continue
		}
		x := float64(i)
		switch {
		case x < first:
			values[i] = ys[0]
		case x > last:
			values[i] = ys[len(ys)-1]
		default:
			values[i] = pl.Predict(x)
		}
	}
	return missing, nil
}

// Frame fills the designated columns of f in place.
// A designated column absent from the frame fails with loader.ErrMissingColumn
// unless it is listed in Options.Optional.
func Frame(f *domain.Frame, opts Options, logger *logging.Logger) (*Result, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	optional := make(map[string]bool, len(opts.Optional))
	for _, name := range opts.Optional {
		optional[name] = true
	}

	result := &Result{}
	for _, name := range opts.Columns {
		values, ok := f.Column(name)
		if !ok {
			if optional[name] {
				logger.Warn("designated column absent, skipping", logging.String("column", name))
				result.Columns = append(result.Columns, ColumnResult{Name: name, Skipped: true})
				continue
			}
			return nil, fmt.Errorf("%w: %s", loader.ErrMissingColumn, name)
		}

		filled, err := Fill(values)
		if errors.Is(err, ErrAllMissing) && opts.OnAllMissing == AllMissingSkip {
			logger.Warn("column has no known values, leaving untouched",
				logging.String("column", name),
				logging.Int("rows", len(values)),
			)
			result.Columns = append(result.Columns, ColumnResult{Name: name, Skipped: true})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("interpolate %s: %w", name, err)
		}

		logger.Debug("column interpolated",
			logging.String("column", name),
			logging.Int("filled", filled),
		)
		result.Columns = append(result.Columns, ColumnResult{Name: name, Filled: filled})
	}
	return result, nil
}
