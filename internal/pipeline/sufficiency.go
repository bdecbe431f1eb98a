package pipeline

import (
	"fmt"
	"math"

	"quote-lab/internal/domain"
)

// SufficiencyCheck represents one data sufficiency criterion.
type SufficiencyCheck struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// SufficiencyResult contains all checks for one frame.
type SufficiencyResult struct {
	Checks  []SufficiencyCheck
	AllPass bool
}

// Failed returns the checks that did not pass.
func (r *SufficiencyResult) Failed() []SufficiencyCheck {
	var out []SufficiencyCheck
	for _, c := range r.Checks {
		if !c.Pass {
			out = append(out, c)
		}
	}
	return out
}

// SufficiencyChecker inspects a frame before interpolation. Failed checks are
// reported, not enforced; the interpolator and trend fitter raise the errors.
type SufficiencyChecker struct {
	columns []string
	trend   bool
}

// NewSufficiencyChecker creates a checker for the designated columns.
func NewSufficiencyChecker(columns []string, trend bool) *SufficiencyChecker {
	return &SufficiencyChecker{columns: columns, trend: trend}
}

// Check performs all checks.
func (c *SufficiencyChecker) Check(f *domain.Frame) *SufficiencyResult {
	result := &SufficiencyResult{AllPass: true}
	add := func(check SufficiencyCheck) {
		result.Checks = append(result.Checks, check)
		if !check.Pass {
			result.AllPass = false
		}
	}

	// Check 1: enough rows for the requested work
	minRows := 1
	if c.trend {
		minRows = 2
	}
	add(SufficiencyCheck{
		Name:      "Rows",
		Threshold: fmt.Sprintf(">= %d", minRows),
		Actual:    fmt.Sprintf("%d", f.Len()),
		Pass:      f.Len() >= minRows,
	})

	// Check 2: timestamps present and non-decreasing
	add(c.checkTimestamps(f))

	// Check 3: every designated column has a known value
	for _, name := range c.columns {
		if !f.Has(name) {
			continue
		}
		known := f.Len() - f.MissingCount(name)
		add(SufficiencyCheck{
			Name:      name + " known values",
			Threshold: ">= 1",
			Actual:    fmt.Sprintf("%d of %d", known, f.Len()),
			Pass:      known >= 1,
		})
	}

	return result
}

func (c *SufficiencyChecker) checkTimestamps(f *domain.Frame) SufficiencyCheck {
	check := SufficiencyCheck{
		Name:      "Timestamp order",
		Threshold: "non-decreasing, no missing",
		Actual:    "ok",
		Pass:      true,
	}

	ts, ok := f.Column(domain.ColumnTimestamp)
	if !ok {
		check.Actual = "column absent"
		check.Pass = false
		return check
	}
	for i, v := range ts {
		if math.IsNaN(v) {
			check.Actual = fmt.Sprintf("missing at row %d", i)
			check.Pass = false
			return check
		}
		if i > 0 && v < ts[i-1] {
			check.Actual = fmt.Sprintf("decreases at row %d", i)
			check.Pass = false
			return check
		}
	}
	return check
}
