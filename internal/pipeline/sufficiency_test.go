package pipeline

import (
	"math"
	"testing"

	"quote-lab/internal/domain"
)

func frameOf(t *testing.T, cols map[string][]float64) *domain.Frame {
	t.Helper()
	f := domain.NewFrame()
	for _, name := range []string{domain.ColumnTimestamp, domain.ColumnBidPrice, domain.ColumnAskPrice, domain.ColumnVWAP} {
		values, ok := cols[name]
		if !ok {
			continue
		}
		if err := f.Set(name, values); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
	}
	return f
}

func TestSufficiencyChecker_AllPass(t *testing.T) {
	checker := NewSufficiencyChecker([]string{domain.ColumnBidPrice, domain.ColumnAskPrice}, false)

	result := checker.Check(QuoteFixtureFrame())

	if !result.AllPass {
		t.Errorf("Expected AllPass=true, failed checks: %+v", result.Failed())
	}
	if len(result.Checks) != 4 {
		t.Errorf("Expected 4 checks, got %d", len(result.Checks))
	}
}

func TestSufficiencyChecker_TrendNeedsTwoRows(t *testing.T) {
	f := frameOf(t, map[string][]float64{
		domain.ColumnTimestamp: {1},
		domain.ColumnVWAP:      {10},
	})

	if r := NewSufficiencyChecker([]string{domain.ColumnVWAP}, false).Check(f); !r.AllPass {
		t.Errorf("Single row without trend should pass, failed: %+v", r.Failed())
	}

	r := NewSufficiencyChecker([]string{domain.ColumnVWAP}, true).Check(f)
	if r.AllPass {
		t.Fatal("Expected AllPass=false with trend on one row")
	}
	failed := r.Failed()
	if len(failed) != 1 || failed[0].Name != "Rows" {
		t.Errorf("Expected only Rows to fail, got %+v", failed)
	}
}

func TestSufficiencyChecker_TimestampOrder(t *testing.T) {
	tests := []struct {
		name   string
		ts     []float64
		pass   bool
		actual string
	}{
		{"ordered", []float64{1, 2, 2, 3}, true, "ok"},
		{"decreasing", []float64{1, 3, 2, 4}, false, "decreases at row 2"},
		{"missing", []float64{1, math.NaN(), 3, 4}, false, "missing at row 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frameOf(t, map[string][]float64{
				domain.ColumnTimestamp: tt.ts,
				domain.ColumnBidPrice:  {1, 2, 3, 4},
			})
			r := NewSufficiencyChecker([]string{domain.ColumnBidPrice}, false).Check(f)

			var got SufficiencyCheck
			for _, c := range r.Checks {
				if c.Name == "Timestamp order" {
					got = c
				}
			}
			if got.Pass != tt.pass {
				t.Errorf("Pass = %v, want %v", got.Pass, tt.pass)
			}
			if got.Actual != tt.actual {
				t.Errorf("Actual = %q, want %q", got.Actual, tt.actual)
			}
		})
	}
}

func TestSufficiencyChecker_AllMissingColumn(t *testing.T) {
	nan := math.NaN()
	f := frameOf(t, map[string][]float64{
		domain.ColumnTimestamp: {1, 2, 3},
		domain.ColumnBidPrice:  {1, nan, 3},
		domain.ColumnAskPrice:  {nan, nan, nan},
	})

	r := NewSufficiencyChecker([]string{domain.ColumnBidPrice, domain.ColumnAskPrice, domain.ColumnVWAP}, false).Check(f)

	failed := r.Failed()
	if len(failed) != 1 {
		t.Fatalf("Expected 1 failed check, got %d: %+v", len(failed), failed)
	}
	if failed[0].Name != "AskPrice known values" {
		t.Errorf("Failed check = %q", failed[0].Name)
	}
	if failed[0].Actual != "0 of 3" {
		t.Errorf("Actual = %q, want %q", failed[0].Actual, "0 of 3")
	}
}
