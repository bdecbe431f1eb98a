package domain

// TrendLine is a degree-1 polynomial y = Slope*x + Intercept.
type TrendLine struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at x.
func (t TrendLine) At(x float64) float64 {
	return t.Slope*x + t.Intercept
}

// Evaluate evaluates the line at every x.
func (t TrendLine) Evaluate(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = t.At(x)
	}
	return out
}
