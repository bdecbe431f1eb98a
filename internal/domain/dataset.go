package domain

// SparseVector is one feature vector in sparse labeled-vector form.
// Indices are 1-based and strictly increasing; zero-valued features are omitted.
type SparseVector struct {
	Indices []int     // 1-based feature indices
	Values  []float64 // feature values, same length as Indices
}

// Len returns the number of stored (non-zero) features.
func (v SparseVector) Len() int {
	return len(v.Indices)
}

// MaxIndex returns the highest feature index, or 0 for an empty vector.
func (v SparseVector) MaxIndex() int {
	if len(v.Indices) == 0 {
		return 0
	}
	return v.Indices[len(v.Indices)-1]
}

// Dot returns the inner product with a dense 0-based weight slice.
// Features beyond len(w) contribute nothing.
func (v SparseVector) Dot(w []float64) float64 {
	sum := 0.0
	for k, idx := range v.Indices {
		if idx-1 < len(w) {
			sum += w[idx-1] * v.Values[k]
		}
	}
	return sum
}

// AddScaled performs w += a*v on a dense 0-based weight slice.
func (v SparseVector) AddScaled(w []float64, a float64) {
	for k, idx := range v.Indices {
		if idx-1 < len(w) {
			w[idx-1] += a * v.Values[k]
		}
	}
}

// SquaredNorm returns the squared L2 norm.
func (v SparseVector) SquaredNorm() float64 {
	sum := 0.0
	for _, x := range v.Values {
		sum += x * x
	}
	return sum
}

// Dataset is a labeled sample matrix: sparse feature rows paired with labels.
// Loaded once per evaluator run and treated as read-only afterwards.
type Dataset struct {
	Rows        []SparseVector
	Labels      []float64
	NumFeatures int // highest feature index seen
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Append adds a sample and widens NumFeatures when needed.
func (d *Dataset) Append(label float64, row SparseVector) {
	d.Rows = append(d.Rows, row)
	d.Labels = append(d.Labels, label)
	if m := row.MaxIndex(); m > d.NumFeatures {
		d.NumFeatures = m
	}
}
