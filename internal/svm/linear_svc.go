package svm

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"quote-lab/internal/domain"
	"quote-lab/internal/metrics"
)

// Errors returned by LinearSVC.
var (
	ErrNotFitted         = errors.New("classifier is not fitted")
	ErrDimensionMismatch = errors.New("feature index beyond training feature space")
	ErrSingleClass       = errors.New("training labels contain fewer than two classes")
	ErrEmptyTrainingSet  = errors.New("empty training set")
)

// LinearSVC is a linear support-vector classifier trained one-vs-rest with
// L2 regularization by dual coordinate descent.
type LinearSVC struct {
	cfg Config

	classes     []float64
	numFeatures int
	coef        *mat.Dense // one row per binary problem; last column is the bias weight when fitted with an intercept
	iterations  []int
	converged   bool
}

// NewLinearSVC creates an unfitted classifier.
func NewLinearSVC(cfg Config) *LinearSVC {
	return &LinearSVC{cfg: cfg}
}

// Config returns the classifier configuration.
func (m *LinearSVC) Config() Config {
	return m.cfg
}

// Fit trains the classifier. Any previous fit is discarded.
func (m *LinearSVC) Fit(ds *domain.Dataset) error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}
	if ds == nil || ds.Len() == 0 {
		return ErrEmptyTrainingSet
	}

	classes := metrics.UniqueLabels(ds.Labels)
	if len(classes) < 2 {
		return fmt.Errorf("%w: found %d", ErrSingleClass, len(classes))
	}

	positives := classes
	if len(classes) == 2 {
		positives = classes[1:]
	}

	width := ds.NumFeatures
	if m.cfg.FitIntercept {
		width++
	}
	if width == 0 {
		return fmt.Errorf("%w: no features and no intercept", ErrEmptyTrainingSet)
	}

	s := newSolver(ds, m.cfg)
	coef := mat.NewDense(len(positives), width, nil)
	iterations := make([]int, len(positives))
	converged := true
	for k, pos := range positives {
		w, iter, ok := s.solve(pos)
		coef.SetRow(k, w)
		iterations[k] = iter
		converged = converged && ok
	}

	m.classes = classes
	m.numFeatures = ds.NumFeatures
	m.coef = coef
	m.iterations = iterations
	m.converged = converged
	return nil
}

// Classes returns the sorted class labels seen during Fit.
func (m *LinearSVC) Classes() []float64 {
	out := make([]float64, len(m.classes))
	copy(out, m.classes)
	return out
}

// NumFeatures returns the training feature space width.
func (m *LinearSVC) NumFeatures() int {
	return m.numFeatures
}

// Converged reports whether every binary problem met the tolerance before MaxIter.
func (m *LinearSVC) Converged() bool {
	return m.converged
}

// Iterations returns the number of solver epochs per binary problem.
func (m *LinearSVC) Iterations() []int {
	out := make([]int, len(m.iterations))
	copy(out, m.iterations)
	return out
}

// Coef returns the feature weights, one row per binary problem.
func (m *LinearSVC) Coef() (mat.Matrix, error) {
	if m.coef == nil {
		return nil, ErrNotFitted
	}
	rows, _ := m.coef.Dims()
	if m.numFeatures == 0 {
		return &mat.Dense{}, nil
	}
	return m.coef.Slice(0, rows, 0, m.numFeatures), nil
}

// Intercepts returns the learned intercept per binary problem.
func (m *LinearSVC) Intercepts() ([]float64, error) {
	if m.coef == nil {
		return nil, ErrNotFitted
	}
	rows, _ := m.coef.Dims()
	out := make([]float64, rows)
	if !m.cfg.FitIntercept {
		return out, nil
	}
	for k := range out {
		out[k] = m.coef.At(k, m.numFeatures) * m.cfg.InterceptScaling
	}
	return out, nil
}

// DecisionFunction returns one row of decision values per sample and one
// column per binary problem.
func (m *LinearSVC) DecisionFunction(ds *domain.Dataset) (*mat.Dense, error) {
	if m.coef == nil {
		return nil, ErrNotFitted
	}
	if ds.NumFeatures > m.numFeatures {
		return nil, fmt.Errorf("%w: test uses %d features, training had %d",
			ErrDimensionMismatch, ds.NumFeatures, m.numFeatures)
	}

	if ds.Len() == 0 {
		return &mat.Dense{}, nil
	}

	rows, _ := m.coef.Dims()
	out := mat.NewDense(ds.Len(), rows, nil)
	for i, x := range ds.Rows {
		if x.MaxIndex() > m.numFeatures {
			return nil, fmt.Errorf("%w: row %d uses feature %d, training had %d",
				ErrDimensionMismatch, i, x.MaxIndex(), m.numFeatures)
		}
		for k := 0; k < rows; k++ {
			out.Set(i, k, m.decision(k, x))
		}
	}
	return out, nil
}

func (m *LinearSVC) decision(k int, x domain.SparseVector) float64 {
	w := m.coef.RawRowView(k)
	v := x.Dot(w[:m.numFeatures])
	if m.cfg.FitIntercept {
		v += w[m.numFeatures] * m.cfg.InterceptScaling
	}
	return v
}

// Predict returns the predicted label for every sample.
// Ties between classes go to the first class in sorted order.
func (m *LinearSVC) Predict(ds *domain.Dataset) ([]float64, error) {
	if m.coef == nil {
		return nil, ErrNotFitted
	}
	if ds.Len() == 0 {
		return []float64{}, nil
	}
	scores, err := m.DecisionFunction(ds)
	if err != nil {
		return nil, err
	}

	out := make([]float64, ds.Len())
	for i := range out {
		row := scores.RawRowView(i)
		if len(m.classes) == 2 {
			if row[0] > 0 {
				out[i] = m.classes[1]
			} else {
				out[i] = m.classes[0]
			}
			continue
		}
		out[i] = m.classes[floats.MaxIdx(row)]
	}
	return out, nil
}

// Score returns the mean accuracy on the given dataset.
func (m *LinearSVC) Score(ds *domain.Dataset) (float64, error) {
	pred, err := m.Predict(ds)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(ds.Labels, pred)
}

// solver holds per-dataset state shared by the binary problems.
type solver struct {
	ds    *domain.Dataset
	cfg   Config
	bias  float64
	width int
	diag  float64
	upper float64
	qd    []float64
	rng   *rand.Rand
}

func newSolver(ds *domain.Dataset, cfg Config) *solver {
	s := &solver{
		ds:    ds,
		cfg:   cfg,
		width: ds.NumFeatures,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}
	if cfg.FitIntercept {
		s.bias = cfg.InterceptScaling
		s.width++
	}

	switch cfg.Loss {
	case LossHinge:
		s.diag = 0
		s.upper = cfg.C
	default:
		s.diag = 0.5 / cfg.C
		s.upper = math.Inf(1)
	}

	s.qd = make([]float64, ds.Len())
	for i, x := range ds.Rows {
		s.qd[i] = s.diag + x.SquaredNorm() + s.bias*s.bias
	}
	return s
}

func (s *solver) dot(w []float64, x domain.SparseVector) float64 {
	v := x.Dot(w)
	if s.bias != 0 {
		v += w[s.width-1] * s.bias
	}
	return v
}

// solve runs dual coordinate descent with shrinking for the binary problem
// where samples labeled pos are +1 and all others -1. It returns the weights,
// the number of epochs and whether the stopping tolerance was met.
func (s *solver) solve(pos float64) ([]float64, int, bool) {
	l := s.ds.Len()
	y := make([]float64, l)
	for i, label := range s.ds.Labels {
		if label == pos {
			y[i] = 1
		} else {
			y[i] = -1
		}
	}

	w := make([]float64, s.width)
	alpha := make([]float64, l)
	index := make([]int, l)
	for i := range index {
		index[i] = i
	}

	active := l
	pgMaxOld := math.Inf(1)
	pgMinOld := math.Inf(-1)

	iter := 0
	for iter < s.cfg.MaxIter {
		pgMaxNew := math.Inf(-1)
		pgMinNew := math.Inf(1)

		for i := 0; i < active; i++ {
			j := i + s.rng.Intn(active-i)
			index[i], index[j] = index[j], index[i]
		}

		for k := 0; k < active; k++ {
			i := index[k]
			x := s.ds.Rows[i]
			g := y[i]*s.dot(w, x) - 1 + alpha[i]*s.diag

			pg := 0.0
			switch {
			case alpha[i] == 0:
				if g > pgMaxOld {
					active--
					index[k], index[active] = index[active], index[k]
					k--
					continue
				}
				if g < 0 {
					pg = g
				}
			case alpha[i] == s.upper:
				if g < pgMinOld {
					active--
					index[k], index[active] = index[active], index[k]
					k--
					continue
				}
				if g > 0 {
					pg = g
				}
			default:
				pg = g
			}

			pgMaxNew = math.Max(pgMaxNew, pg)
			pgMinNew = math.Min(pgMinNew, pg)

			if math.Abs(pg) > 1e-12 && s.qd[i] > 0 {
				old := alpha[i]
				alpha[i] = math.Min(math.Max(alpha[i]-g/s.qd[i], 0), s.upper)
				d := (alpha[i] - old) * y[i]
				x.AddScaled(w, d)
				if s.bias != 0 {
					w[s.width-1] += d * s.bias
				}
			}
		}

		iter++
		if pgMaxNew-pgMinNew <= s.cfg.Tol {
			if active == l {
				return w, iter, true
			}
			active = l
			pgMaxOld = math.Inf(1)
			pgMinOld = math.Inf(-1)
			continue
		}

		pgMaxOld = pgMaxNew
		pgMinOld = pgMinNew
		if pgMaxOld <= 0 {
			pgMaxOld = math.Inf(1)
		}
		if pgMinOld >= 0 {
			pgMinOld = math.Inf(-1)
		}
	}
	return w, iter, false
}
