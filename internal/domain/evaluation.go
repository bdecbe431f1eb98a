package domain

// Order book movement labels used by the classifier datasets.
const (
	LabelDownward   = -1.0
	LabelStationary = 0.0
	LabelUpward     = 1.0
)

// ClassScores holds precision, recall, F1 and support for one class
// or one averaging scheme.
type ClassScores struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int // number of true samples counted
}

// LabelScores is ClassScores for a single label.
type LabelScores struct {
	Label float64
	ClassScores
}

// EvaluationReport is the result of one classifier evaluation run.
type EvaluationReport struct {
	ConfigVersion int // svm config version used for training

	TrainSamples int
	TestSamples  int
	NumFeatures  int // training feature space width
	Converged    bool

	Accuracy        float64
	TrueLabels      []float64 // distinct labels in test set, ascending
	PredictedLabels []float64 // distinct predicted labels, ascending

	Labels   []float64 // label set scored below
	PerClass []LabelScores
	Macro    ClassScores
	Micro    ClassScores
	Weighted ClassScores
}
