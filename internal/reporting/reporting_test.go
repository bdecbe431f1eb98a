package reporting

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quote-lab/internal/domain"
)

// sampleEvaluation holds the scores of
// yTrue [-1 -1 0 0 1 1] against yPred [-1 0 0 0 1 -1].
func sampleEvaluation() *domain.EvaluationReport {
	macro := domain.ClassScores{Precision: 13.0 / 18.0, Recall: 2.0 / 3.0, F1: 59.0 / 90.0, Support: 6}
	return &domain.EvaluationReport{
		ConfigVersion:   1,
		TrainSamples:    30,
		TestSamples:     6,
		NumFeatures:     5,
		Converged:       true,
		Accuracy:        2.0 / 3.0,
		TrueLabels:      []float64{-1, 0, 1},
		PredictedLabels: []float64{-1, 0, 1},
		Labels:          []float64{-1, 0, 1},
		PerClass: []domain.LabelScores{
			{Label: -1, ClassScores: domain.ClassScores{Precision: 0.5, Recall: 0.5, F1: 0.5, Support: 2}},
			{Label: 0, ClassScores: domain.ClassScores{Precision: 2.0 / 3.0, Recall: 1, F1: 0.8, Support: 2}},
			{Label: 1, ClassScores: domain.ClassScores{Precision: 1, Recall: 0.5, F1: 2.0 / 3.0, Support: 2}},
		},
		Macro:    macro,
		Micro:    domain.ClassScores{Precision: 2.0 / 3.0, Recall: 2.0 / 3.0, F1: 2.0 / 3.0, Support: 6},
		Weighted: macro,
	}
}

func TestRenderText_Order(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderText(&buf, sampleEvaluation()); err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}

	want := strings.Join([]string{
		"0.666667",
		"[-1 0 1]",
		"[-1 0 1]",
		"macro: (0.722222, 0.666667, 0.655556, 6)",
		"micro: (0.666667, 0.666667, 0.666667, 6)",
		"weighted: (0.722222, 0.666667, 0.655556, 6)",
	}, "\n") + "\n"

	if buf.String() != want {
		t.Errorf("RenderText output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderText_PredictedSubset(t *testing.T) {
	e := sampleEvaluation()
	e.PredictedLabels = []float64{0}

	var buf bytes.Buffer
	if err := RenderText(&buf, e); err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[2] != "[0]" {
		t.Errorf("Predicted labels line = %q, want [0]", lines[2])
	}
}

func TestRenderMarkdown_Format(t *testing.T) {
	fixed := time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)
	r := NewGenerator().WithClock(func() time.Time { return fixed }).
		Generate(sampleEvaluation(), "train.svm", "test.svm")

	md := RenderMarkdown(r)

	required := []string{
		"# Classifier Evaluation Report",
		"Generated: 2025-01-04T12:00:00Z",
		"| Train Source | train.svm |",
		"| Test Samples | 6 |",
		"**0.6667**",
		"| -1 | 0.5000 | 0.5000 | 0.5000 | 2 |",
		"| macro | 0.7222 | 0.6667 | 0.6556 | 6 |",
		"| weighted | 0.7222 | 0.6667 | 0.6556 | 6 |",
	}
	for _, s := range required {
		if !strings.Contains(md, s) {
			t.Errorf("Markdown missing %q", s)
		}
	}

	// Deterministic with a fixed clock
	if md != RenderMarkdown(r) {
		t.Error("RenderMarkdown is not deterministic")
	}
}

func TestRenderCSV_Rows(t *testing.T) {
	out := RenderCSV(sampleEvaluation())
	lines := strings.Split(strings.TrimSpace(out), "\n")

	if len(lines) != 7 {
		t.Fatalf("Expected header + 6 rows, got %d lines", len(lines))
	}
	if lines[0] != "scope,label,precision,recall,f1,support" {
		t.Errorf("Header = %q", lines[0])
	}
	if lines[2] != "class,0,0.666667,1.000000,0.800000,2" {
		t.Errorf("Class 0 row = %q", lines[2])
	}
	if lines[5] != "micro,,0.666667,0.666667,0.666667,6" {
		t.Errorf("Micro row = %q", lines[5])
	}
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := NewGenerator().Generate(sampleEvaluation(), "", "")

	paths, err := WriteFiles(dir, r)
	if err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 paths, got %d", len(paths))
	}

	md, err := os.ReadFile(filepath.Join(dir, MarkdownFile))
	if err != nil {
		t.Fatalf("Read markdown: %v", err)
	}
	if strings.Contains(string(md), "Train Source") {
		t.Error("Empty sources should be omitted")
	}

	csv, err := os.ReadFile(filepath.Join(dir, CSVFile))
	if err != nil {
		t.Fatalf("Read csv: %v", err)
	}
	if string(csv) != RenderCSV(r.Evaluation) {
		t.Error("CSV file does not match RenderCSV output")
	}
}
