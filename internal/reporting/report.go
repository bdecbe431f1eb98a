// Package reporting renders classifier evaluation reports as console text,
// Markdown and CSV.
package reporting

import (
	"os"
	"path/filepath"
	"time"

	"quote-lab/internal/domain"
)

// Output file names written by WriteFiles.
const (
	MarkdownFile = "EVALUATION_REPORT.md"
	CSVFile      = "EVALUATION_SCORES.csv"
)

// Report is an evaluation report plus the run metadata shown in files.
type Report struct {
	GeneratedAt time.Time
	TrainSource string
	TestSource  string
	Evaluation  *domain.EvaluationReport
}

// Generator builds Reports.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate wraps an evaluation with its sources.
func (g *Generator) Generate(eval *domain.EvaluationReport, trainSource, testSource string) *Report {
	return &Report{
		GeneratedAt: g.now(),
		TrainSource: trainSource,
		TestSource:  testSource,
		Evaluation:  eval,
	}
}

// WriteFiles writes the Markdown report and the score CSV into dir,
// creating it if needed, and returns the written paths.
func WriteFiles(dir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	mdPath := filepath.Join(dir, MarkdownFile)
	if err := os.WriteFile(mdPath, []byte(RenderMarkdown(r)), 0644); err != nil {
		return nil, err
	}

	csvPath := filepath.Join(dir, CSVFile)
	if err := os.WriteFile(csvPath, []byte(RenderCSV(r.Evaluation)), 0644); err != nil {
		return nil, err
	}

	return []string{mdPath, csvPath}, nil
}
