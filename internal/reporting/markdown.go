package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder
	e := r.Evaluation

	// Header
	sb.WriteString("# Classifier Evaluation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	if r.TrainSource != "" {
		sb.WriteString(fmt.Sprintf("| Train Source | %s |\n", r.TrainSource))
	}
	if r.TestSource != "" {
		sb.WriteString(fmt.Sprintf("| Test Source | %s |\n", r.TestSource))
	}
	sb.WriteString(fmt.Sprintf("| Train Samples | %d |\n", e.TrainSamples))
	sb.WriteString(fmt.Sprintf("| Test Samples | %d |\n", e.TestSamples))
	sb.WriteString(fmt.Sprintf("| Features | %d |\n", e.NumFeatures))
	sb.WriteString(fmt.Sprintf("| Config Version | %d |\n", e.ConfigVersion))
	sb.WriteString(fmt.Sprintf("| Solver Converged | %t |\n", e.Converged))
	sb.WriteString("\n")

	// Accuracy
	sb.WriteString("## Accuracy\n\n")
	sb.WriteString(fmt.Sprintf("**%.4f**\n\n", e.Accuracy))
	sb.WriteString(fmt.Sprintf("- True labels: `%s`\n", formatLabels(e.TrueLabels)))
	sb.WriteString(fmt.Sprintf("- Predicted labels: `%s`\n", formatLabels(e.PredictedLabels)))
	sb.WriteString("\n")

	// Per-class
	sb.WriteString("## Per-Class Scores\n\n")
	if len(e.PerClass) > 0 {
		sb.WriteString("| Label | Precision | Recall | F1 | Support |\n")
		sb.WriteString("|-------|-----------|--------|----|---------|\n")
		for _, c := range e.PerClass {
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %d |\n",
				formatLabel(c.Label), c.Precision, c.Recall, c.F1, c.Support))
		}
	} else {
		sb.WriteString("No per-class scores available.\n")
	}
	sb.WriteString("\n")

	// Averaged
	sb.WriteString("## Averaged Scores\n\n")
	sb.WriteString(fmt.Sprintf("Labels: `%s`\n\n", formatLabels(e.Labels)))
	sb.WriteString("| Average | Precision | Recall | F1 | Support |\n")
	sb.WriteString("|---------|-----------|--------|----|---------|\n")
	for _, row := range averagedRows(e) {
		sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %d |\n",
			row.name, row.scores.Precision, row.scores.Recall, row.scores.F1, row.scores.Support))
	}

	return sb.String()
}
