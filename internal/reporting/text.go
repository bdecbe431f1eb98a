package reporting

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"quote-lab/internal/domain"
)

// RenderText writes the console summary: accuracy, distinct true labels,
// distinct predicted labels, then the macro, micro and weighted tuples.
func RenderText(w io.Writer, r *domain.EvaluationReport) error {
	var sb strings.Builder

	sb.WriteString(formatFloat(r.Accuracy) + "\n")
	sb.WriteString(formatLabels(r.TrueLabels) + "\n")
	sb.WriteString(formatLabels(r.PredictedLabels) + "\n")
	for _, row := range averagedRows(r) {
		sb.WriteString(fmt.Sprintf("%s: %s\n", row.name, formatScores(row.scores)))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

type averagedRow struct {
	name   string
	scores domain.ClassScores
}

func averagedRows(r *domain.EvaluationReport) []averagedRow {
	return []averagedRow{
		{"macro", r.Macro},
		{"micro", r.Micro},
		{"weighted", r.Weighted},
	}
}

// formatScores renders a (precision, recall, f1, support) tuple.
func formatScores(s domain.ClassScores) string {
	return fmt.Sprintf("(%s, %s, %s, %d)",
		formatFloat(s.Precision), formatFloat(s.Recall), formatFloat(s.F1), s.Support)
}

func formatLabels(labels []float64) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = formatLabel(l)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatLabel(l float64) string {
	return strconv.FormatFloat(l, 'g', -1, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
