package reporting

import (
	"fmt"
	"strings"

	"quote-lab/internal/domain"
)

// RenderCSV renders per-class and averaged scores as CSV string.
// Per-class rows come first in label order, then macro, micro and weighted.
func RenderCSV(e *domain.EvaluationReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString("scope,label,precision,recall,f1,support\n")

	// Rows
	for _, c := range e.PerClass {
		sb.WriteString(fmt.Sprintf("class,%s,%.6f,%.6f,%.6f,%d\n",
			formatLabel(c.Label), c.Precision, c.Recall, c.F1, c.Support))
	}
	for _, row := range averagedRows(e) {
		sb.WriteString(fmt.Sprintf("%s,,%.6f,%.6f,%.6f,%d\n",
			row.name, row.scores.Precision, row.scores.Recall, row.scores.F1, row.scores.Support))
	}

	return sb.String()
}
