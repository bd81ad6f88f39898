package answer

import (
	"fmt"
	"strings"
)

// NoRelevantClauses is the answer when nothing was retrieved.
const NoRelevantClauses = "No relevant clauses found for this case context."

const summaryLength = 2

// Compose stitches the representative lines into the answer text.
// Only retrieved lines and their provenance are used.
func Compose(query string, representatives []Candidate) string {
	if len(representatives) == 0 {
		return NoRelevantClauses
	}

	summary := make([]string, 0, summaryLength)
	for _, rep := range representatives[:min(summaryLength, len(representatives))] {
		summary = append(summary, fmt.Sprintf("%s (p.%d, %s)", rep.Line, rep.Bullet.Page, rep.Bullet.ParaID))
	}

	guidance := make([]string, 0, len(representatives))
	for i, rep := range representatives {
		guidance = append(guidance, fmt.Sprintf("%d. %s (Source: %s p.%d, %s)", i+1, rep.Line, rep.Bullet.DocName, rep.Bullet.Page, rep.Bullet.ParaID))
	}

	var b strings.Builder
	b.WriteString("Case context: ")
	b.WriteString(query)
	b.WriteString("\n\nSummary (grounded):\n")
	b.WriteString(strings.Join(summary, " "))
	b.WriteString("\n\nCited guidance:\n")
	b.WriteString(strings.Join(guidance, "\n"))
	return b.String()
}
