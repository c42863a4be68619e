package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pxlabs/kye-screener/internal/domain"
)

// buildPrompt собирает сжатую сводку досье. В промпт никогда не уходит
// сырой список дел - только агрегаты, размер ограничен по построению.
func buildPrompt(subjectID string, summary domain.DocketSummary) string {
	var sb strings.Builder

	sb.WriteString("PERSON:\n")
	fmt.Fprintf(&sb, "- CPF: %s\n\n", maskCPF(subjectID))

	sb.WriteString("JUDICIAL PROCESSES SUMMARY:\n")
	fmt.Fprintf(&sb, "- Total processes: %d\n", summary.CaseCount)
	fmt.Fprintf(&sb, "- Defendant in %d, plaintiff in %d, other role in %d\n",
		summary.Defendant, summary.Plaintiff, summary.OtherRole)
	fmt.Fprintf(&sb, "- Total financial exposure: R$ %.2f\n", summary.TotalValue)

	if len(summary.Categories) > 0 {
		fmt.Fprintf(&sb, "- Case types: %s\n", formatCategories(summary.Categories))
	}

	sb.WriteString("\nProvide your assessment in the required format.")
	return sb.String()
}

func formatCategories(categories map[domain.SeverityCategory]int) string {
	parts := make([]string, 0, len(categories))
	for cat, n := range categories {
		parts = append(parts, fmt.Sprintf("%s (%d)", cat, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// maskCPF прячет середину номера, наружу уходят только края.
func maskCPF(id string) string {
	if len(id) != 11 {
		return id
	}
	return id[:3] + ".***.***-" + id[9:]
}
