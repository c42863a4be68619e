package analyzer

import (
	"strings"

	"github.com/pxlabs/kye-screener/internal/domain"
)

const fallbackRecommendation = "review"

// parseResponse разбирает секционированный ответ модели. Никогда не
// падает: без распознанных секций весь текст становится единственным
// инсайтом, рекомендация - "review".
func parseResponse(response string) domain.QualitativeAnalysis {
	result := domain.QualitativeAnalysis{
		Available:      true,
		Recommendation: fallbackRecommendation,
	}

	section := ""
	sectionSeen := false

	for _, rawLine := range strings.Split(response, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.Contains(upper, "KEY INSIGHTS") || strings.HasPrefix(upper, "INSIGHTS"):
			section = "insights"
			sectionSeen = true
			continue
		case strings.Contains(upper, "RED FLAG"):
			section = "red_flags"
			sectionSeen = true
			continue
		case strings.Contains(upper, "RECOMMENDATION"):
			section = "recommendation"
			sectionSeen = true
			// рекомендация бывает на той же строке после двоеточия
			if rest := afterColon(line); rest != "" {
				result.Recommendation = rest
			}
			continue
		case strings.Contains(upper, "RISK LEVEL"):
			// числовой уровень уже посчитан, мнение модели не используем
			section = ""
			continue
		}

		switch section {
		case "insights":
			if item, ok := bulletItem(line); ok {
				result.Insights = append(result.Insights, item)
			}
		case "red_flags":
			if item, ok := bulletItem(line); ok && !isNone(item) {
				result.RedFlags = append(result.RedFlags, item)
			}
		case "recommendation":
			item := line
			if b, ok := bulletItem(line); ok {
				item = b
			}
			result.Recommendation = item
			section = ""
		}
	}

	// fallback: модель проигнорировала формат, берем все как один инсайт
	if !sectionSeen {
		if text := strings.TrimSpace(response); text != "" {
			result.Insights = []string{text}
		}
	}

	return result
}

func bulletItem(line string) (string, bool) {
	for _, prefix := range []string{"-", "•", "*"} {
		if strings.HasPrefix(line, prefix) {
			item := strings.TrimSpace(strings.TrimPrefix(line, prefix))
			return item, item != ""
		}
	}
	return "", false
}

func afterColon(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		return strings.TrimSpace(line[idx+1:])
	}
	return ""
}

func isNone(item string) bool {
	lower := strings.ToLower(item)
	return lower == "none" || lower == "none identified" || lower == "none identified."
}
