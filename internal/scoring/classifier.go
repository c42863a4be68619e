package scoring

import (
	"strings"

	"github.com/pxlabs/kye-screener/internal/domain"
)

// Rule - пара (ключевое слово, категория). Таблица правил упорядочена,
// выигрывает первое совпадение: "criminal" должен стоять раньше общего
// "civil", иначе гибридные названия классов уедут не туда.
type Rule struct {
	Keyword  string
	Category domain.SeverityCategory
}

type ClassifierConfig struct {
	Rules       []Rule
	BaseScores  map[domain.SeverityCategory]float64
	DefaultBase float64 // для категории other
}

type Classifier struct {
	rules       []Rule
	base        map[domain.SeverityCategory]float64
	defaultBase float64
}

func NewClassifier(cfg ClassifierConfig) (*Classifier, error) {
	if len(cfg.Rules) == 0 {
		return nil, domain.ErrEmptyRuleTable
	}

	rules := make([]Rule, len(cfg.Rules))
	for i, r := range cfg.Rules {
		rules[i] = Rule{
			Keyword:  strings.ToLower(r.Keyword),
			Category: r.Category,
		}
	}

	base := make(map[domain.SeverityCategory]float64, len(cfg.BaseScores))
	for cat, score := range cfg.BaseScores {
		base[cat] = score
	}

	return &Classifier{
		rules:       rules,
		base:        base,
		defaultBase: cfg.DefaultBase,
	}, nil
}

// Classify - регистронезависимый substring-матч по упорядоченной таблице.
// Без совпадений дело считается "other" с минимальным базовым баллом.
func (c *Classifier) Classify(classText string) (domain.SeverityCategory, float64) {
	text := strings.ToLower(classText)

	for _, r := range c.rules {
		if strings.Contains(text, r.Keyword) {
			if score, ok := c.base[r.Category]; ok {
				return r.Category, score
			}
			return r.Category, c.defaultBase
		}
	}

	return domain.CategoryOther, c.defaultBase
}
