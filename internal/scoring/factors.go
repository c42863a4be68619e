package scoring

import (
	"strings"

	"github.com/pxlabs/kye-screener/internal/domain"
)

type VolumeTier struct {
	UpTo  int // количество дел <= UpTo
	Score float64
}

type ValueTier struct {
	Below float64 // суммарная стоимость < Below
	Score float64
}

type FactorConfig struct {
	VolumeTiers        []VolumeTier // упорядочены по UpTo
	VolumePerExtraCase float64      // прирост за каждое дело сверх последнего tier

	ValueTiers    []ValueTier // упорядочены по Below
	ValueStepSize float64     // шаг суммы сверх последнего tier
	ValuePerStep  float64     // прирост за шаг

	DefendantRoles []string
	PlaintiffRoles []string
}

// Scorer - детерминированный скоринг без состояния. Конфиг иммутабелен
// после конструктора, параллельные вызовы безопасны.
type Scorer struct {
	classifier *Classifier
	cfg        FactorConfig
}

func NewScorer(classifier *Classifier, cfg FactorConfig) (*Scorer, error) {
	if len(cfg.VolumeTiers) == 0 || len(cfg.ValueTiers) == 0 {
		return nil, domain.ErrEmptyTierTable
	}
	for i := 1; i < len(cfg.VolumeTiers); i++ {
		if cfg.VolumeTiers[i].UpTo <= cfg.VolumeTiers[i-1].UpTo {
			return nil, domain.ErrUnorderedTiers
		}
	}
	for i := 1; i < len(cfg.ValueTiers); i++ {
		if cfg.ValueTiers[i].Below <= cfg.ValueTiers[i-1].Below {
			return nil, domain.ErrUnorderedTiers
		}
	}
	if len(cfg.DefendantRoles) == 0 {
		return nil, domain.ErrEmptyVocabulary
	}

	roles := make([]string, len(cfg.DefendantRoles))
	for i, r := range cfg.DefendantRoles {
		roles[i] = strings.ToLower(r)
	}
	cfg.DefendantRoles = roles

	plaintiffs := make([]string, len(cfg.PlaintiffRoles))
	for i, r := range cfg.PlaintiffRoles {
		plaintiffs[i] = strings.ToLower(r)
	}
	cfg.PlaintiffRoles = plaintiffs

	return &Scorer{classifier: classifier, cfg: cfg}, nil
}

// Score считает четыре суб-оценки. Пустой список дел = нулевые факторы
// (чистая история). Одинаковый вход всегда дает одинаковый выход.
func (s *Scorer) Score(cases []domain.CaseRecord) domain.FactorScores {
	if len(cases) == 0 {
		return domain.FactorScores{}
	}

	return domain.FactorScores{
		ProcessVolume:     s.volumeScore(len(cases)),
		DefendantRole:     s.defendantScore(cases),
		CaseSeverity:      s.severityScore(cases),
		FinancialExposure: s.financialScore(cases),
	}
}

func (s *Scorer) volumeScore(count int) float64 {
	for _, tier := range s.cfg.VolumeTiers {
		if count <= tier.UpTo {
			return clamp(tier.Score)
		}
	}

	top := s.cfg.VolumeTiers[len(s.cfg.VolumeTiers)-1]
	extra := float64(count-top.UpTo) * s.cfg.VolumePerExtraCase
	return clamp(top.Score + extra)
}

func (s *Scorer) defendantScore(cases []domain.CaseRecord) float64 {
	if len(cases) == 0 {
		return 0
	}

	defendants := 0
	for _, c := range cases {
		if s.IsDefendant(c.Role) {
			defendants++
		}
	}

	return clamp(100 * float64(defendants) / float64(len(cases)))
}

// severityScore - среднее арифметическое базовых баллов, не максимум:
// одно тяжелое дело-выброс не должно доминировать над составом досье.
func (s *Scorer) severityScore(cases []domain.CaseRecord) float64 {
	if len(cases) == 0 {
		return 0
	}

	var sum float64
	for _, c := range cases {
		_, base := s.classifier.Classify(c.Class)
		sum += base
	}

	return clamp(sum / float64(len(cases)))
}

func (s *Scorer) financialScore(cases []domain.CaseRecord) float64 {
	var total float64
	for _, c := range cases {
		if c.Value != nil {
			total += *c.Value
		}
	}

	for _, tier := range s.cfg.ValueTiers {
		if total < tier.Below {
			return clamp(tier.Score)
		}
	}

	top := s.cfg.ValueTiers[len(s.cfg.ValueTiers)-1]
	extra := (total - top.Below) / s.cfg.ValueStepSize * s.cfg.ValuePerStep
	return clamp(top.Score + extra)
}

// IsDefendant сверяет свободный текст роли со словарем. Несовпавшие
// роли считаются "не ответчик".
func (s *Scorer) IsDefendant(role string) bool {
	return matchesAny(role, s.cfg.DefendantRoles)
}

func (s *Scorer) isPlaintiff(role string) bool {
	return matchesAny(role, s.cfg.PlaintiffRoles)
}

func matchesAny(role string, vocab []string) bool {
	r := strings.ToLower(role)
	if strings.TrimSpace(r) == "" {
		return false
	}
	for _, kw := range vocab {
		if strings.Contains(r, kw) {
			return true
		}
	}
	return false
}

// Summarize строит сводку досье для промпта анализатора.
func (s *Scorer) Summarize(cases []domain.CaseRecord) domain.DocketSummary {
	sum := domain.DocketSummary{
		CaseCount:  len(cases),
		Categories: make(map[domain.SeverityCategory]int),
	}

	for _, c := range cases {
		switch {
		case s.IsDefendant(c.Role):
			sum.Defendant++
		case s.isPlaintiff(c.Role):
			sum.Plaintiff++
		default:
			sum.OtherRole++
		}

		cat, _ := s.classifier.Classify(c.Class)
		sum.Categories[cat]++

		if c.Value != nil {
			sum.TotalValue += *c.Value
		}
	}

	return sum
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
