package domain

import "time"

// FactorScores - четыре независимых суб-оценки, каждая в [0,100].
type FactorScores struct {
	ProcessVolume     float64
	DefendantRole     float64
	CaseSeverity      float64
	FinancialExposure float64
}

type RiskLevel string

const (
	LevelLow      RiskLevel = "low"
	LevelMedium   RiskLevel = "medium"
	LevelHigh     RiskLevel = "high"
	LevelCritical RiskLevel = "critical"
)

func (l RiskLevel) String() string { return string(l) }

// Label - человекочитаемая подпись для экспорта и UI.
func (l RiskLevel) Label() string {
	switch l {
	case LevelLow:
		return "Low Risk"
	case LevelMedium:
		return "Medium Risk"
	case LevelHigh:
		return "High Risk"
	case LevelCritical:
		return "Critical Risk"
	}
	return "Unknown"
}

// LevelForScore - полуоткрытые интервалы, границы 25/50/75 уходят вверх.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score < 25:
		return LevelLow
	case score < 50:
		return LevelMedium
	case score < 75:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// QualitativeAnalysis - консультативный блок от LLM. Никогда не влияет
// на числовую оценку.
type QualitativeAnalysis struct {
	Available      bool
	Insights       []string
	RedFlags       []string
	Recommendation string
	Reason         string // почему блок недоступен (если Available=false)
}

// RiskAssessment - итог оценки одного субъекта. Создается один раз,
// повторная оценка дает новый экземпляр.
type RiskAssessment struct {
	SubjectID   string
	CaseCount   int
	Factors     FactorScores
	Score       float64
	Level       RiskLevel
	Qualitative QualitativeAnalysis
	CreatedAt   time.Time
}
