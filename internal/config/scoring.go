package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pxlabs/kye-screener/internal/domain"
	"github.com/pxlabs/kye-screener/internal/scoring"
)

// ScoringTables - итоговые таблицы скоринга: дефолты, поверх которых
// опционально лег YAML-файл. Любая присутствующая в файле секция
// подменяет дефолтную целиком, частичного мерджа таблиц нет.
type ScoringTables struct {
	Classifier scoring.ClassifierConfig
	Factors    scoring.FactorConfig
}

type scoringFile struct {
	SeverityRules []struct {
		Keyword  string `yaml:"keyword"`
		Category string `yaml:"category"`
	} `yaml:"severity_rules"`
	BaseScores  map[string]float64 `yaml:"base_scores"`
	DefaultBase *float64           `yaml:"default_base"`

	VolumeTiers []struct {
		UpTo  int     `yaml:"up_to"`
		Score float64 `yaml:"score"`
	} `yaml:"volume_tiers"`
	VolumePerExtraCase *float64 `yaml:"volume_per_extra_case"`

	ValueTiers []struct {
		Below float64 `yaml:"below"`
		Score float64 `yaml:"score"`
	} `yaml:"value_tiers"`
	ValueStepSize *float64 `yaml:"value_step_size"`
	ValuePerStep  *float64 `yaml:"value_per_step"`

	DefendantRoles []string `yaml:"defendant_roles"`
	PlaintiffRoles []string `yaml:"plaintiff_roles"`
}

// LoadScoringTables читает YAML c таблицами. Пустой путь = дефолты.
func LoadScoringTables(path string) (ScoringTables, error) {
	tables := ScoringTables{
		Classifier: scoring.DefaultClassifierConfig(),
		Factors:    scoring.DefaultFactorConfig(),
	}

	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ScoringTables{}, fmt.Errorf("read scoring tables: %w", err)
	}

	var file scoringFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ScoringTables{}, fmt.Errorf("parse scoring tables: %w", err)
	}

	if len(file.SeverityRules) > 0 {
		rules := make([]scoring.Rule, len(file.SeverityRules))
		for i, r := range file.SeverityRules {
			rules[i] = scoring.Rule{
				Keyword:  r.Keyword,
				Category: domain.SeverityCategory(r.Category),
			}
		}
		tables.Classifier.Rules = rules
	}
	if len(file.BaseScores) > 0 {
		base := make(map[domain.SeverityCategory]float64, len(file.BaseScores))
		for cat, score := range file.BaseScores {
			base[domain.SeverityCategory(cat)] = score
		}
		tables.Classifier.BaseScores = base
	}
	if file.DefaultBase != nil {
		tables.Classifier.DefaultBase = *file.DefaultBase
	}

	if len(file.VolumeTiers) > 0 {
		tiers := make([]scoring.VolumeTier, len(file.VolumeTiers))
		for i, t := range file.VolumeTiers {
			tiers[i] = scoring.VolumeTier{UpTo: t.UpTo, Score: t.Score}
		}
		tables.Factors.VolumeTiers = tiers
	}
	if file.VolumePerExtraCase != nil {
		tables.Factors.VolumePerExtraCase = *file.VolumePerExtraCase
	}

	if len(file.ValueTiers) > 0 {
		tiers := make([]scoring.ValueTier, len(file.ValueTiers))
		for i, t := range file.ValueTiers {
			tiers[i] = scoring.ValueTier{Below: t.Below, Score: t.Score}
		}
		tables.Factors.ValueTiers = tiers
	}
	if file.ValueStepSize != nil {
		tables.Factors.ValueStepSize = *file.ValueStepSize
	}
	if file.ValuePerStep != nil {
		tables.Factors.ValuePerStep = *file.ValuePerStep
	}

	if len(file.DefendantRoles) > 0 {
		tables.Factors.DefendantRoles = file.DefendantRoles
	}
	if len(file.PlaintiffRoles) > 0 {
		tables.Factors.PlaintiffRoles = file.PlaintiffRoles
	}

	return tables, nil
}

// Weights собирает веса из конфига в структуру скоринга.
func (c ScoringConfig) Weights() scoring.Weights {
	return scoring.Weights{
		ProcessVolume:     c.WeightVolume,
		DefendantRole:     c.WeightDefendant,
		CaseSeverity:      c.WeightSeverity,
		FinancialExposure: c.WeightFinancial,
	}
}
