package scoring

import "github.com/pxlabs/kye-screener/internal/domain"

// Дефолтные таблицы под бразильские судебные записи. Все они - данные,
// а не логика: конфиг может подменить любую целиком.

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Rules: []Rule{
			{Keyword: "criminal", Category: domain.CategoryCriminal},
			{Keyword: "penal", Category: domain.CategoryCriminal},
			{Keyword: "crime", Category: domain.CategoryCriminal},
			{Keyword: "trabalhist", Category: domain.CategoryLabor},
			{Keyword: "trabalho", Category: domain.CategoryLabor},
			{Keyword: "labor", Category: domain.CategoryLabor},
			{Keyword: "execu", Category: domain.CategoryExecution},
			{Keyword: "civil", Category: domain.CategoryCivil},
			{Keyword: "famil", Category: domain.CategoryFamily},
			{Keyword: "family", Category: domain.CategoryFamily},
			{Keyword: "consumidor", Category: domain.CategoryConsumer},
			{Keyword: "consumer", Category: domain.CategoryConsumer},
		},
		BaseScores: map[domain.SeverityCategory]float64{
			domain.CategoryCriminal:  100,
			domain.CategoryLabor:     70,
			domain.CategoryExecution: 60,
			domain.CategoryCivil:     40,
			domain.CategoryFamily:    30,
			domain.CategoryConsumer:  25,
		},
		DefaultBase: 10,
	}
}

func DefaultFactorConfig() FactorConfig {
	return FactorConfig{
		VolumeTiers: []VolumeTier{
			{UpTo: 0, Score: 0},
			{UpTo: 1, Score: 20},
			{UpTo: 2, Score: 35},
			{UpTo: 5, Score: 50},
			{UpTo: 10, Score: 70},
		},
		VolumePerExtraCase: 3,
		ValueTiers: []ValueTier{
			{Below: 10_000, Score: 20},
			{Below: 50_000, Score: 35},
			{Below: 100_000, Score: 50},
			{Below: 500_000, Score: 70},
		},
		ValueStepSize:  100_000,
		ValuePerStep:   5,
		DefendantRoles: []string{"réu", "reu", "ré", "executado", "executada", "demandado", "demandada", "requerido", "requerida"},
		PlaintiffRoles: []string{"autor", "autora", "exequente", "demandante", "requerente", "reclamante"},
	}
}
