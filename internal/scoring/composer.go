package scoring

import (
	"fmt"
	"math"

	"github.com/pxlabs/kye-screener/internal/domain"
)

const weightTolerance = 1e-6

// Weights - веса четырех факторов, сумма должна быть 1.0.
// Никакой тихой ренормализации: кривой конфиг - это отказ на старте.
type Weights struct {
	ProcessVolume     float64
	DefendantRole     float64
	CaseSeverity      float64
	FinancialExposure float64
}

func DefaultWeights() Weights {
	return Weights{
		ProcessVolume:     0.25,
		DefendantRole:     0.30,
		CaseSeverity:      0.25,
		FinancialExposure: 0.20,
	}
}

func (w Weights) Sum() float64 {
	return w.ProcessVolume + w.DefendantRole + w.CaseSeverity + w.FinancialExposure
}

func (w Weights) Validate() error {
	for _, v := range []float64{w.ProcessVolume, w.DefendantRole, w.CaseSeverity, w.FinancialExposure} {
		if v < 0 {
			return fmt.Errorf("%w: %f", domain.ErrNegativeWeight, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("%w: got %.6f", domain.ErrInvalidWeights, w.Sum())
	}
	return nil
}

// Composer - чистая свертка факторов в итоговый балл и уровень.
type Composer struct {
	weights Weights
}

func NewComposer(w Weights) (*Composer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Composer{weights: w}, nil
}

func (c *Composer) Weights() Weights { return c.weights }

// Compose - тотальная детерминированная функция: для любых валидных
// факторов один и тот же балл и уровень.
func (c *Composer) Compose(f domain.FactorScores) (float64, domain.RiskLevel) {
	score := f.ProcessVolume*c.weights.ProcessVolume +
		f.DefendantRole*c.weights.DefendantRole +
		f.CaseSeverity*c.weights.CaseSeverity +
		f.FinancialExposure*c.weights.FinancialExposure

	score = clamp(score)
	return score, domain.LevelForScore(score)
}
