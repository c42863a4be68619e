package scoring

import (
	"errors"
	"testing"

	"github.com/pxlabs/kye-screener/internal/domain"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()

	classifier, err := NewClassifier(DefaultClassifierConfig())
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}
	scorer, err := NewScorer(classifier, DefaultFactorConfig())
	if err != nil {
		t.Fatalf("NewScorer failed: %v", err)
	}
	return scorer
}

func floatPtr(v float64) *float64 { return &v }

func defendantCase(class string, value *float64) domain.CaseRecord {
	return domain.CaseRecord{Number: "0001", Class: class, Role: "Réu", Value: value}
}

func TestNewScorer_Validation(t *testing.T) {
	classifier, err := NewClassifier(DefaultClassifierConfig())
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*FactorConfig)
		wantErr error
	}{
		{
			name:    "empty volume tiers",
			mutate:  func(c *FactorConfig) { c.VolumeTiers = nil },
			wantErr: domain.ErrEmptyTierTable,
		},
		{
			name:    "empty value tiers",
			mutate:  func(c *FactorConfig) { c.ValueTiers = nil },
			wantErr: domain.ErrEmptyTierTable,
		},
		{
			name: "unordered volume tiers",
			mutate: func(c *FactorConfig) {
				c.VolumeTiers = []VolumeTier{{UpTo: 5, Score: 50}, {UpTo: 2, Score: 35}}
			},
			wantErr: domain.ErrUnorderedTiers,
		},
		{
			name: "unordered value tiers",
			mutate: func(c *FactorConfig) {
				c.ValueTiers = []ValueTier{{Below: 50_000, Score: 35}, {Below: 10_000, Score: 20}}
			},
			wantErr: domain.ErrUnorderedTiers,
		},
		{
			name:    "empty defendant vocabulary",
			mutate:  func(c *FactorConfig) { c.DefendantRoles = nil },
			wantErr: domain.ErrEmptyVocabulary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultFactorConfig()
			tt.mutate(&cfg)

			_, err := NewScorer(classifier, cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestScorer_EmptyDocket(t *testing.T) {
	scorer := newTestScorer(t)

	got := scorer.Score(nil)
	if got != (domain.FactorScores{}) {
		t.Errorf("Empty docket must produce zero factors, got %+v", got)
	}
}

func TestScorer_VolumeScore(t *testing.T) {
	scorer := newTestScorer(t)

	tests := []struct {
		count int
		want  float64
	}{
		{1, 20},
		{2, 35},
		{3, 50},
		{5, 50},
		{6, 70},
		{10, 70},
		{11, 73},
		{15, 85},
		{20, 100},
		{50, 100}, // clamp
	}

	for _, tt := range tests {
		cases := make([]domain.CaseRecord, tt.count)
		for i := range cases {
			cases[i] = defendantCase("Civil", nil)
		}

		got := scorer.Score(cases).ProcessVolume
		if got != tt.want {
			t.Errorf("volume score for %d cases = %f, want %f", tt.count, got, tt.want)
		}
	}
}

func TestScorer_DefendantScore(t *testing.T) {
	scorer := newTestScorer(t)

	tests := []struct {
		name  string
		roles []string
		want  float64
	}{
		{"all defendants", []string{"Réu", "Executado", "Requerida"}, 100},
		{"no defendants", []string{"Autor", "Exequente"}, 0},
		{"half", []string{"Réu", "Autor"}, 50},
		{"unknown role counts as non-defendant", []string{"Réu", "Terceiro Interessado"}, 50},
		{"case-insensitive match", []string{"RÉU", "réu"}, 100},
		{"substring match", []string{"Réu/Executado"}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases := make([]domain.CaseRecord, len(tt.roles))
			for i, role := range tt.roles {
				cases[i] = domain.CaseRecord{Class: "Civil", Role: role}
			}

			got := scorer.Score(cases).DefendantRole
			if got != tt.want {
				t.Errorf("defendant score = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScorer_SeverityScore_Mean(t *testing.T) {
	scorer := newTestScorer(t)

	// Среднее, не максимум: одно уголовное дело среди трех гражданских
	// не должно утащить фактор к 100.
	cases := []domain.CaseRecord{
		defendantCase("Ação Penal", nil),  // 100
		defendantCase("Procedimento Civil", nil), // 40
		defendantCase("Procedimento Civil", nil), // 40
		defendantCase("Procedimento Civil", nil), // 40
	}

	got := scorer.Score(cases).CaseSeverity
	if got != 55 {
		t.Errorf("severity score = %f, want mean 55", got)
	}
}

func TestScorer_FinancialScore(t *testing.T) {
	scorer := newTestScorer(t)

	tests := []struct {
		name   string
		values []*float64
		want   float64
	}{
		{"no values", []*float64{nil, nil}, 20},
		{"below 10k", []*float64{floatPtr(5_000)}, 20},
		{"below 50k", []*float64{floatPtr(30_000)}, 35},
		{"below 100k", []*float64{floatPtr(99_999)}, 50},
		{"below 500k", []*float64{floatPtr(400_000)}, 70},
		{"at 500k", []*float64{floatPtr(500_000)}, 70},
		{"600k overflow", []*float64{floatPtr(600_000)}, 75},
		{"summed across cases", []*float64{floatPtr(300_000), floatPtr(300_000)}, 75},
		{"nil values skipped", []*float64{floatPtr(600_000), nil}, 75},
		{"clamped", []*float64{floatPtr(10_000_000)}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases := make([]domain.CaseRecord, len(tt.values))
			for i, v := range tt.values {
				cases[i] = defendantCase("Civil", v)
			}

			got := scorer.Score(cases).FinancialExposure
			if got != tt.want {
				t.Errorf("financial score = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScorer_Bounds(t *testing.T) {
	scorer := newTestScorer(t)

	// Экстремальное досье: все факторы обязаны остаться в [0, 100].
	cases := make([]domain.CaseRecord, 200)
	for i := range cases {
		cases[i] = defendantCase("Ação Penal", floatPtr(1_000_000))
	}

	f := scorer.Score(cases)
	for name, v := range map[string]float64{
		"volume":    f.ProcessVolume,
		"defendant": f.DefendantRole,
		"severity":  f.CaseSeverity,
		"financial": f.FinancialExposure,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s score %f out of [0, 100]", name, v)
		}
	}
}

func TestScorer_Idempotent(t *testing.T) {
	scorer := newTestScorer(t)

	cases := []domain.CaseRecord{
		defendantCase("Ação Penal", floatPtr(120_000)),
		{Class: "Trabalhista", Role: "Reclamante", Value: floatPtr(30_000)},
		{Class: "Execução Fiscal", Role: "Executado"},
	}

	first := scorer.Score(cases)
	for i := 0; i < 50; i++ {
		if got := scorer.Score(cases); got != first {
			t.Fatalf("Run %d: score changed from %+v to %+v", i, first, got)
		}
	}
}

func TestScorer_Summarize(t *testing.T) {
	scorer := newTestScorer(t)

	cases := []domain.CaseRecord{
		defendantCase("Ação Penal", floatPtr(100_000)),
		defendantCase("Execução Fiscal", floatPtr(50_000)),
		{Class: "Procedimento Civil", Role: "Autor", Value: nil},
		{Class: "Inventário", Role: "Terceiro"},
	}

	sum := scorer.Summarize(cases)

	if sum.CaseCount != 4 {
		t.Errorf("CaseCount = %d, want 4", sum.CaseCount)
	}
	if sum.Defendant != 2 {
		t.Errorf("Defendant = %d, want 2", sum.Defendant)
	}
	if sum.Plaintiff != 1 {
		t.Errorf("Plaintiff = %d, want 1", sum.Plaintiff)
	}
	if sum.OtherRole != 1 {
		t.Errorf("OtherRole = %d, want 1", sum.OtherRole)
	}
	if sum.TotalValue != 150_000 {
		t.Errorf("TotalValue = %f, want 150000", sum.TotalValue)
	}
	if sum.Categories[domain.CategoryCriminal] != 1 {
		t.Errorf("criminal count = %d, want 1", sum.Categories[domain.CategoryCriminal])
	}
	if sum.Categories[domain.CategoryOther] != 1 {
		t.Errorf("other count = %d, want 1", sum.Categories[domain.CategoryOther])
	}
}
