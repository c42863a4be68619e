package domain

import (
	"strings"
	"time"
	"unicode"
)

// CaseRecord - одно судебное дело субъекта, как его отдает провайдер.
// Не мутируется после получения.
type CaseRecord struct {
	Number  string // numeroProcessoUnico (CNJ)
	Court   string
	Class   string // тип дела, свободный текст ("Ação Penal", "Execução Fiscal"...)
	Role    string // роль субъекта в деле, свободный текст ("Réu", "Autor"...)
	Value   *float64
	FiledAt *time.Time
}

// SeverityCategory - категория тяжести дела, выводится классификатором.
type SeverityCategory string

const (
	CategoryCriminal  SeverityCategory = "criminal"
	CategoryLabor     SeverityCategory = "labor"
	CategoryExecution SeverityCategory = "execution"
	CategoryCivil     SeverityCategory = "civil"
	CategoryFamily    SeverityCategory = "family"
	CategoryConsumer  SeverityCategory = "consumer"
	CategoryOther     SeverityCategory = "other"
)

func (c SeverityCategory) String() string { return string(c) }

// Subject - проверяемое лицо, идентифицируется по CPF.
type Subject struct {
	ID    string // нормализованный CPF (11 цифр)
	Label string // опциональная подпись из входного файла
}

// NormalizeSubjectID убирает точки/дефисы из CPF и проверяет длину.
func NormalizeSubjectID(raw string) (string, error) {
	var sb strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}

	id := sb.String()
	if id == "" {
		return "", ErrEmptySubjectID
	}
	if len(id) != 11 {
		return "", ErrInvalidSubjectID
	}
	return id, nil
}

// DocketSummary - сводка по списку дел для промпта анализатора.
type DocketSummary struct {
	CaseCount  int
	Defendant  int
	Plaintiff  int
	OtherRole  int
	Categories map[SeverityCategory]int
	TotalValue float64
}
