package repository

import (
	"context"

	"github.com/pxlabs/kye-screener/internal/domain"
)

// HistoryRepository - журнал выполненных оценок. Пишется best-effort:
// недоступность истории не должна ломать сам скрининг.
type HistoryRepository interface {
	Save(ctx context.Context, runID string, assessment *domain.RiskAssessment) error
	ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.RiskAssessment, error)
	CountBySubject(ctx context.Context, subjectID string) (int, error)
}
