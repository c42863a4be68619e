package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pxlabs/kye-screener/internal/domain"
	"github.com/pxlabs/kye-screener/internal/metrics"
	"github.com/pxlabs/kye-screener/internal/records"
	"github.com/pxlabs/kye-screener/internal/repository"
)

// Assessor - пайплайн оценки одного субъекта (для подмены в тестах).
type Assessor interface {
	Assess(ctx context.Context, subjectID string) (*domain.RiskAssessment, error)
}

type BulkConfig struct {
	Workers int
}

type BulkDeps struct {
	Assessor Assessor
	History  repository.HistoryRepository // опционально
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Config   BulkConfig
}

// BulkService прогоняет пайплайн по списку субъектов под ограниченным
// пулом воркеров. Сбой одного субъекта - это его исход, а не исход
// батча.
type BulkService struct {
	assessor Assessor
	history  repository.HistoryRepository
	logger   *zap.Logger
	metrics  *metrics.Metrics
	config   BulkConfig
}

func NewBulkService(deps BulkDeps) *BulkService {
	if deps.Config.Workers <= 0 {
		deps.Config.Workers = 4
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &BulkService{
		assessor: deps.Assessor,
		history:  deps.History,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		config:   deps.Config,
	}
}

// Run возвращает ровно один исход на каждый входной id, в порядке
// входа, при любой конкуренции. Отмена контекста прекращает раздачу
// новых субъектов, уже посчитанные исходы не теряются.
func (s *BulkService) Run(ctx context.Context, subjects []domain.Subject) (*domain.BatchResult, error) {
	if len(subjects) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	startTime := time.Now()
	runID := uuid.New().String()

	if s.metrics != nil {
		s.metrics.IncBatchesInFlight()
		defer s.metrics.DecBatchesInFlight()
	}

	s.logger.Info("batch started",
		zap.String("run_id", runID),
		zap.Int("subjects", len(subjects)),
		zap.Int("workers", s.config.Workers),
	)

	outcomes := make([]domain.BatchOutcome, len(subjects))

	var g errgroup.Group
	g.SetLimit(s.config.Workers)

	for i, subject := range subjects {
		if err := ctx.Err(); err != nil {
			outcomes[i] = domain.BatchOutcome{
				Subject: subject,
				Status:  domain.OutcomeFailed,
				Reason:  "batch canceled before dispatch",
			}
			continue
		}

		i, subject := i, subject
		g.Go(func() error {
			outcomes[i] = s.processSubject(ctx, runID, subject)
			return nil
		})
	}

	// воркеры ошибок не возвращают, все исходы уже в slice
	_ = g.Wait()

	for _, o := range outcomes {
		if s.metrics != nil {
			s.metrics.RecordBatchOutcome(string(o.Status))
		}
	}

	result := &domain.BatchResult{
		RunID:    runID,
		Outcomes: outcomes,
		Summary:  domain.Summarize(outcomes),
		Elapsed:  time.Since(startTime),
	}

	s.logger.Info("batch finished",
		zap.String("run_id", runID),
		zap.Int("processed", result.Summary.Processed),
		zap.Int("not_found", result.Summary.NotFound),
		zap.Int("errors", result.Summary.Errors),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

func (s *BulkService) processSubject(ctx context.Context, runID string, subject domain.Subject) domain.BatchOutcome {
	subjectID, err := domain.NormalizeSubjectID(subject.ID)
	if err != nil {
		return domain.BatchOutcome{
			Subject: subject,
			Status:  domain.OutcomeFailed,
			Reason:  "invalid subject id: " + err.Error(),
		}
	}
	subject.ID = subjectID

	assessment, err := s.assessor.Assess(ctx, subjectID)
	if err != nil {
		s.logger.Warn("subject failed",
			zap.String("run_id", runID),
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		return domain.BatchOutcome{
			Subject: subject,
			Status:  domain.OutcomeFailed,
			Reason:  failureReason(err),
		}
	}

	s.saveHistory(ctx, runID, assessment)

	status := domain.OutcomeDone
	if assessment.CaseCount == 0 {
		// nada consta: валидная нулевая оценка, но отдельный исход
		status = domain.OutcomeNotFound
	}

	return domain.BatchOutcome{
		Subject:    subject,
		Status:     status,
		Assessment: assessment,
	}
}

// saveHistory - best-effort: история не должна ронять скрининг.
func (s *BulkService) saveHistory(ctx context.Context, runID string, a *domain.RiskAssessment) {
	if s.history == nil {
		return
	}

	if err := s.history.Save(ctx, runID, a); err != nil {
		s.logger.Warn("history save failed",
			zap.String("run_id", runID),
			zap.String("subject_id", a.SubjectID),
			zap.Error(err),
		)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, records.ErrUnauthorized):
		return "record provider rejected the credentials"
	case errors.Is(err, records.ErrRateLimit):
		return "record provider rate limit exceeded"
	case errors.Is(err, records.ErrUnavailable):
		return "record provider unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "record fetch timed out"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return err.Error()
	}
}
