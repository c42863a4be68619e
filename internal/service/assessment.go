package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pxlabs/kye-screener/internal/analyzer"
	"github.com/pxlabs/kye-screener/internal/cache"
	"github.com/pxlabs/kye-screener/internal/domain"
	"github.com/pxlabs/kye-screener/internal/metrics"
	"github.com/pxlabs/kye-screener/internal/records"
	"github.com/pxlabs/kye-screener/internal/scoring"
)

type AssessmentConfig struct {
	FetchTimeout   time.Duration
	AnalyzeTimeout time.Duration
	CacheTTL       time.Duration
}

// AssessmentDeps - зависимости пайплайна оценки одного субъекта.
type AssessmentDeps struct {
	Records  records.Client
	Scorer   *scoring.Scorer
	Composer *scoring.Composer
	Analyzer *analyzer.Analyzer
	Cache    cache.RecordCache
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Config   AssessmentConfig
}

type AssessmentService struct {
	records  records.Client
	scorer   *scoring.Scorer
	composer *scoring.Composer
	analyzer *analyzer.Analyzer
	cache    cache.RecordCache
	logger   *zap.Logger
	metrics  *metrics.Metrics
	config   AssessmentConfig
}

func NewAssessmentService(deps AssessmentDeps) *AssessmentService {
	if deps.Config.FetchTimeout == 0 {
		deps.Config.FetchTimeout = 30 * time.Second
	}
	if deps.Config.AnalyzeTimeout == 0 {
		deps.Config.AnalyzeTimeout = 60 * time.Second
	}
	if deps.Config.CacheTTL == 0 {
		deps.Config.CacheTTL = time.Hour
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &AssessmentService{
		records:  deps.Records,
		scorer:   deps.Scorer,
		composer: deps.Composer,
		analyzer: deps.Analyzer,
		cache:    deps.Cache,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		config:   deps.Config,
	}
}

// Assess гоняет полный пайплайн: fetch -> score -> compose -> enrich.
// Числовая часть обязана отработать или вернуть ошибку; качественный
// блок best-effort и сам деградирует в unavailable.
func (s *AssessmentService) Assess(ctx context.Context, subjectID string) (*domain.RiskAssessment, error) {
	startTime := time.Now()

	cases, err := s.fetchRecords(ctx, subjectID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordAssessment("none", "fetch_error", false, time.Since(startTime))
		}
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	factors := s.scorer.Score(cases)
	score, level := s.composer.Compose(factors)

	assessment := &domain.RiskAssessment{
		SubjectID: subjectID,
		CaseCount: len(cases),
		Factors:   factors,
		Score:     score,
		Level:     level,
		CreatedAt: time.Now().UTC(),
	}

	analyzeCtx, cancel := context.WithTimeout(ctx, s.config.AnalyzeTimeout)
	assessment.Qualitative = s.analyzer.Analyze(analyzeCtx, subjectID, s.scorer.Summarize(cases))
	cancel()

	s.logger.Info("subject assessed",
		zap.String("subject_id", subjectID),
		zap.Int("case_count", assessment.CaseCount),
		zap.Float64("score", assessment.Score),
		zap.String("level", assessment.Level.String()),
		zap.Bool("qualitative", assessment.Qualitative.Available),
	)

	if s.metrics != nil {
		s.metrics.RecordAssessment(level.String(), "ok", assessment.Qualitative.Available, time.Since(startTime))
	}

	return assessment, nil
}

func (s *AssessmentService) fetchRecords(ctx context.Context, subjectID string) ([]domain.CaseRecord, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(subjectID); ok {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout)
	defer cancel()

	fetchStart := time.Now()
	cases, err := s.records.FetchBySubject(fetchCtx, subjectID)
	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.RecordFetch(status, time.Since(fetchStart))
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(subjectID, cases, s.config.CacheTTL)
	}

	return cases, nil
}
