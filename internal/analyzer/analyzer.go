package analyzer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pxlabs/kye-screener/internal/domain"
	"github.com/pxlabs/kye-screener/internal/llm"
	"github.com/pxlabs/kye-screener/internal/metrics"
	"github.com/pxlabs/kye-screener/internal/ratelimit"
)

const systemPrompt = `You are a Know-Your-Employee (KYE) risk analyst for HR departments in Brazil. You receive a condensed summary of a person's judicial processes and produce a brief employment-risk assessment.

Respond in exactly this format:

RISK LEVEL: [Low/Medium/High/Critical]

KEY INSIGHTS:
- [2-3 bullet points about the main findings]

RED FLAGS:
- [List specific concerns, or write "None identified" if clean]

RECOMMENDATION:
- [One word or short phrase: approve, review, or reject]

Keep your response under 200 words and focus on employment risk factors.`

// Analyzer - консультативный слой поверх числовой оценки. Никогда не
// возвращает ошибку: любой сбой деградирует в Available=false, числовой
// результат от этого не страдает.
type Analyzer struct {
	llm      llm.Client
	limiter  *ratelimit.Limiter
	logger   *zap.Logger
	metrics  *metrics.Metrics
	provider string
}

// New: nil llmClient = анализатор выключен (не настроен ключ внешнего
// сервиса), это штатный режим, а не ошибка.
func New(llmClient llm.Client, limiter *ratelimit.Limiter, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		llm:     llmClient,
		limiter: limiter,
		logger:  logger,
	}
}

// WithMetrics включает инструментацию вызовов текстового сервиса.
func (a *Analyzer) WithMetrics(m *metrics.Metrics, provider string) *Analyzer {
	a.metrics = m
	a.provider = provider
	return a
}

func (a *Analyzer) Available() bool {
	return a.llm != nil
}

// Analyze строит сжатый промпт по сводке досье и разбирает секции из
// ответа. Сетевые вызовы идут строго через общий rate limiter.
func (a *Analyzer) Analyze(ctx context.Context, subjectID string, summary domain.DocketSummary) domain.QualitativeAnalysis {
	if a.llm == nil {
		return domain.QualitativeAnalysis{
			Available: false,
			Reason:    "qualitative analysis disabled: no service credential configured",
		}
	}

	// чистая история - нечего спрашивать у модели, слот лимитера не тратим
	if summary.CaseCount == 0 {
		return domain.QualitativeAnalysis{
			Available:      true,
			Insights:       []string{"No judicial processes found. Clean background check."},
			Recommendation: "approve",
		}
	}

	if a.limiter != nil {
		waitStart := time.Now()
		if err := a.limiter.Acquire(ctx); err != nil {
			return unavailable("rate limiter wait canceled: " + err.Error())
		}
		if a.metrics != nil {
			a.metrics.RecordRateLimitWait(time.Since(waitStart))
		}
	}

	prompt := buildPrompt(subjectID, summary)

	callStart := time.Now()
	response, err := a.llm.CompleteWithSystem(ctx, systemPrompt, prompt)
	if a.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		a.metrics.RecordLLMRequest(a.provider, status, time.Since(callStart))
	}
	if err != nil {
		a.logger.Warn("qualitative analysis failed",
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		return unavailable(reasonFor(err))
	}

	result := parseResponse(response)
	a.logger.Debug("qualitative analysis parsed",
		zap.String("subject_id", subjectID),
		zap.Int("insights", len(result.Insights)),
		zap.Int("red_flags", len(result.RedFlags)),
	)
	return result
}

func unavailable(reason string) domain.QualitativeAnalysis {
	return domain.QualitativeAnalysis{
		Available:      false,
		Reason:         reason,
		Recommendation: "review",
	}
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, llm.ErrAuthFailed):
		return "text service rejected the credential"
	case errors.Is(err, llm.ErrRateLimit):
		return "text service quota exceeded"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "text service returned an empty response"
	case errors.Is(err, context.DeadlineExceeded):
		return "text service call timed out"
	default:
		return "text service unavailable: " + err.Error()
	}
}
