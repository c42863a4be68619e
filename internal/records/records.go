package records

import (
	"context"
	"errors"

	"github.com/pxlabs/kye-screener/internal/domain"
)

var (
	ErrUnauthorized   = errors.New("invalid provider credentials")
	ErrRateLimit      = errors.New("provider rate limit exceeded")
	ErrInvalidRequest = errors.New("invalid request parameters")
	ErrUnavailable    = errors.New("provider unavailable")
	ErrFetchFailed    = errors.New("fetch request failed")
)

// Client - провайдер судебных дел. Пустой список без ошибки = чистая
// история ("nada consta").
type Client interface {
	FetchBySubject(ctx context.Context, subjectID string) ([]domain.CaseRecord, error)
}
