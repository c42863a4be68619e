package cache

import (
	"time"

	"github.com/pxlabs/kye-screener/internal/domain"
)

// RecordCache кеширует списки дел по subject id: дубли CPF в одном
// батче не должны бить по провайдеру повторно.
type RecordCache interface {
	Get(subjectID string) ([]domain.CaseRecord, bool)
	Set(subjectID string, records []domain.CaseRecord, ttl time.Duration)
	Delete(subjectID string)
	Stop()
}
