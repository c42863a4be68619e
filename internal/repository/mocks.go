package repository

import (
	"context"
	"sync"

	"github.com/pxlabs/kye-screener/internal/domain"
)

// MockHistoryRepo - in-memory история для unit-тестов.
type MockHistoryRepo struct {
	mu          sync.Mutex
	assessments []savedAssessment

	SaveErr error
}

type savedAssessment struct {
	runID      string
	assessment domain.RiskAssessment
}

func NewMockHistoryRepo() *MockHistoryRepo {
	return &MockHistoryRepo{}
}

func (m *MockHistoryRepo) Save(ctx context.Context, runID string, a *domain.RiskAssessment) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessments = append(m.assessments, savedAssessment{runID: runID, assessment: *a})
	return nil
}

func (m *MockHistoryRepo) ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.RiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.RiskAssessment
	for i := len(m.assessments) - 1; i >= 0; i-- {
		if m.assessments[i].assessment.SubjectID == subjectID {
			out = append(out, m.assessments[i].assessment)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockHistoryRepo) CountBySubject(ctx context.Context, subjectID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, s := range m.assessments {
		if s.assessment.SubjectID == subjectID {
			count++
		}
	}
	return count, nil
}

func (m *MockHistoryRepo) SavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.assessments)
}

var _ HistoryRepository = (*MockHistoryRepo)(nil)
