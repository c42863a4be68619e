package domain

import "time"

type OutcomeStatus string

const (
	OutcomeDone     OutcomeStatus = "done"
	OutcomeNotFound OutcomeStatus = "not_found"
	OutcomeFailed   OutcomeStatus = "failed"
)

func (s OutcomeStatus) IsValid() bool {
	switch s {
	case OutcomeDone, OutcomeNotFound, OutcomeFailed:
		return true
	}
	return false
}

// BatchOutcome - результат по одному субъекту. Для not_found Assessment
// тоже заполнен (нулевая оценка, чистая история).
type BatchOutcome struct {
	Subject    Subject
	Status     OutcomeStatus
	Assessment *RiskAssessment
	Reason     string // причина для failed
}

// BatchResult - результат батча. Outcomes строго в порядке входного списка.
type BatchResult struct {
	RunID    string
	Outcomes []BatchOutcome
	Summary  BatchSummary
	Elapsed  time.Duration
}

type BatchSummary struct {
	Total     int
	Processed int
	NotFound  int
	Errors    int
	Levels    map[RiskLevel]int
}

// Summarize - один проход по списку результатов. Коммутативно:
// порядок элементов на агрегаты не влияет.
func Summarize(outcomes []BatchOutcome) BatchSummary {
	s := BatchSummary{
		Total:  len(outcomes),
		Levels: make(map[RiskLevel]int),
	}

	for _, o := range outcomes {
		switch o.Status {
		case OutcomeDone:
			s.Processed++
			if o.Assessment != nil {
				s.Levels[o.Assessment.Level]++
			}
		case OutcomeNotFound:
			s.NotFound++
		case OutcomeFailed:
			s.Errors++
		}
	}

	return s
}
