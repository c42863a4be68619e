package domain

import "testing"

func TestOutcomeStatus_IsValid(t *testing.T) {
	for _, s := range []OutcomeStatus{OutcomeDone, OutcomeNotFound, OutcomeFailed} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if OutcomeStatus("pending").IsValid() {
		t.Error("unknown status should be invalid")
	}
}

func TestSummarize(t *testing.T) {
	outcomes := []BatchOutcome{
		{Status: OutcomeDone, Assessment: &RiskAssessment{Level: LevelLow}},
		{Status: OutcomeDone, Assessment: &RiskAssessment{Level: LevelCritical}},
		{Status: OutcomeNotFound, Assessment: &RiskAssessment{Level: LevelLow}},
		{Status: OutcomeNotFound, Assessment: &RiskAssessment{Level: LevelLow}},
		{Status: OutcomeFailed, Reason: "network error"},
	}

	s := Summarize(outcomes)

	if s.Total != 5 {
		t.Errorf("Total = %d, want 5", s.Total)
	}
	if s.Processed != 2 {
		t.Errorf("Processed = %d, want 2", s.Processed)
	}
	if s.NotFound != 2 {
		t.Errorf("NotFound = %d, want 2", s.NotFound)
	}
	if s.Errors != 1 {
		t.Errorf("Errors = %d, want 1", s.Errors)
	}

	// Уровни считаются только по done: чистые досье из not_found не
	// должны раздувать счетчик low.
	if s.Levels[LevelLow] != 1 {
		t.Errorf("Levels[low] = %d, want 1", s.Levels[LevelLow])
	}
	if s.Levels[LevelCritical] != 1 {
		t.Errorf("Levels[critical] = %d, want 1", s.Levels[LevelCritical])
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	a := []BatchOutcome{
		{Status: OutcomeDone, Assessment: &RiskAssessment{Level: LevelHigh}},
		{Status: OutcomeFailed},
		{Status: OutcomeNotFound},
	}
	b := []BatchOutcome{a[2], a[0], a[1]}

	sa, sb := Summarize(a), Summarize(b)
	if sa.Processed != sb.Processed || sa.NotFound != sb.NotFound || sa.Errors != sb.Errors {
		t.Errorf("summaries differ by order: %+v vs %+v", sa, sb)
	}
	if sa.Levels[LevelHigh] != sb.Levels[LevelHigh] {
		t.Errorf("level counts differ by order")
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Processed != 0 || s.NotFound != 0 || s.Errors != 0 {
		t.Errorf("empty batch summary should be all zero, got %+v", s)
	}
}
