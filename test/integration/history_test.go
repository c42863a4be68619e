package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pxlabs/kye-screener/internal/domain"
	pgRepo "github.com/pxlabs/kye-screener/internal/repository/postgres"
)

var testDB *pgRepo.DB

func TestMain(m *testing.M) {
	if os.Getenv("SHORT_TESTS") == "1" {
		os.Exit(0)
	}

	ctx := context.Background()

	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		panic(err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	testDB, err = pgRepo.New(ctx, connStr)
	if err != nil {
		panic(err)
	}

	_, err = testDB.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS assessments (
            id UUID PRIMARY KEY,
            run_id TEXT NOT NULL,
            subject_id TEXT NOT NULL,
            case_count INT NOT NULL,
            volume_score DOUBLE PRECISION NOT NULL,
            defendant_score DOUBLE PRECISION NOT NULL,
            severity_score DOUBLE PRECISION NOT NULL,
            financial_score DOUBLE PRECISION NOT NULL,
            score DOUBLE PRECISION NOT NULL,
            level TEXT NOT NULL,
            red_flags TEXT NOT NULL DEFAULT '',
            recommendation TEXT NOT NULL DEFAULT '',
            qualitative_available BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_assessments_subject ON assessments (subject_id, created_at DESC);
    `)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	testDB.Close()
	_ = pgContainer.Terminate(ctx)

	os.Exit(code)
}

func sampleAssessment(subjectID string, score float64) *domain.RiskAssessment {
	return &domain.RiskAssessment{
		SubjectID: subjectID,
		CaseCount: 3,
		Factors: domain.FactorScores{
			ProcessVolume:     50,
			DefendantRole:     100,
			CaseSeverity:      100,
			FinancialExposure: 75,
		},
		Score: score,
		Level: domain.LevelForScore(score),
		Qualitative: domain.QualitativeAnalysis{
			Available:      true,
			RedFlags:       []string{"Active criminal case", "High exposure"},
			Recommendation: "reject",
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestHistoryRepo_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := pgRepo.NewHistoryRepo(testDB)

	subjectID := "11122233344"
	if err := repo.Save(ctx, "run-1", sampleAssessment(subjectID, 82.5)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	list, err := repo.ListBySubject(ctx, subjectID, 10)
	if err != nil {
		t.Fatalf("ListBySubject failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 assessment, got %d", len(list))
	}

	got := list[0]
	if got.SubjectID != subjectID || got.CaseCount != 3 {
		t.Errorf("Unexpected row: %+v", got)
	}
	if got.Score != 82.5 || got.Level != domain.LevelCritical {
		t.Errorf("score/level = %f/%s", got.Score, got.Level)
	}
	if got.Factors.DefendantRole != 100 {
		t.Errorf("defendant factor = %f, want 100", got.Factors.DefendantRole)
	}
	if len(got.Qualitative.RedFlags) != 2 || got.Qualitative.RedFlags[0] != "Active criminal case" {
		t.Errorf("RedFlags = %v", got.Qualitative.RedFlags)
	}
	if got.Qualitative.Recommendation != "reject" || !got.Qualitative.Available {
		t.Errorf("qualitative = %+v", got.Qualitative)
	}
}

func TestHistoryRepo_ListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := pgRepo.NewHistoryRepo(testDB)

	subjectID := "55566677788"
	for i, score := range []float64{10, 40, 90} {
		a := sampleAssessment(subjectID, score)
		a.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		if err := repo.Save(ctx, "run-order", a); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}

	list, err := repo.ListBySubject(ctx, subjectID, 2)
	if err != nil {
		t.Fatalf("ListBySubject failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected limit 2, got %d rows", len(list))
	}
	// свежие записи первыми
	if list[0].Score != 90 || list[1].Score != 40 {
		t.Errorf("Wrong order: %f, %f", list[0].Score, list[1].Score)
	}
}

func TestHistoryRepo_CountBySubject(t *testing.T) {
	ctx := context.Background()
	repo := pgRepo.NewHistoryRepo(testDB)

	subjectID := "99988877766"

	count, err := repo.CountBySubject(ctx, subjectID)
	if err != nil {
		t.Fatalf("CountBySubject failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 for unseen subject, got %d", count)
	}

	for i := 0; i < 3; i++ {
		if err := repo.Save(ctx, "run-count", sampleAssessment(subjectID, 50)); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}

	count, err = repo.CountBySubject(ctx, subjectID)
	if err != nil {
		t.Fatalf("CountBySubject failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3, got %d", count)
	}
}

func TestHistoryRepo_NoRedFlags(t *testing.T) {
	ctx := context.Background()
	repo := pgRepo.NewHistoryRepo(testDB)

	subjectID := "12121212121"
	a := sampleAssessment(subjectID, 5)
	a.Qualitative.RedFlags = nil

	if err := repo.Save(ctx, "run-clean", a); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	list, err := repo.ListBySubject(ctx, subjectID, 1)
	if err != nil {
		t.Fatalf("ListBySubject failed: %v", err)
	}
	if len(list[0].Qualitative.RedFlags) != 0 {
		t.Errorf("Empty red flags should round-trip empty, got %v", list[0].Qualitative.RedFlags)
	}
}
