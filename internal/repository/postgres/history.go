package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pxlabs/kye-screener/internal/domain"
)

const redFlagSeparator = "; "

type HistoryRepo struct {
	db *DB
}

func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Save(ctx context.Context, runID string, a *domain.RiskAssessment) error {
	query := `
        INSERT INTO assessments (
            id, run_id, subject_id, case_count,
            volume_score, defendant_score, severity_score, financial_score,
            score, level, red_flags, recommendation, qualitative_available, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `

	_, err := r.db.Pool.Exec(ctx, query,
		uuid.New().String(),
		runID,
		a.SubjectID,
		a.CaseCount,
		a.Factors.ProcessVolume,
		a.Factors.DefendantRole,
		a.Factors.CaseSeverity,
		a.Factors.FinancialExposure,
		a.Score,
		a.Level.String(),
		strings.Join(a.Qualitative.RedFlags, redFlagSeparator),
		a.Qualitative.Recommendation,
		a.Qualitative.Available,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}

	return nil
}

func (r *HistoryRepo) ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.RiskAssessment, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
        SELECT subject_id, case_count,
               volume_score, defendant_score, severity_score, financial_score,
               score, level, red_flags, recommendation, qualitative_available, created_at
        FROM assessments
        WHERE subject_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := r.db.Pool.Query(ctx, query, subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []domain.RiskAssessment
	for rows.Next() {
		var a domain.RiskAssessment
		var level, redFlags string

		err := rows.Scan(
			&a.SubjectID,
			&a.CaseCount,
			&a.Factors.ProcessVolume,
			&a.Factors.DefendantRole,
			&a.Factors.CaseSeverity,
			&a.Factors.FinancialExposure,
			&a.Score,
			&level,
			&redFlags,
			&a.Qualitative.Recommendation,
			&a.Qualitative.Available,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}

		a.Level = domain.RiskLevel(level)
		if redFlags != "" {
			a.Qualitative.RedFlags = strings.Split(redFlags, redFlagSeparator)
		}

		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}

	return out, nil
}

func (r *HistoryRepo) CountBySubject(ctx context.Context, subjectID string) (int, error) {
	query := `SELECT COUNT(*) FROM assessments WHERE subject_id = $1`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, subjectID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("count assessments: %w", err)
	}

	return count, nil
}
