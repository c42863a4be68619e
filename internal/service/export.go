package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pxlabs/kye-screener/internal/domain"
)

// ExportHeader - колонки экспортной таблицы, по одной строке на
// входной идентификатор.
var ExportHeader = []string{
	"id",
	"score",
	"level",
	"process_volume_score",
	"defendant_score",
	"severity_score",
	"financial_score",
	"red_flags",
	"recommendation",
	"qualitative_available",
}

// ExportRows разворачивает батч в таблицу. Порядок строк = порядок
// входного списка. Для failed-исходов числовые поля пустые, причина
// уходит в колонку red_flags как пометка.
func ExportRows(result *domain.BatchResult) [][]string {
	rows := make([][]string, 0, len(result.Outcomes))

	for _, o := range result.Outcomes {
		if o.Status == domain.OutcomeFailed || o.Assessment == nil {
			rows = append(rows, []string{
				o.Subject.ID,
				"", "", "", "", "", "",
				"error: " + o.Reason,
				"manual verification required",
				"false",
			})
			continue
		}

		a := o.Assessment
		rows = append(rows, []string{
			a.SubjectID,
			formatScore(a.Score),
			a.Level.String(),
			formatScore(a.Factors.ProcessVolume),
			formatScore(a.Factors.DefendantRole),
			formatScore(a.Factors.CaseSeverity),
			formatScore(a.Factors.FinancialExposure),
			strings.Join(a.Qualitative.RedFlags, "; "),
			a.Qualitative.Recommendation,
			strconv.FormatBool(a.Qualitative.Available),
		})
	}

	return rows
}

func WriteCSV(w io.Writer, result *domain.BatchResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range ExportRows(result) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
