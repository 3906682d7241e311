package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/smartschool/internal/models"
)

// ListPeriodWindows — окна уроков школы за учебный год, по номеру урока.
func ListPeriodWindows(ctx context.Context, database *sql.DB, school, term string) ([]models.PeriodWindow, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT school_code, academic_term, period_no, start_time, end_time, period_name
		FROM period_windows
		WHERE school_code = $1 AND academic_term = $2
		ORDER BY period_no
	`, school, term)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.PeriodWindow{}
	for rows.Next() {
		var p models.PeriodWindow
		if err := rows.Scan(&p.SchoolID, &p.AcademicTerm, &p.PeriodNo, &p.StartTime, &p.EndTime, &p.DisplayName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertPeriodWindow — вставка или замена окна по (school, term, period_no).
func UpsertPeriodWindow(ctx context.Context, database *sql.DB, p models.PeriodWindow) error {
	if p.PeriodNo <= 0 {
		return fmt.Errorf("period number must be positive, got %d", p.PeriodNo)
	}
	_, err := database.ExecContext(ctx, `
		INSERT INTO period_windows (school_code, academic_term, period_no, start_time, end_time, period_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (school_code, academic_term, period_no)
		DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, period_name = EXCLUDED.period_name
	`, p.SchoolID, p.AcademicTerm, p.PeriodNo, p.StartTime, p.EndTime, p.DisplayName)
	return err
}
