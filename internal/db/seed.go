package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/smartschool/internal/models"
)

// DefaultBellSchedule — стандартная сетка звонков (9 уроков, большая перемена после 5-го).
var DefaultBellSchedule = [][2]string{
	{"08:00:00", "08:45:00"},
	{"08:55:00", "09:40:00"},
	{"09:50:00", "10:35:00"},
	{"10:45:00", "11:30:00"},
	{"11:40:00", "12:25:00"},
	{"13:25:00", "14:10:00"},
	{"14:20:00", "15:05:00"},
	{"15:15:00", "16:00:00"},
	{"16:10:00", "16:55:00"},
}

// SeedDefaultPeriods заполняет сетку звонков школы на учебный год, если она
// пустая. Возвращает число вставленных окон; существующие окна не трогает.
func SeedDefaultPeriods(ctx context.Context, database *sql.DB, school, term string) (int, error) {
	if school == "" || term == "" {
		return 0, fmt.Errorf("seed periods: school and term are required")
	}
	var count int
	err := database.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM period_windows WHERE school_code = $1 AND academic_term = $2`,
		school, term).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка при проверке таблицы period_windows: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()
	for i, w := range DefaultBellSchedule {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO period_windows (school_code, academic_term, period_no, start_time, end_time, period_name)
			VALUES ($1, $2, $3, $4, $5, '')
			ON CONFLICT (school_code, academic_term, period_no) DO NOTHING
		`, school, term, i+1, w[0], w[1])
		if err != nil {
			return 0, fmt.Errorf("insert period %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(DefaultBellSchedule), nil
}

// DefaultPeriods — та же сетка в виде моделей (для тестов и CLI без БД).
func DefaultPeriods(school, term string) []models.PeriodWindow {
	out := make([]models.PeriodWindow, 0, len(DefaultBellSchedule))
	for i, w := range DefaultBellSchedule {
		out = append(out, models.PeriodWindow{
			SchoolID: school, AcademicTerm: term, PeriodNo: i + 1, StartTime: w[0], EndTime: w[1],
		})
	}
	return out
}
