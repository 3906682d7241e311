package db

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/Spok95/smartschool/internal/models"
)

const slotColumns = `id, school_code, academic_term, teacher_id, day_of_week, period_no, subject_name, class_group_id, room_code`

func scanSlots(rows *sql.Rows) ([]models.ScheduleSlot, error) {
	defer func() { _ = rows.Close() }()
	out := []models.ScheduleSlot{}
	for rows.Next() {
		var s models.ScheduleSlot
		if err := rows.Scan(&s.ID, &s.SchoolID, &s.AcademicTerm, &s.TeacherID, &s.DayOfWeek,
			&s.PeriodNo, &s.SubjectName, &s.ClassGroupID, &s.RoomCode); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListTeacherSlots — расписание учителя, по дню и номеру урока.
func ListTeacherSlots(ctx context.Context, database *sql.DB, teacherID string) ([]models.ScheduleSlot, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT `+slotColumns+`
		FROM timetable
		WHERE teacher_id = $1
		ORDER BY day_of_week, period_no, id
	`, teacherID)
	if err != nil {
		return nil, err
	}
	return scanSlots(rows)
}

// ListSlotsForTeachers — расписания нескольких учителей одним запросом.
func ListSlotsForTeachers(ctx context.Context, database *sql.DB, teacherIDs []string) (map[string][]models.ScheduleSlot, error) {
	out := make(map[string][]models.ScheduleSlot, len(teacherIDs))
	if len(teacherIDs) == 0 {
		return out, nil
	}
	rows, err := database.QueryContext(ctx, `
		SELECT `+slotColumns+`
		FROM timetable
		WHERE teacher_id = ANY($1)
		ORDER BY teacher_id, day_of_week, period_no, id
	`, pq.Array(teacherIDs))
	if err != nil {
		return nil, err
	}
	slots, err := scanSlots(rows)
	if err != nil {
		return nil, err
	}
	for _, s := range slots {
		out[s.TeacherID] = append(out[s.TeacherID], s)
	}
	return out, nil
}

func InsertSlot(ctx context.Context, database *sql.DB, s models.ScheduleSlot) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO timetable (school_code, academic_term, teacher_id, day_of_week, period_no, subject_name, class_group_id, room_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, s.SchoolID, s.AcademicTerm, s.TeacherID, s.DayOfWeek, s.PeriodNo, s.SubjectName, s.ClassGroupID, s.RoomCode).Scan(&id)
	return id, err
}
