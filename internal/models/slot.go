package models

import "fmt"

// ScheduleSlot — одна запись расписания учителя. DayOfWeek: 1 = понедельник.
type ScheduleSlot struct {
	ID           int64  `db:"id" json:"id"`
	SchoolID     string `db:"school_code" json:"school_code"`
	AcademicTerm string `db:"academic_term" json:"academic_term"`
	TeacherID    string `db:"teacher_id" json:"teacher_id"`
	DayOfWeek    int    `db:"day_of_week" json:"day_of_week"`
	PeriodNo     int    `db:"period_no" json:"period_no"`
	SubjectName  string `db:"subject_name" json:"subject_name"`
	ClassGroupID string `db:"class_group_id" json:"class_group_id"`
	RoomCode     string `db:"room_code" json:"room_code"`
}

// Key identifies the class session; two slots with the same key are the same lesson.
func (s ScheduleSlot) Key() string {
	return fmt.Sprintf("%s|%d|%d|%s|%s|%s", s.TeacherID, s.DayOfWeek, s.PeriodNo, s.SubjectName, s.ClassGroupID, s.RoomCode)
}
