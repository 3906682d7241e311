package models

import "fmt"

// PeriodWindow — дневное окно одного урока школы в учебном году.
// StartTime/EndTime хранятся как пришли из источника ("08:00", "08:00:00"
// или полный timestamp); разбор делает period.ParseClock.
type PeriodWindow struct {
	SchoolID     string `db:"school_code" json:"school_code"`
	AcademicTerm string `db:"academic_term" json:"academic_term"`
	PeriodNo     int    `db:"period_no" json:"period_no"`
	StartTime    string `db:"start_time" json:"start_time"`
	EndTime      string `db:"end_time" json:"end_time"`
	DisplayName  string `db:"period_name" json:"period_name,omitempty"`
}

func (p PeriodWindow) Key() string {
	return fmt.Sprintf("%s-%s-%d", p.SchoolID, p.AcademicTerm, p.PeriodNo)
}
