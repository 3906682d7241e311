package models

type Role string

const (
	Student Role = "student"
	Teacher Role = "teacher"
	Admin   Role = "admin"
)

// CanReadSchedules — кто может смотреть расписания и составы классов.
func (r Role) CanReadSchedules() bool {
	return r == Teacher || r == Admin
}

// StudentEntry — запись состава класса.
type StudentEntry struct {
	ID          string `db:"student_id" json:"id"`
	DisplayName string `db:"display_name" json:"display_name"`
}
