package schedule

import (
	"fmt"
	"time"
)

// Учебный год начинается 1 сентября.
const termStartMonth = time.September

// TermStartYear — год начала учебного года для момента t (2026-03-01 → 2025).
func TermStartYear(t time.Time) int {
	if t.Month() < termStartMonth {
		return t.Year() - 1
	}
	return t.Year()
}

// AcademicTerm форматирует учебный год так, как он хранится в расписании: "2025-2026".
func AcademicTerm(t time.Time) string {
	y := TermStartYear(t)
	return fmt.Sprintf("%d-%d", y, y+1)
}

// TermBounds — границы [from, to) учебного года момента t в его зоне.
func TermBounds(t time.Time) (time.Time, time.Time) {
	y := TermStartYear(t)
	from := time.Date(y, termStartMonth, 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(1, 0, 0)
}
