package schedule

import "time"

// WeekStart is the weekday stored as DayOfWeek = 1 in the timetable.
// Расписание нумерует дни с понедельника; локаль хоста не используется.
const WeekStart = time.Monday

// DayOfWeek returns the timetable day number (1..7) of t in the school zone.
func DayOfWeek(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	wd := int(t.In(loc).Weekday())
	return (wd-int(WeekStart)+7)%7 + 1
}

// Weekday maps a timetable day number back to time.Weekday.
func Weekday(day int) (time.Weekday, bool) {
	if day < 1 || day > 7 {
		return 0, false
	}
	return time.Weekday((day - 1 + int(WeekStart)) % 7), true
}

func DayName(day int) string {
	wd, ok := Weekday(day)
	if !ok {
		return ""
	}
	return wd.String()
}
