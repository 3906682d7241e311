package schedule

import (
	"testing"
	"time"
)

func TestDayOfWeek_MondayIsOne(t *testing.T) {
	// 2025-10-13 — понедельник
	mon := time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := DayOfWeek(mon.AddDate(0, 0, i), time.UTC); got != i+1 {
			t.Fatalf("%s: got %d want %d", mon.AddDate(0, 0, i).Weekday(), got, i+1)
		}
	}
}

func TestDayOfWeek_UsesSchoolZone(t *testing.T) {
	// Sunday 23:30 UTC is already Monday in a UTC+3 school
	sun := time.Date(2025, 10, 12, 23, 30, 0, 0, time.UTC)
	if got := DayOfWeek(sun, time.FixedZone("school", 3*3600)); got != 1 {
		t.Fatalf("got %d", got)
	}
	if got := DayOfWeek(sun, nil); got != 7 {
		t.Fatalf("nil zone: got %d", got)
	}
}

func TestWeekdayRoundTrip(t *testing.T) {
	for d := 1; d <= 7; d++ {
		wd, ok := Weekday(d)
		if !ok {
			t.Fatalf("day %d rejected", d)
		}
		ref := time.Date(2025, 10, 13+int((wd+6)%7), 9, 0, 0, 0, time.UTC)
		if DayOfWeek(ref, time.UTC) != d {
			t.Fatalf("day %d -> %s does not round-trip", d, wd)
		}
	}
	if _, ok := Weekday(0); ok {
		t.Fatal("0 must be rejected")
	}
	if DayName(1) != "Monday" || DayName(7) != "Sunday" || DayName(8) != "" {
		t.Fatal("unexpected day names")
	}
}
