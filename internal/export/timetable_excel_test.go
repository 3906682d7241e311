package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/smartschool/internal/models"
)

func TestBuildTimetableGrid(t *testing.T) {
	periods := []models.PeriodWindow{
		{PeriodNo: 2, StartTime: "08:55", EndTime: "09:40"},
		{PeriodNo: 1, StartTime: "08:00", EndTime: "08:45", DisplayName: "1. DERS"},
	}
	slots := []models.ScheduleSlot{
		{DayOfWeek: 1, PeriodNo: 1, SubjectName: "Math", ClassGroupID: "9A", RoomCode: "101"},
		{DayOfWeek: 1, PeriodNo: 1, SubjectName: "Duplicate", ClassGroupID: "9B"},
		{DayOfWeek: 6, PeriodNo: 4, SubjectName: "Club", ClassGroupID: "ALL"},
		{DayOfWeek: 9, PeriodNo: 1, SubjectName: "Broken"},
	}
	g := BuildTimetableGrid(periods, slots)

	if len(g.Days) != 6 || g.Days[5] != 6 {
		t.Fatalf("days = %v", g.Days)
	}
	if len(g.Periods) != 3 || g.Periods[0].PeriodNo != 1 || g.Periods[2].PeriodNo != 4 {
		t.Fatalf("periods = %+v", g.Periods)
	}
	if g.Cells[[2]int{1, 1}].SubjectName != "Math" {
		t.Fatal("first slot must win")
	}
}

func TestWriteTimetable(t *testing.T) {
	g := BuildTimetableGrid(
		[]models.PeriodWindow{{PeriodNo: 1, StartTime: "08:00", EndTime: "08:45"}},
		[]models.ScheduleSlot{{DayOfWeek: 2, PeriodNo: 1, SubjectName: "Math", ClassGroupID: "9A", RoomCode: "101"}},
	)
	var buf bytes.Buffer
	if err := WriteTimetable(&buf, g); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue(timetableSheet, "C1"); v != "Tuesday" {
		t.Fatalf("C1 = %q", v)
	}
	if v, _ := f.GetCellValue(timetableSheet, "C2"); v != "Math\n9A / 101" {
		t.Fatalf("C2 = %q", v)
	}
	if v, _ := f.GetCellValue(timetableSheet, "A2"); v != "1\n08:00-08:45" {
		t.Fatalf("A2 = %q", v)
	}
}

func TestBuildTimetableFilename(t *testing.T) {
	if got := BuildTimetableFilename("T/1", "2025-2026"); got != "Timetable - T_1 - 2025-2026.xlsx" {
		t.Fatalf("got %q", got)
	}
	if got := BuildTimetableFilename(" ", ""); got != "Timetable - - - -.xlsx" {
		t.Fatalf("got %q", got)
	}
}
