package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/smartschool/internal/models"
	"github.com/Spok95/smartschool/internal/schedule"
)

const timetableSheet = "Timetable"

// TimetableGrid — сетка «урок × день» для одного учителя.
type TimetableGrid struct {
	Days    []int // номера дней (1 = понедельник)
	Periods []models.PeriodWindow
	Cells   map[[2]int]models.ScheduleSlot // {day, periodNo}
}

// BuildTimetableGrid lays slots out on a Monday..Friday grid, adding weekend
// columns only when a slot falls on them. Rows come from the period windows;
// period numbers referenced only by slots get a bare row.
func BuildTimetableGrid(periods []models.PeriodWindow, slots []models.ScheduleSlot) TimetableGrid {
	g := TimetableGrid{Cells: map[[2]int]models.ScheduleSlot{}}
	days := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	rows := map[int]models.PeriodWindow{}
	for _, p := range periods {
		if _, ok := rows[p.PeriodNo]; !ok {
			rows[p.PeriodNo] = p
		}
	}
	for _, s := range slots {
		if _, ok := schedule.Weekday(s.DayOfWeek); !ok {
			continue
		}
		days[s.DayOfWeek] = true
		if _, ok := rows[s.PeriodNo]; !ok {
			rows[s.PeriodNo] = models.PeriodWindow{PeriodNo: s.PeriodNo}
		}
		key := [2]int{s.DayOfWeek, s.PeriodNo}
		if _, dup := g.Cells[key]; !dup {
			g.Cells[key] = s
		}
	}
	for d := range days {
		g.Days = append(g.Days, d)
	}
	sort.Ints(g.Days)
	for _, p := range rows {
		g.Periods = append(g.Periods, p)
	}
	sort.Slice(g.Periods, func(i, j int) bool { return g.Periods[i].PeriodNo < g.Periods[j].PeriodNo })
	return g
}

func periodLabel(p models.PeriodWindow) string {
	label := fmt.Sprintf("%d", p.PeriodNo)
	if p.DisplayName != "" {
		label = p.DisplayName
	}
	if p.StartTime != "" && p.EndTime != "" {
		label += fmt.Sprintf("\n%s-%s", p.StartTime, p.EndTime)
	}
	return label
}

func cellText(s models.ScheduleSlot) string {
	txt := s.SubjectName + "\n" + s.ClassGroupID
	if s.RoomCode != "" {
		txt += " / " + s.RoomCode
	}
	return txt
}

// WriteTimetable renders the grid into a single-sheet workbook.
func WriteTimetable(w io.Writer, g TimetableGrid) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", timetableSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetCellStr(timetableSheet, "A1", "Period"); err != nil {
		return err
	}
	for i, d := range g.Days {
		cell := fmt.Sprintf("%s1", columnName(i+2))
		if err := f.SetCellStr(timetableSheet, cell, schedule.DayName(d)); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	wrap, _ := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	for r, p := range g.Periods {
		row := r + 2
		if err := f.SetCellStr(timetableSheet, fmt.Sprintf("A%d", row), periodLabel(p)); err != nil {
			return err
		}
		for i, d := range g.Days {
			s, ok := g.Cells[[2]int{d, p.PeriodNo}]
			if !ok {
				continue
			}
			cell := fmt.Sprintf("%s%d", columnName(i+2), row)
			if err := f.SetCellStr(timetableSheet, cell, cellText(s)); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	if last := len(g.Periods) + 1; last > 1 {
		_ = f.SetCellStyle(timetableSheet, "A2", fmt.Sprintf("%s%d", columnName(len(g.Days)+1), last), wrap)
	}
	if err := ApplyDefaultExcelFormatting(f, timetableSheet); err != nil {
		return err
	}
	_ = f.SetPanes(timetableSheet, &excelize.Panes{Freeze: true, XSplit: 1, YSplit: 1, TopLeftCell: "B2", ActivePane: "bottomRight"})
	_, err := f.WriteTo(w)
	return err
}

func BuildTimetableFilename(teacherID, term string) string {
	return sanitizeFileName(fmt.Sprintf("Timetable - %s - %s.xlsx", cleanName(teacherID), cleanName(term)))
}
