package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/smartschool/internal/metrics"
	"github.com/Spok95/smartschool/internal/models"
	"github.com/Spok95/smartschool/internal/period"
)

// Source — откуда берутся окна уроков и расписание учителя.
type Source interface {
	PeriodWindows(ctx context.Context, school, term string) ([]models.PeriodWindow, error)
	TeacherSlots(ctx context.Context, teacherID string) ([]models.ScheduleSlot, error)
}

// RosterFetcher loads the students of a class session.
type RosterFetcher interface {
	Roster(ctx context.Context, subject, classGroupID string) ([]models.StudentEntry, error)
}

type Clock interface {
	Now() time.Time
}

// RosterError — состав класса не загрузился; найденный урок при этом остаётся валидным.
type RosterError struct {
	SlotKey string
	Err     error
}

func (e *RosterError) Error() string {
	return fmt.Sprintf("roster for %s: %v", e.SlotKey, e.Err)
}

func (e *RosterError) Unwrap() error { return e.Err }

func IsRosterError(err error) bool {
	var re *RosterError
	return errors.As(err, &re)
}

// ResolveActiveSlot finds the slot for the active period on the given day.
// A slot belongs to the period's school and term; an empty SchoolID or
// AcademicTerm on the slot matches any. Duplicate matches are a data error;
// the first one wins.
func ResolveActiveSlot(active *models.PeriodWindow, slots []models.ScheduleSlot, day int) *models.ScheduleSlot {
	if active == nil {
		return nil
	}
	for i := range slots {
		if !sameScope(slots[i].SchoolID, active.SchoolID) || !sameScope(slots[i].AcademicTerm, active.AcademicTerm) {
			continue
		}
		if slots[i].PeriodNo == active.PeriodNo && slots[i].DayOfWeek == day {
			s := slots[i]
			return &s
		}
	}
	return nil
}

// Current is the resolved schedule state handed to presentation code.
// Nil Period/Slot means "no active class", which is not an error.
type Current struct {
	At        time.Time             `json:"at"`
	DayOfWeek int                   `json:"day_of_week"`
	Period    *models.PeriodWindow  `json:"period"`
	Slot      *models.ScheduleSlot  `json:"slot"`
	Roster    []models.StudentEntry `json:"roster,omitempty"`
	RosterErr error                 `json:"-"`
}

func sameScope(slot, period string) bool {
	return slot == "" || period == "" || slot == period
}

// SlotsIn оставляет слоты школы school за учебный год term.
func SlotsIn(slots []models.ScheduleSlot, school, term string) []models.ScheduleSlot {
	out := make([]models.ScheduleSlot, 0, len(slots))
	for _, s := range slots {
		if sameScope(s.SchoolID, school) && sameScope(s.AcademicTerm, term) {
			out = append(out, s)
		}
	}
	return out
}

// SlotKey is empty when no class is active.
func (c Current) SlotKey() string {
	if c.Slot == nil {
		return ""
	}
	return c.Slot.Key()
}

type Joiner struct {
	Resolver  *period.Resolver
	Clock     Clock
	Location  *time.Location
	Precision period.Precision
	Roster    RosterFetcher
	Log       *zap.Logger
}

func (j *Joiner) now() time.Time {
	if j.Clock == nil {
		return time.Now()
	}
	return j.Clock.Now()
}

func (j *Joiner) loc() *time.Location {
	if j.Location == nil {
		return time.UTC
	}
	return j.Location
}

// Term — учебный год на текущий момент по синхронизированным часам школы.
func (j *Joiner) Term() string {
	return AcademicTerm(j.now().In(j.loc()))
}

// Snapshot resolves period and slot for the current (synchronized) time.
// No I/O happens here.
func (j *Joiner) Snapshot(periods []models.PeriodWindow, slots []models.ScheduleSlot) Current {
	return j.SnapshotAt(j.now(), periods, slots)
}

func (j *Joiner) SnapshotAt(now time.Time, periods []models.PeriodWindow, slots []models.ScheduleSlot) Current {
	loc := j.loc()
	cur := Current{At: now.In(loc), DayOfWeek: DayOfWeek(now, loc)}
	cur.Period = j.Resolver.Active(periods, now, loc, j.Precision)
	cur.Slot = ResolveActiveSlot(cur.Period, slots, cur.DayOfWeek)
	return cur
}

// FetchRoster loads the roster for slot; failures come back as *RosterError.
func (j *Joiner) FetchRoster(ctx context.Context, slot models.ScheduleSlot) ([]models.StudentEntry, error) {
	if j.Roster == nil {
		return nil, nil
	}
	students, err := j.Roster.Roster(ctx, slot.SubjectName, slot.ClassGroupID)
	if err != nil {
		metrics.RosterFailures.Inc()
		if j.Log != nil {
			j.Log.Warn("roster fetch failed", zap.String("slot", slot.Key()), zap.Error(err))
		}
		return nil, &RosterError{SlotKey: slot.Key(), Err: err}
	}
	return students, nil
}

// Join is Snapshot followed by a blocking roster fetch for the active slot.
func (j *Joiner) Join(ctx context.Context, periods []models.PeriodWindow, slots []models.ScheduleSlot) Current {
	cur := j.Snapshot(periods, slots)
	if cur.Slot != nil {
		cur.Roster, cur.RosterErr = j.FetchRoster(ctx, *cur.Slot)
	}
	return cur
}
