package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Spok95/smartschool/internal/models"
	"github.com/Spok95/smartschool/internal/period"
	"github.com/Spok95/smartschool/internal/schedule"
)

var school = time.FixedZone("school", 3*3600)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) SetAt(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *manualClock) Set(h, m int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = time.Date(2025, 10, 13, h, m, 0, 0, school) // понедельник
}

// fakeStore implements Store, TimetableLoader and schedule.RosterFetcher.
type fakeStore struct {
	mu        sync.Mutex
	periods   []models.PeriodWindow
	slots     map[string][]models.ScheduleSlot
	rosterErr error
	gate      map[string]chan struct{} // subject -> release
	calls     []string
	pingErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		periods: []models.PeriodWindow{
			{SchoolID: "34002", AcademicTerm: "2025-2026", PeriodNo: 1, StartTime: "08:00", EndTime: "08:45"},
			{SchoolID: "34002", AcademicTerm: "2025-2026", PeriodNo: 2, StartTime: "08:55", EndTime: "09:40"},
			{SchoolID: "34002", AcademicTerm: "2025-2026", PeriodNo: 3, StartTime: "bad", EndTime: "10:25"},
		},
		slots: map[string][]models.ScheduleSlot{
			"T1": {
				{ID: 1, TeacherID: "T1", DayOfWeek: 1, PeriodNo: 1, SubjectName: "Math", ClassGroupID: "9A", RoomCode: "101"},
				{ID: 2, TeacherID: "T1", DayOfWeek: 1, PeriodNo: 2, SubjectName: "Geometry", ClassGroupID: "9B"},
			},
		},
		gate: map[string]chan struct{}{},
	}
}

func (f *fakeStore) PeriodWindows(_ context.Context, school, term string) ([]models.PeriodWindow, error) {
	if school != "34002" || term != "2025-2026" {
		return nil, nil
	}
	return f.periods, nil
}

func (f *fakeStore) TeacherSlots(_ context.Context, teacherID string) ([]models.ScheduleSlot, error) {
	return f.slots[teacherID], nil
}

func (f *fakeStore) SlotsForTeachers(_ context.Context, ids []string) (map[string][]models.ScheduleSlot, error) {
	out := map[string][]models.ScheduleSlot{}
	for _, id := range ids {
		out[id] = f.slots[id]
	}
	return out, nil
}

func (f *fakeStore) Roster(ctx context.Context, subject, classGroupID string) ([]models.StudentEntry, error) {
	f.mu.Lock()
	f.calls = append(f.calls, subject)
	gate := f.gate[subject]
	err := f.rosterErr
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []models.StudentEntry{{ID: subject + "-1", DisplayName: "Student of " + classGroupID}}, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) rosterCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

var errRoster = errors.New("roster db down")

func newJoiner(clk schedule.Clock, roster schedule.RosterFetcher) *schedule.Joiner {
	return &schedule.Joiner{
		Resolver:  period.NewResolver(nil),
		Clock:     clk,
		Location:  school,
		Precision: period.Minute,
		Roster:    roster,
	}
}
