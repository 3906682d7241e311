package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Spok95/smartschool/internal/app"
	"github.com/Spok95/smartschool/internal/config"
	"github.com/Spok95/smartschool/internal/models"
	"github.com/Spok95/smartschool/internal/period"
	"github.com/Spok95/smartschool/internal/schedule"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type countingSync struct{ n atomic.Int32 }

func (c *countingSync) Synchronize(context.Context) { c.n.Add(1) }

type memLoader struct{}

func (memLoader) PeriodWindows(_ context.Context, school, term string) ([]models.PeriodWindow, error) {
	return []models.PeriodWindow{{SchoolID: school, AcademicTerm: term, PeriodNo: 1, StartTime: "08:00", EndTime: "08:45"}}, nil
}

func (memLoader) SlotsForTeachers(_ context.Context, ids []string) (map[string][]models.ScheduleSlot, error) {
	return map[string][]models.ScheduleSlot{
		"T1": {{TeacherID: "T1", DayOfWeek: 1, PeriodNo: 1, SubjectName: "Math", ClassGroupID: "9A"}},
	}, nil
}

func TestStartJobs_FirstTickSeesTimetable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monday := time.Date(2025, 10, 13, 8, 20, 0, 0, time.UTC)
	joiner := &schedule.Joiner{Resolver: period.NewResolver(nil), Clock: fixedClock{monday}, Location: time.UTC}
	tracker := app.NewTracker(joiner, memLoader{}, app.TrackerOptions{School: "34002", Teachers: []string{"T1"}})
	cfg := &config.Config{ClockSyncInterval: time.Hour, ReloadInterval: time.Hour, ResolveInterval: time.Hour}
	clk := &countingSync{}

	startJobs(ctx, nil, cfg, clk, tracker)

	if clk.n.Load() != 1 {
		t.Fatalf("clock must be synchronized before jobs start, syncs=%d", clk.n.Load())
	}
	if tracker.Term() != "2025-2026" {
		t.Fatalf("timetable must be loaded before jobs start, term=%q", tracker.Term())
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if st, ok := tracker.State("T1"); ok {
			if st.Current.Slot == nil || st.Current.Slot.SubjectName != "Math" {
				t.Fatalf("first tick resolved %+v", st.Current)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no tick within 2s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
