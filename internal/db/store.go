package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/smartschool/internal/ctxutil"
	"github.com/Spok95/smartschool/internal/models"
)

// Store adapts the query functions to schedule.Source and schedule.RosterFetcher.
type Store struct {
	DB *sql.DB
}

func NewStore(database *sql.DB) *Store { return &Store{DB: database} }

func (s *Store) PeriodWindows(ctx context.Context, school, term string) ([]models.PeriodWindow, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return ListPeriodWindows(ctx, s.DB, school, term)
}

func (s *Store) TeacherSlots(ctx context.Context, teacherID string) ([]models.ScheduleSlot, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return ListTeacherSlots(ctx, s.DB, teacherID)
}

func (s *Store) SlotsForTeachers(ctx context.Context, teacherIDs []string) (map[string][]models.ScheduleSlot, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return ListSlotsForTeachers(ctx, s.DB, teacherIDs)
}

func (s *Store) Roster(ctx context.Context, subject, classGroupID string) ([]models.StudentEntry, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return ListRoster(ctx, s.DB, subject, classGroupID)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
