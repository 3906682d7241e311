package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/smartschool/internal/ctxutil"
	"github.com/Spok95/smartschool/internal/logging"
	"github.com/Spok95/smartschool/internal/metrics"
	"github.com/Spok95/smartschool/internal/models"
	"github.com/Spok95/smartschool/internal/observability"
	"github.com/Spok95/smartschool/internal/period"
	"github.com/Spok95/smartschool/internal/schedule"
)

// TimetableLoader — источник данных для трекера.
type TimetableLoader interface {
	PeriodWindows(ctx context.Context, school, term string) ([]models.PeriodWindow, error)
	SlotsForTeachers(ctx context.Context, teacherIDs []string) (map[string][]models.ScheduleSlot, error)
}

// Notifier gets told when a tracked teacher's class changes to a new lesson.
type Notifier interface {
	SlotChanged(ctx context.Context, teacherID string, cur schedule.Current) error
}

// TeacherState is the last resolution for one teacher. RosterLoaded turns
// true once the fetch for the current slot finished, successfully or not.
type TeacherState struct {
	Current      schedule.Current
	RosterLoaded bool
	gen          uint64
}

type TrackerOptions struct {
	School        string
	Term          string // пусто: текущий учебный год на момент Reload
	Teachers      []string
	RosterTimeout time.Duration
	Notifier      Notifier
	Log           *zap.Logger
}

// Tracker re-resolves the active class of every tracked teacher on each Tick.
// Ticks never wait on I/O: roster loads and notifications run in their own
// goroutines and are applied only if the slot is still the latest one.
type Tracker struct {
	joiner *schedule.Joiner
	loader TimetableLoader
	opts   TrackerOptions
	log    *zap.Logger

	mu      sync.RWMutex
	term    string
	periods []models.PeriodWindow
	slots   map[string][]models.ScheduleSlot
	states  map[string]*TeacherState
	gen     uint64

	wg sync.WaitGroup
}

func NewTracker(joiner *schedule.Joiner, loader TimetableLoader, opts TrackerOptions) *Tracker {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		joiner: joiner,
		loader: loader,
		opts:   opts,
		log:    log,
		slots:  map[string][]models.ScheduleSlot{},
		states: map[string]*TeacherState{},
	}
}

func (t *Tracker) Teachers() []string { return t.opts.Teachers }

// Term — учебный год последней успешной загрузки.
func (t *Tracker) Term() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.term
}

func (t *Tracker) Tracks(teacherID string) bool {
	for _, id := range t.opts.Teachers {
		if id == teacherID {
			return true
		}
	}
	return false
}

// Reload refreshes periods and timetables. On error the previous data stays.
func (t *Tracker) Reload(ctx context.Context) error {
	term := t.opts.Term
	if term == "" {
		term = t.joiner.Term()
	}
	periods, err := t.loader.PeriodWindows(ctx, t.opts.School, term)
	if err != nil {
		return err
	}
	slots, err := t.loader.SlotsForTeachers(ctx, t.opts.Teachers)
	if err != nil {
		return err
	}

	bad := 0
	for _, w := range period.NewResolver(nil).Windows(periods, period.Second) {
		if w.Valid() {
			continue
		}
		bad++
		t.log.Warn("period window can never match",
			zap.String("period", w.Period.Key()),
			zap.String("start", w.Period.StartTime),
			zap.String("end", w.Period.EndTime),
			zap.Error(w.Err))
	}
	metrics.MalformedPeriods.Set(float64(bad))

	t.mu.Lock()
	t.term = term
	t.periods = periods
	t.slots = slots
	t.mu.Unlock()
	t.log.Info("timetable reloaded",
		zap.String("term", term),
		zap.Int("periods", len(periods)),
		zap.Int("teachers", len(slots)),
		zap.Int("malformed_periods", bad))
	return nil
}

// Tick resolves the current class for every tracked teacher.
func (t *Tracker) Tick(ctx context.Context) error {
	metrics.ResolveTicks.Inc()

	type change struct {
		teacher string
		cur     schedule.Current
		gen     uint64
	}
	var changes []change

	t.mu.Lock()
	for _, id := range t.opts.Teachers {
		cur := t.joiner.Snapshot(t.periods, t.slots[id])
		st := t.states[id]
		if st != nil && st.Current.SlotKey() == cur.SlotKey() {
			// тот же урок: обновляем время, состав не трогаем
			st.Current.At = cur.At
			st.Current.DayOfWeek = cur.DayOfWeek
			st.Current.Period = cur.Period
			continue
		}
		t.gen++
		t.states[id] = &TeacherState{Current: cur, RosterLoaded: cur.Slot == nil, gen: t.gen}
		if st != nil || cur.Slot != nil {
			changes = append(changes, change{teacher: id, cur: cur, gen: t.gen})
		}
	}
	t.mu.Unlock()

	for _, c := range changes {
		metrics.SlotChanges.Inc()
		tctx := ctxutil.WithTeacherID(ctx, c.teacher)
		logging.FromContext(tctx, t.log).Info("active class changed",
			zap.String("slot", c.cur.SlotKey()),
			zap.Int("day", c.cur.DayOfWeek))
		if c.cur.Slot == nil {
			continue
		}
		t.wg.Add(1)
		go t.loadRoster(tctx, c.teacher, *c.cur.Slot, c.gen)
		if t.opts.Notifier != nil {
			t.wg.Add(1)
			go t.notify(tctx, c.teacher, c.cur)
		}
	}
	return nil
}

func (t *Tracker) loadRoster(ctx context.Context, teacher string, slot models.ScheduleSlot, gen uint64) {
	defer t.wg.Done()
	ctx, cancel := ctxutil.WithTimeout(ctxutil.WithOp(ctx, "roster"), t.opts.RosterTimeout)
	defer cancel()

	students, err := t.joiner.FetchRoster(ctx, slot)

	t.mu.Lock()
	st := t.states[teacher]
	applied := st != nil && st.gen == gen
	if applied {
		st.Current.Roster = students
		st.Current.RosterErr = err
		st.RosterLoaded = true
	}
	t.mu.Unlock()

	if err != nil {
		observability.CaptureErrWith(err, map[string]string{"teacher_id": teacher, "slot": slot.Key()})
	}
	if !applied {
		logging.FromContext(ctx, t.log).Debug("stale roster result dropped", zap.String("slot", slot.Key()))
	}
}

func (t *Tracker) notify(ctx context.Context, teacher string, cur schedule.Current) {
	defer t.wg.Done()
	if err := t.opts.Notifier.SlotChanged(ctx, teacher, cur); err != nil {
		logging.FromContext(ctx, t.log).Warn("notify failed", zap.Error(err))
	}
}

// State returns a copy of the last resolution for teacherID.
func (t *Tracker) State(teacherID string) (TeacherState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.states[teacherID]
	if !ok {
		return TeacherState{}, false
	}
	out := *st
	out.Current.Roster = append([]models.StudentEntry(nil), st.Current.Roster...)
	return out, true
}

// Wait blocks until in-flight roster loads and notifications finish.
func (t *Tracker) Wait() { t.wg.Wait() }
