package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/smartschool/internal/ctxutil"
	"github.com/Spok95/smartschool/internal/export"
	"github.com/Spok95/smartschool/internal/logging"
	"github.com/Spok95/smartschool/internal/metrics"
	"github.com/Spok95/smartschool/internal/models"
	"github.com/Spok95/smartschool/internal/observability"
	"github.com/Spok95/smartschool/internal/period"
	"github.com/Spok95/smartschool/internal/schedule"
)

type api struct {
	Deps
}

func (a *api) now() time.Time {
	if a.Joiner != nil && a.Joiner.Clock != nil {
		return a.Joiner.Clock.Now()
	}
	return time.Now()
}

func (a *api) loc() *time.Location {
	if a.Joiner != nil && a.Joiner.Location != nil {
		return a.Joiner.Location
	}
	return time.UTC
}

func (a *api) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context(), a.Log).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	observability.CaptureErr(err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func (a *api) term() string {
	if a.AcademicTerm != "" {
		return a.AcademicTerm
	}
	return a.Joiner.Term()
}

// schoolTerm: из query, затем из токена, затем из конфига. ok=false, если
// школа вызывающему недоступна.
func (a *api) schoolTerm(r *http.Request) (school, term string, ok bool) {
	school, term = r.URL.Query().Get("school"), r.URL.Query().Get("term")
	if school == "" {
		if c := claimsFrom(r.Context()); c != nil && c.SchoolCode != "" {
			school = c.SchoolCode
		} else {
			school = a.SchoolCode
		}
	}
	if term == "" {
		term = a.term()
	}
	return school, term, canSeeSchool(r, school)
}

func canSeeSchool(r *http.Request, school string) bool {
	c := claimsFrom(r.Context())
	return c != nil && (c.Role == models.Admin || c.SchoolCode == "" || c.SchoolCode == school)
}

func canSeeTeacher(r *http.Request, teacherID string) bool {
	c := claimsFrom(r.Context())
	return c != nil && (c.Role == models.Admin || c.TeacherID == teacherID)
}

func (a *api) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := a.Store.Ping(ctx); err != nil {
		http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	_, _ = w.Write([]byte("ok"))
}

// health также служит источником времени для других инстансов.
func (a *api) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "Smart School API is running",
		"timestamp": a.now().UTC().Format(time.RFC3339Nano),
	})
}

func (a *api) serverTime(w http.ResponseWriter, _ *http.Request) {
	now := a.now()
	loc := a.loc()
	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp":     now.UTC().Format(time.RFC3339Nano),
		"time_zone":     loc.String(),
		"school_time":   now.In(loc).Format("15:04:05"),
		"day_of_week":   schedule.DayOfWeek(now, loc),
		"academic_term": a.term(),
	})
}

type periodView struct {
	models.PeriodWindow
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func (a *api) periodDefinitions(w http.ResponseWriter, r *http.Request) {
	school, term := r.PathValue("school"), r.PathValue("term")
	if !canSeeSchool(r, school) {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	periods, err := a.Store.PeriodWindows(r.Context(), school, term)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	out := make([]periodView, 0, len(periods))
	for _, win := range a.Joiner.Resolver.Windows(periods, period.Second) {
		v := periodView{PeriodWindow: win.Period, Valid: win.Valid()}
		switch {
		case win.Err != nil:
			v.Error = win.Err.Error()
		case !win.Valid():
			v.Error = "start is not before end"
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) currentPeriod(w http.ResponseWriter, r *http.Request) {
	school, term := r.PathValue("school"), r.PathValue("term")
	if !canSeeSchool(r, school) {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	periods, err := a.Store.PeriodWindows(r.Context(), school, term)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	now := a.now()
	p := a.Joiner.Resolver.Active(periods, now, a.loc(), a.Joiner.Precision)
	writeJSON(w, http.StatusOK, map[string]any{
		"at":     now.In(a.loc()),
		"active": p != nil,
		"period": p,
	})
}

func (a *api) teacherTimetable(w http.ResponseWriter, r *http.Request) {
	teacherID := r.PathValue("teacherID")
	if !canSeeTeacher(r, teacherID) {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	slots, err := a.Store.TeacherSlots(r.Context(), teacherID)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (a *api) teacherTimetableExport(w http.ResponseWriter, r *http.Request) {
	teacherID := r.PathValue("teacherID")
	if !canSeeTeacher(r, teacherID) {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	slots, err := a.Store.TeacherSlots(r.Context(), teacherID)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	school, term, ok := a.schoolTerm(r)
	if !ok {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	periods, err := a.Store.PeriodWindows(r.Context(), school, term)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	var buf bytes.Buffer
	grid := export.BuildTimetableGrid(periods, schedule.SlotsIn(slots, school, term))
	if err := export.WriteTimetable(&buf, grid); err != nil {
		a.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.BuildTimetableFilename(teacherID, term)))
	_, _ = w.Write(buf.Bytes())
}

type currentView struct {
	schedule.Current
	Active        bool   `json:"active"`
	RosterLoading bool   `json:"roster_loading,omitempty"`
	RosterError   string `json:"roster_error,omitempty"`
}

func viewOf(cur schedule.Current, loading bool) currentView {
	v := currentView{Current: cur, Active: cur.Slot != nil, RosterLoading: loading}
	if cur.RosterErr != nil {
		v.RosterError = cur.RosterErr.Error()
	}
	return v
}

// current — активный урок учителя и состав класса. Ошибка загрузки состава
// не превращает ответ в ошибку: урок найден, roster_error заполнен.
func (a *api) current(w http.ResponseWriter, r *http.Request) {
	teacherID := r.PathValue("teacherID")
	if !canSeeTeacher(r, teacherID) {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	if a.Tracker != nil && a.Tracker.Tracks(teacherID) && r.URL.Query().Get("fresh") == "" {
		if st, ok := a.Tracker.State(teacherID); ok {
			writeJSON(w, http.StatusOK, viewOf(st.Current, !st.RosterLoaded))
			return
		}
	}

	ctx := ctxutil.WithOp(r.Context(), "current")
	slots, err := a.Store.TeacherSlots(ctx, teacherID)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	school, term, ok := a.schoolTerm(r)
	if !ok {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	periods, err := a.Store.PeriodWindows(ctx, school, term)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	rctx, cancel := ctxutil.WithTimeout(ctx, a.RosterTimeout)
	defer cancel()
	writeJSON(w, http.StatusOK, viewOf(a.Joiner.Join(rctx, periods, slots), false))
}
