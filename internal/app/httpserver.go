package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/smartschool/internal/auth"
	"github.com/Spok95/smartschool/internal/metrics"
	"github.com/Spok95/smartschool/internal/schedule"
)

// Store — всё, что HTTP-слою нужно от хранилища.
type Store interface {
	schedule.Source
	schedule.RosterFetcher
	Ping(ctx context.Context) error
}

type Deps struct {
	Store   Store
	Joiner  *schedule.Joiner
	Auth    *auth.JWTService
	Tracker *Tracker // может быть nil
	Log     *zap.Logger

	// LogLevel — обычно logging.Log.Level; доступен только админу.
	LogLevel http.Handler

	SchoolCode    string
	AcademicTerm  string // пусто: текущий учебный год по часам Joiner
	RosterTimeout time.Duration
}

type HTTPServer struct {
	srv *http.Server
}

func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	a := &api{Deps: d}
	mux := http.NewServeMux()

	handle := func(pattern, route string, h http.HandlerFunc, protected bool) {
		var hh http.Handler = h
		if protected {
			hh = requireAuth(d.Auth, hh)
		}
		mux.Handle(pattern, instrument(route, hh))
	}

	handle("GET /healthz", "healthz", a.healthz, false)
	mux.Handle("GET /metrics", metrics.Handler())
	handle("GET /api/health", "health", a.health, false)
	handle("GET /api/time", "time", a.serverTime, false)

	handle("GET /api/period-definitions/{school}/{term}", "period-definitions", a.periodDefinitions, true)
	handle("GET /api/current-period/{school}/{term}", "current-period", a.currentPeriod, true)
	handle("GET /api/timetable/teacher/{teacherID}", "timetable", a.teacherTimetable, true)
	handle("GET /api/timetable/teacher/{teacherID}/export", "timetable-export", a.teacherTimetableExport, true)
	handle("GET /api/current/{teacherID}", "current", a.current, true)
	if d.LogLevel != nil {
		lvl := requireAuth(d.Auth, adminOnly(d.LogLevel))
		mux.Handle("GET /debug/log-level", instrument("log-level", lvl))
		mux.Handle("PUT /debug/log-level", instrument("log-level", lvl))
	}
	return mux
}

func StartHTTP(ctx context.Context, addr string, d Deps) *HTTPServer {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(d),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && d.Log != nil {
			d.Log.Error("http server stopped", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &HTTPServer{srv: srv}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
