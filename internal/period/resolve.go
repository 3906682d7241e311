package period

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/smartschool/internal/models"
)

// Window is a PeriodWindow with its bounds parsed into precision units.
type Window struct {
	Period models.PeriodWindow
	Start  int
	End    int
	Err    error
}

// Valid reports whether the window can ever match. Windows with start >= end
// (including ones that would cross midnight) never match.
func (w Window) Valid() bool {
	return w.Err == nil && w.Start < w.End
}

// Contains: начало включительно, конец исключительно.
func (w Window) Contains(cur int) bool {
	return w.Valid() && w.Start <= cur && cur < w.End
}

type Resolver struct {
	log *zap.Logger
}

func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log}
}

func (r *Resolver) logger() *zap.Logger {
	if r == nil || r.log == nil {
		return zap.NewNop()
	}
	return r.log
}

// Windows parses every period and returns them ordered by period number.
// The input slice is not modified.
func (r *Resolver) Windows(periods []models.PeriodWindow, p Precision) []Window {
	out := make([]Window, 0, len(periods))
	for _, pw := range periods {
		w := Window{Period: pw}
		start, err := ParseClock(pw.StartTime)
		if err != nil {
			w.Err = err
			out = append(out, w)
			continue
		}
		end, err := ParseClock(pw.EndTime)
		if err != nil {
			w.Err = err
			out = append(out, w)
			continue
		}
		w.Start, w.End = p.Units(start), p.Units(end)
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Period.PeriodNo < out[j].Period.PeriodNo })
	return out
}

// Active returns the period running at now in the school zone loc, or nil.
// Malformed periods are skipped; overlapping periods resolve to the lowest
// period number.
func (r *Resolver) Active(periods []models.PeriodWindow, now time.Time, loc *time.Location, p Precision) *models.PeriodWindow {
	if len(periods) == 0 {
		return nil
	}
	log := r.logger()
	cur := ClockOf(now, loc, p)
	for _, w := range r.Windows(periods, p) {
		if w.Err != nil {
			log.Debug("period skipped: bad time",
				zap.String("period", w.Period.Key()),
				zap.String("start", w.Period.StartTime),
				zap.String("end", w.Period.EndTime),
				zap.Error(w.Err))
			continue
		}
		if w.Contains(cur) {
			pw := w.Period
			return &pw
		}
	}
	return nil
}
