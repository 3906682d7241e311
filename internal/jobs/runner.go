package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/smartschool/internal/ctxutil"
	"github.com/Spok95/smartschool/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
}

func New(ctx context.Context, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ctx: ctx, log: log}
}

// Every runs fn every interval until the runner's context ends. With
// immediate the first run happens right away. A slow run delays the next tick
// of the same job only.
func (r *Runner) Every(interval time.Duration, name string, immediate bool, fn Job) {
	go func() {
		if immediate {
			r.run(name, fn)
		}
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.run(name, fn)
			}
		}
	}()
}

func (r *Runner) run(name string, fn Job) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			jobErrors.WithLabelValues(name).Inc()
			err := fmt.Errorf("panic in job %s: %v", name, rec)
			r.log.Error("job panicked", zap.String("job", name), zap.Error(err))
			observability.CaptureErrWith(err, map[string]string{"job": name})
		}
		jobRuns.WithLabelValues(name).Inc()
		jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()
	if err := fn(ctxutil.WithOp(r.ctx, name)); err != nil {
		jobErrors.WithLabelValues(name).Inc()
		r.log.Warn("job failed", zap.String("job", name), zap.Error(err))
		return
	}
	jobLastSuccess.WithLabelValues(name).SetToCurrentTime()
}
