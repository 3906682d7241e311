package clock

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/smartschool/internal/metrics"
)

// TimeSource returns the authoritative current time.
type TimeSource interface {
	ServerTime(ctx context.Context) (time.Time, error)
}

// Synchronizer хранит смещение server - device. Один писатель (Synchronize),
// много читателей (Now); смещение заменяется целиком, без усреднения.
type Synchronizer struct {
	src    TimeSource
	log    *zap.Logger
	device func() time.Time

	offset   atomic.Int64 // ns
	syncedAt atomic.Int64 // unix ns, 0 — ещё не синхронизировались
}

type Option func(*Synchronizer)

// WithDeviceClock replaces time.Now as the local clock.
func WithDeviceClock(now func() time.Time) Option {
	return func(s *Synchronizer) { s.device = now }
}

func New(src TimeSource, log *zap.Logger, opts ...Option) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Synchronizer{src: src, log: log, device: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synchronize asks the time source for the current time and stores the new
// offset. Failures keep the previous offset and are only logged.
func (s *Synchronizer) Synchronize(ctx context.Context) {
	if s.src == nil {
		return
	}
	metrics.ClockSyncs.Inc()
	started := s.device()
	server, err := s.src.ServerTime(ctx)
	if err != nil {
		metrics.ClockSyncFailures.Inc()
		s.log.Warn("clock sync failed, keeping previous offset",
			zap.Duration("offset", s.Offset()),
			zap.Error(err))
		return
	}
	off := server.Sub(started)
	s.offset.Store(int64(off))
	s.syncedAt.Store(s.device().UnixNano())
	metrics.ClockOffset.Set(off.Seconds())
	s.log.Info("clock synchronized", zap.Duration("offset", off))
}

// Now returns device time corrected by the last known offset.
func (s *Synchronizer) Now() time.Time {
	return s.device().Add(s.Offset())
}

func (s *Synchronizer) Offset() time.Duration {
	return time.Duration(s.offset.Load())
}

// SyncedAt — момент последней успешной синхронизации (device time), нулевой если не было.
func (s *Synchronizer) SyncedAt() time.Time {
	n := s.syncedAt.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
