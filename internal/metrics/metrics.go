package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ClockSyncs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "smartschool", Name: "clock_syncs_total", Help: "Clock synchronization attempts",
	})
	ClockSyncFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "smartschool", Name: "clock_sync_failures_total", Help: "Failed clock synchronizations",
	})
	ClockOffset = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "smartschool", Name: "clock_offset_seconds", Help: "Server minus device time",
	})
	ResolveTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "smartschool", Name: "resolve_ticks_total", Help: "Current class resolution passes",
	})
	SlotChanges = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "smartschool", Name: "active_slot_changes_total", Help: "Active class changes across tracked teachers",
	})
	RosterFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "smartschool", Name: "roster_fetch_failures_total", Help: "Roster fetch errors",
	})
	MalformedPeriods = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "smartschool", Name: "malformed_periods", Help: "Period windows that can never match after the last reload",
	})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartschool", Name: "http_requests_total", Help: "HTTP requests by route and status",
	}, []string{"route", "code"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "smartschool", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(ClockSyncs, ClockSyncFailures, ClockOffset, ResolveTicks, SlotChanges,
		RosterFailures, MalformedPeriods, HTTPRequests, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
