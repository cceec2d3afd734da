// Package prom implements the observability hooks with Prometheus
// collectors.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/antnest/pkg/observability"
)

// Hooks records solve and cache events.
type Hooks struct {
	solves      *prometheus.CounterVec
	solveSteps  prometheus.Histogram
	solveTime   prometheus.Histogram
	stepMoves   prometheus.Histogram
	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Hooks, error) {
	h := &Hooks{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "antnest_solve_total",
			Help: "Completed simulation runs by outcome.",
		}, []string{"outcome"}),
		solveSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "antnest_solve_steps",
			Help:    "Recorded steps per simulation run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		solveTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "antnest_solve_duration_seconds",
			Help:    "Wall time per simulation run.",
			Buckets: prometheus.DefBuckets,
		}),
		stepMoves: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "antnest_step_moves",
			Help:    "Moves committed per step.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "antnest_cache_events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"event", "key_type"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "antnest_cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}),
	}
	for _, c := range []prometheus.Collector{h.solves, h.solveSteps, h.solveTime, h.stepMoves, h.cacheEvents, h.cacheBytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Install registers h as the global solve and cache hooks.
func (h *Hooks) Install() {
	observability.SetSolveHooks(h)
	observability.SetCacheHooks(h)
}

func (h *Hooks) OnSolveStart(context.Context, string, int) {}

func (h *Hooks) OnStep(_ context.Context, _ int, moves int) {
	h.stepMoves.Observe(float64(moves))
}

func (h *Hooks) OnSolveComplete(_ context.Context, outcome string, steps int, d time.Duration, err error) {
	if err != nil {
		outcome = "error"
	}
	h.solves.WithLabelValues(outcome).Inc()
	h.solveSteps.Observe(float64(steps))
	h.solveTime.Observe(d.Seconds())
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues("set", keyType).Inc()
	h.cacheBytes.Add(float64(size))
}

var (
	_ observability.SolveHooks = (*Hooks)(nil)
	_ observability.CacheHooks = (*Hooks)(nil)
)
