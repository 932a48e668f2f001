package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimCollector bundles Prometheus metrics for the echo simulator and provides
// a ready-made /metrics handler.
type SimCollector struct {
	gatherer prometheus.Gatherer

	RunsTotal    *prometheus.CounterVec
	RunDurations *prometheus.HistogramVec

	BeamsProcessed prometheus.Counter

	SceneFacets      prometheus.Gauge
	SceneTimeSamples prometheus.Gauge
}

// NewSimCollector registers simulator Prometheus metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_runs_total",
		Help: "Total number of completed simulation runs, labeled by operating mode.",
	}, []string{"mode"})
	runs, err := registerCounterVec(reg, runs, "sim_runs_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sim_run_duration_seconds",
		Help:    "Wall-clock duration of a simulation run in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	}, []string{"mode"})
	durations, err = registerHistogramVec(reg, durations, "sim_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	beams, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_beams_processed_total",
		Help: "Total number of synthetic beams integrated across all runs.",
	}), "sim_beams_processed_total")
	if err != nil {
		return nil, err
	}

	facets, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scene_facets",
		Help: "Facet count of the most recently simulated scene.",
	}), "scene_facets")
	if err != nil {
		return nil, err
	}
	samples, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scene_time_samples",
		Help: "Receive-window samples of the most recently simulated scene.",
	}), "scene_time_samples")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:         gatherer,
		RunsTotal:        runs,
		RunDurations:     durations,
		BeamsProcessed:   beams,
		SceneFacets:      facets,
		SceneTimeSamples: samples,
	}, nil
}

// RecordRun satisfies the core MetricsRecorder interface so the simulator can
// report each completed run directly.
func (c *SimCollector) RecordRun(mode string, beams, facets, samples int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.RunsTotal != nil {
		c.RunsTotal.WithLabelValues(mode).Inc()
	}
	if c.RunDurations != nil {
		c.RunDurations.WithLabelValues(mode).Observe(elapsed.Seconds())
	}
	if c.BeamsProcessed != nil {
		c.BeamsProcessed.Add(float64(beams))
	}
	if c.SceneFacets != nil {
		c.SceneFacets.Set(float64(facets))
	}
	if c.SceneTimeSamples != nil {
		c.SceneTimeSamples.Set(float64(samples))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
