package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineCollector exposes phase-level Prometheus metrics for the simulation
// pipeline, complementing the whole-run accounting in SimCollector. It
// satisfies the core PipelineObserver interface.
type PipelineCollector struct {
	gatherer prometheus.Gatherer

	PhaseDurations        *prometheus.HistogramVec
	ActiveBeamWorkers     prometheus.Gauge
	DegenerateFacetsTotal prometheus.Counter
}

// NewPipelineCollector registers pipeline metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewPipelineCollector(reg prometheus.Registerer) (*PipelineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	phases := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sim_phase_duration_seconds",
		Help:    "Wall-clock duration of one pipeline phase of a simulation run.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"phase"})
	phases, err := registerHistogramVec(reg, phases, "sim_phase_duration_seconds")
	if err != nil {
		return nil, err
	}

	workers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_beam_workers_active",
		Help: "Beam workers currently integrating synthetic looks.",
	})
	workers, err = registerGauge(reg, workers, "sim_beam_workers_active")
	if err != nil {
		return nil, err
	}

	degenerate := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_degenerate_facets_total",
		Help: "Cumulative number of zero-area facets produced by triangulation; these contribute no power.",
	})
	degenerate, err = registerCounter(reg, degenerate, "sim_degenerate_facets_total")
	if err != nil {
		return nil, err
	}

	return &PipelineCollector{
		gatherer:              gatherer,
		PhaseDurations:        phases,
		ActiveBeamWorkers:     workers,
		DegenerateFacetsTotal: degenerate,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *PipelineCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObservePhase records the wall-clock duration of one pipeline phase.
func (c *PipelineCollector) ObservePhase(phase string, elapsed time.Duration) {
	if c == nil || c.PhaseDurations == nil {
		return
	}
	c.PhaseDurations.WithLabelValues(phase).Observe(elapsed.Seconds())
}

// SetActiveWorkers updates the beam worker gauge.
func (c *PipelineCollector) SetActiveWorkers(n int) {
	if c == nil || c.ActiveBeamWorkers == nil {
		return
	}
	c.ActiveBeamWorkers.Set(float64(n))
}

// AddDegenerateFacets counts zero-area facets passed through by a run.
func (c *PipelineCollector) AddDegenerateFacets(n int) {
	if c == nil || c.DegenerateFacetsTotal == nil || n <= 0 {
		return
	}
	c.DegenerateFacetsTotal.Add(float64(n))
}
