package core

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/signalsfoundry/altimeter-simulator/internal/logging"
	"github.com/signalsfoundry/altimeter-simulator/model"
)

const tracerName = "github.com/signalsfoundry/altimeter-simulator/core"

// Scenario validation errors. Simulate wraps these with the offending detail.
var (
	ErrUnknownMode        = errors.New("unknown operating mode")
	ErrUnknownWindow      = errors.New("unknown beam window")
	ErrBadBeamCount       = errors.New("bad beam count")
	ErrBadTimeGrid        = errors.New("bad time grid")
	ErrBadSurface         = errors.New("bad surface model")
	ErrSurfaceMismatch    = errors.New("snow and ice surfaces mismatched")
	ErrIncompleteCurveSet = errors.New("incomplete curve set")
	ErrBadRadarConfig     = errors.New("bad radar configuration")
)

// Scenario is the complete input bundle for one simulated burst: instrument
// configuration, sampled surfaces, the receive window grid (seconds, relative
// to the nominal nadir two-way time), and the response curves.
type Scenario struct {
	Radar     model.RadarConfig
	Surface   model.SurfaceModel
	TimeGridS []float64
	Curves    CurveSet
}

// ComponentWaveforms holds one beams-by-samples power matrix per echo source.
type ComponentWaveforms struct {
	SnowSurface *mat.Dense
	SnowVolume  *mat.Dense
	IceSurface  *mat.Dense
	OpenWater   *mat.Dense
}

// ComponentStacks holds the multi-looked waveform of each echo source.
type ComponentStacks struct {
	SnowSurface []float64
	SnowVolume  []float64
	IceSurface  []float64
	OpenWater   []float64
}

// WaveformSet is everything one run produces. BeamPower rows are single-look
// waveforms with the stack taper already applied, and each row equals the sum
// of the matching component rows exactly.
type WaveformSet struct {
	TimeGridS []float64

	BeamPower  *mat.Dense
	Components ComponentWaveforms

	Stacked           []float64
	StackedComponents ComponentStacks

	Params DerivedParams
}

// MetricsRecorder receives run-level accounting. The observability package
// provides a Prometheus-backed implementation.
type MetricsRecorder interface {
	RecordRun(mode string, beams, facets, samples int, elapsed time.Duration)
}

// Pipeline phase names reported to a PipelineObserver.
const (
	PhaseMeshBuild       = "mesh_build"
	PhaseBeamIntegration = "beam_integration"
	PhaseStacking        = "stacking"
)

// PipelineObserver receives accounting from inside a run: per-phase wall
// times, the beam worker count in use, and how many degenerate facets the
// triangulation produced. The observability package provides a
// Prometheus-backed implementation.
type PipelineObserver interface {
	ObservePhase(phase string, elapsed time.Duration)
	SetActiveWorkers(n int)
	AddDegenerateFacets(n int)
}

// Simulator turns scenarios into echo waveforms. It is safe for concurrent
// use; each Simulate call carries its own working state.
type Simulator struct {
	log      logging.Logger
	tri      Triangulator
	metrics  MetricsRecorder
	pipeline PipelineObserver
	workers  int
}

// SimulatorOption customises a Simulator.
type SimulatorOption func(*Simulator)

// WithLogger attaches a structured logger. The default drops all logs.
func WithLogger(l logging.Logger) SimulatorOption {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTriangulator swaps the surface triangulation routine.
func WithTriangulator(tri Triangulator) SimulatorOption {
	return func(s *Simulator) {
		if tri != nil {
			s.tri = tri
		}
	}
}

// WithMetricsRecorder wires run accounting into a metrics backend.
func WithMetricsRecorder(m MetricsRecorder) SimulatorOption {
	return func(s *Simulator) { s.metrics = m }
}

// WithPipelineObserver wires phase-level accounting into a metrics backend.
func WithPipelineObserver(o PipelineObserver) SimulatorOption {
	return func(s *Simulator) { s.pipeline = o }
}

// WithWorkers caps the number of beam workers. Values below one restore the
// default of one worker per available CPU.
func WithWorkers(n int) SimulatorOption {
	return func(s *Simulator) { s.workers = n }
}

// NewSimulator constructs a Simulator with Delaunay triangulation, a no-op
// logger, and one worker per CPU.
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		log:     logging.Noop(),
		tri:     DelaunayTriangulate,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate runs one burst: triangulate the surfaces, derive the burst
// parameters, integrate every synthetic beam, and stack the looks. The
// returned waveforms are power in watts on the scenario's time grid.
func (s *Simulator) Simulate(ctx context.Context, sc Scenario) (*WaveformSet, error) {
	start := time.Now()
	ctx, log := logging.WithRunLogger(ctx, s.log)

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "Simulator/Simulate", trace.WithAttributes(
		attribute.String("mode", string(sc.Radar.Mode)),
		attribute.Int("beams", sc.Radar.BeamCount),
		attribute.Int("time_samples", len(sc.TimeGridS)),
	))
	defer span.End()

	if err := validateScenario(sc); err != nil {
		span.RecordError(err)
		return nil, err
	}
	cfg := sc.Radar
	if cfg.Window == "" {
		cfg.Window = model.WindowRectangular
	}

	meshStart := time.Now()
	_, meshSpan := tracer.Start(ctx, "Simulator/BuildMeshes")
	ice, err := BuildFacetMesh(sc.Surface.Ice, sc.Surface.IceTypes, s.tri)
	if err != nil {
		meshSpan.End()
		span.RecordError(err)
		return nil, fmt.Errorf("ice surface: %w", err)
	}
	snow, err := BuildFacetMesh(sc.Surface.Snow, nil, s.tri)
	if err != nil {
		meshSpan.End()
		span.RecordError(err)
		return nil, fmt.Errorf("snow surface: %w", err)
	}
	meshSpan.End()
	s.observePhase(PhaseMeshBuild, time.Since(meshStart))

	if ice.FacetCount() != snow.FacetCount() {
		err := fmt.Errorf("%w: triangulation produced %d ice facets but %d snow facets",
			ErrSurfaceMismatch, ice.FacetCount(), snow.FacetCount())
		span.RecordError(err)
		return nil, err
	}
	if ice.FacetCount() == 0 {
		err := fmt.Errorf("%w: triangulation produced no facets", ErrBadSurface)
		span.RecordError(err)
		return nil, err
	}
	if s.pipeline != nil {
		degenerate := 0
		for _, a := range ice.AreaM2 {
			if a == 0 {
				degenerate++
			}
		}
		s.pipeline.AddDegenerateFacets(degenerate)
	}

	params := DeriveParams(cfg)
	table := buildFacetTable(cfg, ice, snow)
	coef := buildCoefTable(cfg, table, sc.Curves)
	weights, err := beamWeights(cfg.Window, cfg.BeamCount)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	nb, nt := cfg.BeamCount, len(sc.TimeGridS)
	out := &WaveformSet{
		TimeGridS: sc.TimeGridS,
		BeamPower: mat.NewDense(nb, nt, nil),
		Components: ComponentWaveforms{
			SnowSurface: mat.NewDense(nb, nt, nil),
			SnowVolume:  mat.NewDense(nb, nt, nil),
			IceSurface:  mat.NewDense(nb, nt, nil),
			OpenWater:   mat.NewDense(nb, nt, nil),
		},
		Params: params,
	}

	workers := s.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > nb {
		workers = nb
	}

	_, beamSpan := tracer.Start(ctx, "Simulator/ProcessBeams", trace.WithAttributes(
		attribute.Int("facets", table.count),
		attribute.Int("workers", workers),
	))
	if s.pipeline != nil {
		s.pipeline.SetActiveWorkers(workers)
	}
	beamStart := time.Now()
	err = s.processBeams(ctx, cfg, params, table, coef, sc.TimeGridS, weights, out, workers)
	beamSpan.End()
	if s.pipeline != nil {
		s.pipeline.SetActiveWorkers(0)
	}
	s.observePhase(PhaseBeamIntegration, time.Since(beamStart))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	stackStart := time.Now()
	stackBeams(out)
	s.observePhase(PhaseStacking, time.Since(stackStart))

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordRun(string(cfg.Mode), nb, table.count, nt, elapsed)
	}
	log.Info(ctx, "simulated burst",
		logging.String("mode", string(cfg.Mode)),
		logging.Int("beams", nb),
		logging.Int("facets", table.count),
		logging.Int("time_samples", nt),
		logging.Int("workers", workers),
		logging.Float64("elapsed_s", elapsed.Seconds()),
	)
	return out, nil
}

func (s *Simulator) observePhase(phase string, elapsed time.Duration) {
	if s.pipeline != nil {
		s.pipeline.ObservePhase(phase, elapsed)
	}
}

// processBeams partitions the beam indices into contiguous ranges, one per
// worker. Workers share the facet tables read-only and write disjoint matrix
// rows, so no locking is needed on the output.
func (s *Simulator) processBeams(ctx context.Context, cfg model.RadarConfig, params DerivedParams,
	table *facetTable, coef *coefTable, grid []float64, weights []float64,
	out *WaveformSet, workers int) error {

	pattern := newBeamPattern(cfg)

	snowDelay := 0.0
	var shiftedGrid []float64
	if cfg.SnowDepthM > 0 {
		snowDelay = 2 * cfg.SnowDepthM / cfg.SnowSpeedMps
		shiftedGrid = make([]float64, len(grid))
		for k, t := range grid {
			shiftedGrid[k] = t + snowDelay
		}
	}

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	nb := cfg.BeamCount
	for w := 0; w < workers; w++ {
		lo, hi := w*nb/workers, (w+1)*nb/workers
		if lo == hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			scratch := newBeamScratch(len(grid))
			for b := lo; b < hi; b++ {
				if err := ctx.Err(); err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					return
				}
				rows := beamRows{
					total:    out.BeamPower.RawRowView(b),
					snowSurf: out.Components.SnowSurface.RawRowView(b),
					snowVol:  out.Components.SnowVolume.RawRowView(b),
					iceSurf:  out.Components.IceSurface.RawRowView(b),
					water:    out.Components.OpenWater.RawRowView(b),
				}
				integrateBeam(cfg, pattern, params.BeamOffsetsRad[b], table, coef,
					grid, shiftedGrid, snowDelay, weights[b], rows, scratch)
			}
		}(lo, hi)
	}
	wg.Wait()
	return firstErr
}

// stackBeams multi-looks the single-look rows in ascending beam order. The
// component stacks weight each beam's single-look power by that beam's
// per-sample component fraction; a fraction is defined as zero where the beam
// saw no power, so such samples contribute to no component.
func stackBeams(out *WaveformSet) {
	nb, nt := out.BeamPower.Dims()
	out.Stacked = make([]float64, nt)
	out.StackedComponents = ComponentStacks{
		SnowSurface: make([]float64, nt),
		SnowVolume:  make([]float64, nt),
		IceSurface:  make([]float64, nt),
		OpenWater:   make([]float64, nt),
	}

	for b := 0; b < nb; b++ {
		total := out.BeamPower.RawRowView(b)
		floats.Add(out.Stacked, total)

		ss := out.Components.SnowSurface.RawRowView(b)
		sv := out.Components.SnowVolume.RawRowView(b)
		is := out.Components.IceSurface.RawRowView(b)
		wa := out.Components.OpenWater.RawRowView(b)
		for k := 0; k < nt; k++ {
			if total[k] == 0 {
				continue
			}
			// Fraction times beam power reduces to the component row
			// itself, without the double rounding.
			out.StackedComponents.SnowSurface[k] += ss[k]
			out.StackedComponents.SnowVolume[k] += sv[k]
			out.StackedComponents.IceSurface[k] += is[k]
			out.StackedComponents.OpenWater[k] += wa[k]
		}
	}
}

func validateScenario(sc Scenario) error {
	cfg := sc.Radar
	if !cfg.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
	if cfg.Window != "" && !cfg.Window.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownWindow, cfg.Window)
	}
	if cfg.BeamCount < 1 {
		return fmt.Errorf("%w: %d", ErrBadBeamCount, cfg.BeamCount)
	}
	if cfg.Mode == model.ModePulseLimited && cfg.BeamCount != 1 {
		return fmt.Errorf("%w: pulse-limited mode forms a single look, got %d beams", ErrBadBeamCount, cfg.BeamCount)
	}

	for _, p := range []struct {
		name  string
		value float64
	}{
		{"wavelength", cfg.WavelengthM},
		{"bandwidth", cfg.BandwidthHz},
		{"transmit power", cfg.TxPowerW},
		{"altitude", cfg.AltitudeM},
		{"velocity", cfg.VelocityMps},
		{"PRF", cfg.PRFHz},
		{"boresight gain", cfg.BoresightGain},
		{"along-track beamwidth", cfg.BeamwidthAlongRad},
		{"across-track beamwidth", cfg.BeamwidthAcrossRad},
	} {
		if !(p.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrBadRadarConfig, p.name, p.value)
		}
	}
	if cfg.SnowDepthM < 0 {
		return fmt.Errorf("%w: snow depth must not be negative, got %v", ErrBadRadarConfig, cfg.SnowDepthM)
	}
	if cfg.SnowDepthM > 0 && !(cfg.SnowSpeedMps > 0) {
		return fmt.Errorf("%w: snow propagation speed must be positive when snow is present, got %v",
			ErrBadRadarConfig, cfg.SnowSpeedMps)
	}
	if cfg.SnowExtinctionNpM < 0 {
		return fmt.Errorf("%w: snow extinction must not be negative, got %v", ErrBadRadarConfig, cfg.SnowExtinctionNpM)
	}

	if len(sc.TimeGridS) == 0 {
		return fmt.Errorf("%w: empty", ErrBadTimeGrid)
	}
	for i := 1; i < len(sc.TimeGridS); i++ {
		if sc.TimeGridS[i] <= sc.TimeGridS[i-1] {
			return fmt.Errorf("%w: not strictly increasing at sample %d", ErrBadTimeGrid, i)
		}
	}

	ice, snow := sc.Surface.Ice, sc.Surface.Snow
	for _, c := range []struct {
		name string
		pc   model.PointCloud
	}{{"ice", ice}, {"snow", snow}} {
		if len(c.pc.Y) != c.pc.Len() || len(c.pc.Z) != c.pc.Len() {
			return fmt.Errorf("%w: %s cloud coordinate lengths differ", ErrBadSurface, c.name)
		}
		if c.pc.Len() < 3 {
			return fmt.Errorf("%w: %s cloud has %d points, need at least 3", ErrBadSurface, c.name, c.pc.Len())
		}
	}
	if snow.Len() != ice.Len() {
		return fmt.Errorf("%w: snow cloud has %d points, ice cloud %d", ErrSurfaceMismatch, snow.Len(), ice.Len())
	}
	for i := 0; i < ice.Len(); i++ {
		if snow.X[i] != ice.X[i] || snow.Y[i] != ice.Y[i] {
			return fmt.Errorf("%w: clouds sample different horizontal locations at point %d", ErrSurfaceMismatch, i)
		}
	}
	if len(sc.Surface.IceTypes) != ice.Len() {
		return fmt.Errorf("%w: %d surface type labels for %d ice points",
			ErrSurfaceMismatch, len(sc.Surface.IceTypes), ice.Len())
	}

	return sc.Curves.validate()
}
