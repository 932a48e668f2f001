package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/signalsfoundry/altimeter-simulator/core"
	"github.com/signalsfoundry/altimeter-simulator/internal/logging"
	"github.com/signalsfoundry/altimeter-simulator/internal/observability"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a JSON scenario; empty runs the built-in demo scene")
	outPath := flag.String("out", "-", "where to write the waveform JSON; - means stdout")
	workers := flag.Int("workers", 0, "beam workers; 0 means one per CPU")
	beams := flag.Int("beams", 64, "synthetic beam count for the built-in demo scene")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics; empty disables the endpoint")
	full := flag.Bool("full", false, "include the per-beam single-look matrix in the output")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	var collector *observability.SimCollector
	var pipeline *observability.PipelineCollector
	var metricsSrv *http.Server
	if *metricsAddr != "" {
		collector, err = observability.NewSimCollector(nil)
		if err != nil {
			log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		pipeline, err = observability.NewPipelineCollector(nil)
		if err != nil {
			log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		metricsSrv = serveMetrics(*metricsAddr, collector, log)
	}

	var scenario *core.Scenario
	if *scenarioPath != "" {
		scenario, err = core.LoadScenarioFile(*scenarioPath)
		if err != nil {
			log.Error(ctx, "scenario load failed", logging.String("path", *scenarioPath), logging.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		scenario = core.DemoScenario(*beams)
		log.Info(ctx, "using built-in demo scene", logging.Int("beams", *beams))
	}

	opts := []core.SimulatorOption{
		core.WithLogger(log),
		core.WithWorkers(*workers),
	}
	if collector != nil {
		opts = append(opts, core.WithMetricsRecorder(collector))
	}
	if pipeline != nil {
		opts = append(opts, core.WithPipelineObserver(pipeline))
	}
	sim := core.NewSimulator(opts...)

	result, err := sim.Simulate(ctx, *scenario)
	if err != nil {
		log.Error(ctx, "simulation failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	if err := writeResult(*outPath, scenario, result, *full); err != nil {
		log.Error(ctx, "writing result failed", logging.String("path", *outPath), logging.String("error", err.Error()))
		os.Exit(1)
	}

	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(context.Background())
	}
}

func serveMetrics(addr string, collector *observability.SimCollector, log logging.Logger) *http.Server {
	if collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

// output JSON shapes, mirroring the scenario loader's unexported style.
type resultJSON struct {
	Mode       string         `json:"mode"`
	TimeGridS  []float64      `json:"time_grid_s"`
	Stacked    []float64      `json:"stacked"`
	Components componentsJSON `json:"components"`
	Params     paramsJSON     `json:"params"`
	Beams      [][]float64    `json:"beams,omitempty"`
}

type componentsJSON struct {
	SnowSurface []float64 `json:"snow_surface"`
	SnowVolume  []float64 `json:"snow_volume"`
	IceSurface  []float64 `json:"ice_surface"`
	OpenWater   []float64 `json:"open_water"`
}

type paramsJSON struct {
	FrequencyHz            float64 `json:"frequency_hz"`
	PulseSpacingM          float64 `json:"pulse_spacing_m"`
	DopplerFootprintM      float64 `json:"doppler_footprint_m"`
	PulseLimitedFootprintM float64 `json:"pulse_limited_footprint_m"`
	BeamSeparationRad      float64 `json:"beam_separation_rad"`
}

func writeResult(path string, sc *core.Scenario, ws *core.WaveformSet, full bool) error {
	out := resultJSON{
		Mode:      string(sc.Radar.Mode),
		TimeGridS: ws.TimeGridS,
		Stacked:   ws.Stacked,
		Components: componentsJSON{
			SnowSurface: ws.StackedComponents.SnowSurface,
			SnowVolume:  ws.StackedComponents.SnowVolume,
			IceSurface:  ws.StackedComponents.IceSurface,
			OpenWater:   ws.StackedComponents.OpenWater,
		},
		Params: paramsJSON{
			FrequencyHz:            ws.Params.FrequencyHz,
			PulseSpacingM:          ws.Params.PulseSpacingM,
			DopplerFootprintM:      ws.Params.DopplerFootprintM,
			PulseLimitedFootprintM: ws.Params.PulseLimitedFootprintM,
			BeamSeparationRad:      ws.Params.BeamSeparationRad,
		},
	}
	if full {
		nb, nt := ws.BeamPower.Dims()
		out.Beams = make([][]float64, nb)
		for b := 0; b < nb; b++ {
			row := make([]float64, nt)
			copy(row, ws.BeamPower.RawRowView(b))
			out.Beams[b] = row
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
