//go:build perf || perf_large

package perf

import (
	"context"
	"testing"

	"github.com/signalsfoundry/altimeter-simulator/core"
)

type perfConfig struct {
	GridNx      int
	GridNy      int
	Beams       int
	TimeSamples int
	Workers     int
}

func benchmarkSimulate(b *testing.B, cfg perfConfig) {
	ctx := context.Background()
	sc := *core.SyntheticScenario(cfg.Beams, cfg.GridNx, cfg.GridNy, cfg.TimeSamples)
	sim := core.NewSimulator(core.WithWorkers(cfg.Workers))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sim.Simulate(ctx, sc); err != nil {
			b.Fatalf("Simulate: %v", err)
		}
	}
}

func benchmarkMeshBuild(b *testing.B, cfg perfConfig) {
	sc := core.SyntheticScenario(cfg.Beams, cfg.GridNx, cfg.GridNy, cfg.TimeSamples)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := core.BuildFacetMesh(sc.Surface.Ice, sc.Surface.IceTypes, core.DelaunayTriangulate); err != nil {
			b.Fatalf("BuildFacetMesh: %v", err)
		}
	}
}
