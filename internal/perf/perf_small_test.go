//go:build perf

package perf

import "testing"

var smallConfig = perfConfig{
	GridNx:      21,
	GridNy:      21,
	Beams:       16,
	TimeSamples: 128,
}

func BenchmarkSimulateSmall(b *testing.B) {
	benchmarkSimulate(b, smallConfig)
}

func BenchmarkSimulateSmallSerial(b *testing.B) {
	cfg := smallConfig
	cfg.Workers = 1
	benchmarkSimulate(b, cfg)
}

func BenchmarkMeshBuildSmall(b *testing.B) {
	benchmarkMeshBuild(b, smallConfig)
}
