package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// handTable builds facet geometry by hand: one sea-ice facet at nadir and one
// lead facet slightly off nadir, with round numbers the tests can reason about.
func handTable() *facetTable {
	return &facetTable{
		count:      2,
		areaM2:     []float64{150, 200},
		types:      []model.SurfaceType{model.SurfaceSeaIce, model.SurfaceLead},
		rangeM:     []float64{720e3, 720010},
		delayS:     []float64{0, 6.672e-8},
		gainTwoWay: []float64{1e6, 9.7e5},
		lookRad:    []float64{0, 1.4e-5},
		incIceRad:  []float64{0.001, 0.002},
		incSnowRad: []float64{0.0012, 0.0021},
	}
}

func makeRows(samples int) beamRows {
	return beamRows{
		total:    make([]float64, samples),
		snowSurf: make([]float64, samples),
		snowVol:  make([]float64, samples),
		iceSurf:  make([]float64, samples),
		water:    make([]float64, samples),
	}
}

func TestZeroNaN(t *testing.T) {
	if got := zeroNaN(math.NaN()); got != 0 {
		t.Errorf("zeroNaN(NaN) = %v, want 0", got)
	}
	for _, v := range []float64{0, 1.5, -2, 500} {
		if got := zeroNaN(v); got != v {
			t.Errorf("zeroNaN(%v) = %v, want unchanged", v, got)
		}
	}
}

func TestBuildCoefTable_NoSnow(t *testing.T) {
	cfg := burstConfig(1)
	tbl := handTable()

	coef := buildCoefTable(cfg, tbl, constCurveSet())

	for f := 0; f < tbl.count; f++ {
		if coef.snowSurf[f] != 0 || coef.snowVol[f] != 0 {
			t.Errorf("facet %d snow coefficients = %v %v, want 0 without snow",
				f, coef.snowSurf[f], coef.snowVol[f])
		}
	}
	// Bare ice scatters unattenuated; the lead facet feeds the water column.
	if coef.iceSurf[0] != 10 || coef.water[0] != 0 {
		t.Errorf("ice facet coefficients = %v %v, want 10 and 0", coef.iceSurf[0], coef.water[0])
	}
	if coef.iceSurf[1] != 0 || coef.water[1] != 500 {
		t.Errorf("lead facet coefficients = %v %v, want 0 and 500", coef.iceSurf[1], coef.water[1])
	}

	lambda2 := cfg.WavelengthM * cfg.WavelengthM
	for f := 0; f < tbl.count; f++ {
		want := cfg.TxPowerW * lambda2 * tbl.gainTwoWay[f] * tbl.areaM2[f] /
			(fourPiCubed * math.Pow(tbl.rangeM[f], 4))
		if !withinRel(coef.radarK[f], want, 1e-12) {
			t.Errorf("facet %d radarK = %v, want %v", f, coef.radarK[f], want)
		}
	}
}

func TestBuildCoefTable_SnowAttenuatesIce(t *testing.T) {
	cfg := burstConfig(1)
	cfg.SnowDepthM = 0.3
	cfg.SnowSpeedMps = 2.4e8
	cfg.SnowExtinctionNpM = 0.5

	coef := buildCoefTable(cfg, handTable(), constCurveSet())

	if coef.snowSurf[0] != 3 || coef.snowVol[0] != 0.05 {
		t.Errorf("snow coefficients = %v %v, want 3 and 0.05", coef.snowSurf[0], coef.snowVol[0])
	}
	// Two transmission crossings plus two-way extinction through the column.
	want := 10 * 0.95 * 0.95 * math.Exp(-0.5*0.3)
	if !withinRel(coef.iceSurf[0], want, 1e-12) {
		t.Errorf("iceSurf = %v, want %v", coef.iceSurf[0], want)
	}
	// Open water is never attenuated by the snow column.
	if coef.water[1] != 500 {
		t.Errorf("lead water = %v, want 500", coef.water[1])
	}
}

func TestBuildCoefTable_WaterCurveOutOfDomain(t *testing.T) {
	cfg := burstConfig(1)
	tbl := handTable()

	curves := constCurveSet()
	curves.Lead = nanCurve()
	coef := buildCoefTable(cfg, tbl, curves)
	if coef.water[1] != 0 {
		t.Errorf("water for undefined lead curve = %v, want 0", coef.water[1])
	}

	tbl.types[1] = model.SurfaceMeltPond
	coef = buildCoefTable(cfg, tbl, constCurveSet())
	if coef.water[1] != 200 {
		t.Errorf("melt-pond water = %v, want 200", coef.water[1])
	}
	if coef.iceSurf[1] != 0 {
		t.Errorf("melt-pond iceSurf = %v, want 0", coef.iceSurf[1])
	}
}

func TestIntegrateBeam_TotalIsExactComponentSum(t *testing.T) {
	cfg := burstConfig(1)
	cfg.SnowDepthM = 0.2
	cfg.SnowSpeedMps = 2.4e8
	cfg.SnowExtinctionNpM = 0.3

	tbl := handTable()
	coef := buildCoefTable(cfg, tbl, constCurveSet())

	sd := 2 * cfg.SnowDepthM / cfg.SnowSpeedMps
	grid := linspace(-20/cfg.BandwidthHz, 60/cfg.BandwidthHz, 129)
	shifted := make([]float64, len(grid))
	for k := range grid {
		shifted[k] = grid[k] + sd
	}

	rows := makeRows(len(grid))
	integrateBeam(cfg, newBeamPattern(cfg), 0, tbl, coef, grid, shifted, sd, 1,
		rows, newBeamScratch(len(grid)))

	var energy float64
	for k := range grid {
		sum := rows.snowSurf[k] + rows.snowVol[k] + rows.iceSurf[k] + rows.water[k]
		if rows.total[k] != sum {
			t.Fatalf("total[%d] = %v, want component sum %v", k, rows.total[k], sum)
		}
		energy += rows.total[k]
	}
	if energy <= 0 {
		t.Fatalf("beam energy = %v, want positive", energy)
	}
}

func TestIntegrateBeam_WeightScalesAllRows(t *testing.T) {
	cfg := burstConfig(1)
	tbl := handTable()
	coef := buildCoefTable(cfg, tbl, constCurveSet())
	grid := linspace(-20/cfg.BandwidthHz, 60/cfg.BandwidthHz, 65)
	pattern := newBeamPattern(cfg)

	full := makeRows(len(grid))
	integrateBeam(cfg, pattern, 0, tbl, coef, grid, nil, 0, 1, full, newBeamScratch(len(grid)))

	half := makeRows(len(grid))
	integrateBeam(cfg, pattern, 0, tbl, coef, grid, nil, 0, 0.5, half, newBeamScratch(len(grid)))

	for k := range grid {
		if half.iceSurf[k] != 0.5*full.iceSurf[k] {
			t.Fatalf("iceSurf[%d] = %v, want half of %v", k, half.iceSurf[k], full.iceSurf[k])
		}
		if half.water[k] != 0.5*full.water[k] {
			t.Fatalf("water[%d] = %v, want half of %v", k, half.water[k], full.water[k])
		}
		if half.total[k] != 0.5*full.total[k] {
			t.Fatalf("total[%d] = %v, want half of %v", k, half.total[k], full.total[k])
		}
	}
}

func TestIntegrateBeam_NoSnowLeavesSnowRowsZero(t *testing.T) {
	cfg := burstConfig(1)
	tbl := handTable()
	coef := buildCoefTable(cfg, tbl, constCurveSet())
	grid := linspace(-20/cfg.BandwidthHz, 60/cfg.BandwidthHz, 65)

	rows := makeRows(len(grid))
	// Without snow the shifted grid is never read.
	integrateBeam(cfg, newBeamPattern(cfg), 0, tbl, coef, grid, nil, 0, 1,
		rows, newBeamScratch(len(grid)))

	var icePeak float64
	for k := range grid {
		if rows.snowSurf[k] != 0 || rows.snowVol[k] != 0 {
			t.Fatalf("snow rows at %d = %v %v, want 0", k, rows.snowSurf[k], rows.snowVol[k])
		}
		icePeak = math.Max(icePeak, rows.iceSurf[k])
	}
	if icePeak <= 0 {
		t.Fatalf("ice row peak = %v, want positive", icePeak)
	}
}

func TestIntegrateBeam_SnowVolumeWindow(t *testing.T) {
	cfg := burstConfig(1)
	cfg.SnowDepthM = 0.2
	cfg.SnowSpeedMps = 2.4e8
	cfg.SnowExtinctionNpM = 0.3

	tbl := &facetTable{
		count:      1,
		areaM2:     []float64{150},
		types:      []model.SurfaceType{model.SurfaceSeaIce},
		rangeM:     []float64{720e3},
		delayS:     []float64{0},
		gainTwoWay: []float64{1e6},
		lookRad:    []float64{0},
		incIceRad:  []float64{0.001},
		incSnowRad: []float64{0.001},
	}
	coef := buildCoefTable(cfg, tbl, constCurveSet())

	sd := 2 * cfg.SnowDepthM / cfg.SnowSpeedMps
	grid := []float64{-2 * sd, -1.5 * sd, -sd, -0.5 * sd, 0, 0.5 * sd, sd}
	shifted := make([]float64, len(grid))
	for k := range grid {
		shifted[k] = grid[k] + sd
	}

	rows := makeRows(len(grid))
	integrateBeam(cfg, newBeamPattern(cfg), 0, tbl, coef, grid, shifted, sd, 1,
		rows, newBeamScratch(len(grid)))

	// The volume return spans the two-way snow transit ending at the ice
	// return: samples before the snow surface or after the ice get nothing.
	for _, k := range []int{0, 1, 5, 6} {
		if rows.snowVol[k] != 0 {
			t.Errorf("snowVol[%d] = %v, want 0 outside the column", k, rows.snowVol[k])
		}
	}
	if want := coef.radarK[0] * 0.05; rows.snowVol[2] != want {
		t.Errorf("snowVol at snow surface = %v, want %v", rows.snowVol[2], want)
	}
	// At the ice interface the return has decayed through the full column.
	want := rows.snowVol[2] * math.Exp(-cfg.SnowExtinctionNpM*cfg.SnowDepthM)
	if !withinRel(rows.snowVol[4], want, 1e-12) {
		t.Errorf("snowVol at ice = %v, want %v", rows.snowVol[4], want)
	}
	if rows.snowVol[3] <= rows.snowVol[4] || rows.snowVol[3] >= rows.snowVol[2] {
		t.Errorf("snowVol mid-column = %v, want between %v and %v",
			rows.snowVol[3], rows.snowVol[4], rows.snowVol[2])
	}
}

func TestIntegrateBeam_SkipsZeroGainFacets(t *testing.T) {
	cfg := burstConfig(1)
	tbl := handTable()
	tbl.gainTwoWay = []float64{0, 0}
	coef := buildCoefTable(cfg, tbl, constCurveSet())
	grid := linspace(-20/cfg.BandwidthHz, 60/cfg.BandwidthHz, 33)

	rows := makeRows(len(grid))
	integrateBeam(cfg, newBeamPattern(cfg), 0, tbl, coef, grid, nil, 0, 1,
		rows, newBeamScratch(len(grid)))

	for k := range grid {
		if rows.total[k] != 0 {
			t.Fatalf("total[%d] = %v, want 0 for zero-gain facets", k, rows.total[k])
		}
	}
}
