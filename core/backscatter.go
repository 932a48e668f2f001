package core

import (
	"math"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// fourPiCubed is the (4 pi)^3 denominator of the point-target radar equation.
var fourPiCubed = math.Pow(4*math.Pi, 3)

// coefTable evaluates the response curves once per facet. The incidence
// angles do not depend on the beam index, so the workers share these arrays
// read-only and only the pulse envelope is recomputed per beam.
//
// Entries may be NaN where a curve is not tabulated at the facet's incidence;
// the integration loop drops those contributions. The water column is cleaned
// to zero at mixing time instead, matching how specular lead responses
// vanish off-nadir rather than poisoning the sum.
type coefTable struct {
	snowSurf []float64 // air-snow interface sigma0 at the snow incidence
	snowVol  []float64 // volume scattering strength at the snow incidence
	iceSurf  []float64 // snow-ice interface sigma0, snow attenuation folded in
	water    []float64 // lead or melt-pond sigma0, NaN already zeroed
	radarK   []float64 // radar-equation scale: Pt lambda^2 G^2 A / ((4 pi)^3 R^4)
}

func buildCoefTable(cfg model.RadarConfig, t *facetTable, curves CurveSet) *coefTable {
	n := t.count
	c := &coefTable{
		snowSurf: make([]float64, n),
		snowVol:  make([]float64, n),
		iceSurf:  make([]float64, n),
		water:    make([]float64, n),
		radarK:   make([]float64, n),
	}

	hasSnow := cfg.SnowDepthM > 0
	lambda2 := cfg.WavelengthM * cfg.WavelengthM

	for f := 0; f < n; f++ {
		if hasSnow {
			c.snowSurf[f] = curves.SnowSurface.Eval(t.incSnowRad[f])
			c.snowVol[f] = curves.SnowVolume.Eval(t.incSnowRad[f])
		}

		switch t.types[f] {
		case model.SurfaceSeaIce:
			v := curves.IceSurface.Eval(t.incIceRad[f])
			if hasSnow {
				// Two interface crossings and a two-way pass through
				// half the snow column.
				tr := curves.SnowTransmission.Eval(t.incSnowRad[f])
				v *= tr * tr * math.Exp(-cfg.SnowExtinctionNpM*cfg.SnowDepthM)
			}
			c.iceSurf[f] = v
		case model.SurfaceLead:
			c.water[f] = zeroNaN(curves.Lead.Eval(t.incIceRad[f]))
		case model.SurfaceMeltPond:
			c.water[f] = zeroNaN(curves.MeltPond.Eval(t.incIceRad[f]))
		}

		r2 := t.rangeM[f] * t.rangeM[f]
		c.radarK[f] = cfg.TxPowerW * lambda2 * t.gainTwoWay[f] * t.areaM2[f] / (fourPiCubed * r2 * r2)
	}
	return c
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// beamScratch is the per-worker working set: two envelope rows regardless of
// facet count, so a worker's memory stays flat as scenes grow.
type beamScratch struct {
	env        []float64
	envShifted []float64
}

func newBeamScratch(samples int) *beamScratch {
	return &beamScratch{
		env:        make([]float64, samples),
		envShifted: make([]float64, samples),
	}
}

// beamRows addresses one beam's output rows across the total and the four
// component matrices.
type beamRows struct {
	total    []float64
	snowSurf []float64
	snowVol  []float64
	iceSurf  []float64
	water    []float64
}

// integrateBeam accumulates every facet's contribution to a single synthetic
// beam, then applies the beam's taper weight and forms the total as the exact
// sum of the four component rows. grid is the receive window; shiftedGrid is
// grid advanced by the two-way snow delay and is only read when snow is
// present.
func integrateBeam(cfg model.RadarConfig, pattern beamPattern, offsetRad float64,
	t *facetTable, coef *coefTable, grid, shiftedGrid []float64, snowDelayS float64,
	weight float64, rows beamRows, sc *beamScratch) {

	hasSnow := snowDelayS > 0

	for f := 0; f < t.count; f++ {
		kf := coef.radarK[f] * pattern.gain(t.lookRad[f], offsetRad)
		if kf == 0 {
			continue
		}

		fillEnvelope(sc.env, grid, cfg.BandwidthHz, t.delayS[f])
		if hasSnow {
			resampleLinear(sc.envShifted, sc.env, grid, shiftedGrid)
		}

		ss := coef.snowSurf[f]
		sv := coef.snowVol[f]
		is := coef.iceSurf[f]
		wa := coef.water[f]

		for k := range grid {
			if hasSnow {
				if v := ss * sc.envShifted[k]; !math.IsNaN(v) {
					rows.snowSurf[k] += kf * v
				}
				// The volume return spans the two-way transit of the
				// snow column, decaying with depth below the surface.
				u := grid[k] - t.delayS[f] + snowDelayS
				if u >= 0 && u <= snowDelayS {
					d := u * cfg.SnowSpeedMps / 2
					if v := sv * math.Exp(-cfg.SnowExtinctionNpM*d); !math.IsNaN(v) {
						rows.snowVol[k] += kf * v
					}
				}
			}
			if v := is * sc.env[k]; !math.IsNaN(v) {
				rows.iceSurf[k] += kf * v
			}
			if wa != 0 {
				rows.water[k] += kf * wa * sc.env[k]
			}
		}
	}

	for k := range grid {
		rows.snowSurf[k] *= weight
		rows.snowVol[k] *= weight
		rows.iceSurf[k] *= weight
		rows.water[k] *= weight
		rows.total[k] = rows.snowSurf[k] + rows.snowVol[k] + rows.iceSurf[k] + rows.water[k]
	}
}
