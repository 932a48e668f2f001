package core

import (
	"math"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// DemoScenario builds the default synthetic scene: a 41x41 vertex grid with
// 256 receive-window samples. See SyntheticScenario for the scene contents.
func DemoScenario(beams int) *Scenario {
	return SyntheticScenario(beams, 41, 41, 256)
}

// SyntheticScenario builds a deterministic sea-ice scene with no external
// data: gently ridged floes with a lead crossing the swath and one melt pond,
// under 20 cm of snow, observed by a Ku-band SAR altimeter. The scene sits on
// an nx-by-ny vertex grid at 20 m spacing and the receive window holds the
// given number of samples. A beam count of 1 switches the configuration to
// pulse-limited mode.
func SyntheticScenario(beams, nx, ny, samples int) *Scenario {
	const (
		spacingM  = 20.0
		freeboard = 0.3
		snowDepth = 0.2
		bandwidth = 320e6
	)

	n := nx * ny
	ice := model.PointCloud{
		X: make([]float64, 0, n),
		Y: make([]float64, 0, n),
		Z: make([]float64, 0, n),
	}
	snow := model.PointCloud{
		X: make([]float64, 0, n),
		Y: make([]float64, 0, n),
		Z: make([]float64, 0, n),
	}
	types := make([]model.SurfaceType, 0, n)

	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			x := (float64(ix) - float64(nx-1)/2) * spacingM
			y := (float64(iy) - float64(ny-1)/2) * spacingM

			var z float64
			var st model.SurfaceType
			pondR2 := (x+150)*(x+150) + (y-100)*(y-100)
			switch {
			case x >= 80 && x <= 160:
				st = model.SurfaceLead
				z = 0
			case pondR2 < 60*60:
				st = model.SurfaceMeltPond
				z = freeboard - 0.1
			default:
				st = model.SurfaceSeaIce
				z = freeboard + 0.15*math.Sin(x/90)*math.Cos(y/70)
			}

			ice.X = append(ice.X, x)
			ice.Y = append(ice.Y, y)
			ice.Z = append(ice.Z, z)
			snow.X = append(snow.X, x)
			snow.Y = append(snow.Y, y)
			snow.Z = append(snow.Z, z+snowDepth)
			types = append(types, st)
		}
	}

	mode := model.ModeSAR
	if beams == 1 {
		mode = model.ModePulseLimited
	}

	grid := make([]float64, samples)
	for k := range grid {
		grid[k] = (-20 + 80*float64(k)/float64(samples-1)) / bandwidth
	}

	return &Scenario{
		Radar: model.RadarConfig{
			WavelengthM:        0.0221,
			BandwidthHz:        bandwidth,
			TxPowerW:           25,
			AltitudeM:          720e3,
			VelocityMps:        7500,
			PRFHz:              18182,
			BoresightGain:      19953, // ~43 dB
			BeamwidthAlongRad:  0.0191,
			BeamwidthAcrossRad: 0.0209,
			BeamCount:          beams,
			SnowDepthM:         snowDepth,
			SnowSpeedMps:       2.4e8,
			SnowExtinctionNpM:  0.15,
			Mode:               mode,
			Window:             model.WindowHamming,
		},
		Surface: model.SurfaceModel{
			Snow:     snow,
			Ice:      ice,
			IceTypes: types,
		},
		TimeGridS: grid,
		Curves: CurveSet{
			SnowSurface:      mustCurve(gaussTable(8, 0.06, math.Pi/2, 31)),
			SnowVolume:       mustCurve(decayTable(0.08, 0.5, math.Pi/2, 31)),
			IceSurface:       mustCurve(decayTable(14, 0.07, math.Pi/2, 31)),
			Lead:             mustCurve(gaussTable(2500, 0.003, 0.012, 13)),
			MeltPond:         mustCurve(gaussTable(900, 0.005, 0.02, 13)),
			SnowTransmission: mustCurve(lineTable(0.97, -0.1, math.Pi/2, 31)),
		},
	}
}

// gaussTable tabulates peak * exp(-(angle/width)^2) on [0, hi]. The lead and
// pond tables use a narrow hi so their responses vanish off-nadir.
func gaussTable(peak, width, hi float64, n int) model.ResponseTable {
	t := model.ResponseTable{AngleRad: linspace(0, hi, n), Value: make([]float64, n)}
	for i, a := range t.AngleRad {
		t.Value[i] = peak * math.Exp(-(a/width)*(a/width))
	}
	return t
}

// decayTable tabulates peak * exp(-angle/scale) on [0, hi].
func decayTable(peak, scale, hi float64, n int) model.ResponseTable {
	t := model.ResponseTable{AngleRad: linspace(0, hi, n), Value: make([]float64, n)}
	for i, a := range t.AngleRad {
		t.Value[i] = peak * math.Exp(-a/scale)
	}
	return t
}

// lineTable tabulates intercept + slope*angle on [0, hi].
func lineTable(intercept, slope, hi float64, n int) model.ResponseTable {
	t := model.ResponseTable{AngleRad: linspace(0, hi, n), Value: make([]float64, n)}
	for i, a := range t.AngleRad {
		t.Value[i] = intercept + slope*a
	}
	return t
}

func linspace(lo, hi float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return s
}

// mustCurve fits a hard-coded table, panicking on failure the way
// regexp.MustCompile does: the tables above are compile-time constants.
func mustCurve(t model.ResponseTable) Curve {
	c, err := NewSplineCurve(t)
	if err != nil {
		panic(err)
	}
	return c
}
