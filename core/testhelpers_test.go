package core

import (
	"math"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// helpers shared across the package tests.

func within(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func withinRel(a, b, rtol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= rtol*scale
}

// constCurve evaluates to v at every angle.
func constCurve(v float64) Curve {
	return CurveFunc(func(float64) float64 { return v })
}

// nanCurve is undefined at every angle.
func nanCurve() Curve {
	return CurveFunc(func(float64) float64 { return math.NaN() })
}

// constCurveSet gives every response a benign constant value; individual
// tests override the curve under scrutiny.
func constCurveSet() CurveSet {
	return CurveSet{
		SnowSurface:      constCurve(3),
		SnowVolume:       constCurve(0.05),
		IceSurface:       constCurve(10),
		Lead:             constCurve(500),
		MeltPond:         constCurve(200),
		SnowTransmission: constCurve(0.95),
	}
}

// fixedTriangles returns a Triangulator that ignores the points and returns
// the given triangle list, so tests control facet geometry exactly.
func fixedTriangles(tris [][3]int) Triangulator {
	return func(x, y []float64) ([][3]int, error) {
		return tris, nil
	}
}

// singleFacetScenario builds a scene whose ice surface is one right triangle
// with legs of length legM in the horizontal plane at z = 0, centred near
// nadir, with the snow cloud collapsed onto the ice (zero snow depth unless
// the caller sets one). The fixed triangulator keeps the facet layout under
// test control.
func singleFacetScenario(legM float64, st model.SurfaceType) (Scenario, Triangulator) {
	x := []float64{0, legM, 0}
	y := []float64{0, 0, legM}
	z := []float64{0, 0, 0}

	grid := linspace(-1e-8, 1e-8, 41)

	sc := Scenario{
		Radar: model.RadarConfig{
			WavelengthM:        0.0221,
			BandwidthHz:        320e6,
			TxPowerW:           25,
			AltitudeM:          720e3,
			VelocityMps:        7500,
			PRFHz:              18182,
			BoresightGain:      19953,
			BeamwidthAlongRad:  0.0191,
			BeamwidthAcrossRad: 0.0209,
			BeamCount:          1,
			Mode:               model.ModePulseLimited,
			Window:             model.WindowRectangular,
		},
		Surface: model.SurfaceModel{
			Snow:     model.PointCloud{X: x, Y: y, Z: z},
			Ice:      model.PointCloud{X: x, Y: y, Z: z},
			IceTypes: []model.SurfaceType{st, st, st},
		},
		TimeGridS: grid,
		Curves:    constCurveSet(),
	}
	return sc, fixedTriangles([][3]int{{0, 1, 2}})
}
