package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// Curve evaluates an angle-dependent surface response at an incidence angle
// in radians. Implementations decide how tabulated samples are interpolated;
// the echo model only ever calls Eval.
type Curve interface {
	Eval(angleRad float64) float64
}

// CurveFunc adapts a plain function to the Curve interface.
type CurveFunc func(angleRad float64) float64

// Eval calls f.
func (f CurveFunc) Eval(angleRad float64) float64 { return f(angleRad) }

// SplineCurve interpolates a tabulated response with an Akima spline and
// returns NaN outside the tabulated angle range. Summations downstream treat
// NaN contributions as zero, so a curve tabulated only near nadir silently
// stops contributing at wider angles.
type SplineCurve struct {
	pred     interp.AkimaSpline
	min, max float64
}

// NewSplineCurve fits a spline through the table. The angle grid must be
// strictly increasing with at least two samples.
func NewSplineCurve(table model.ResponseTable) (*SplineCurve, error) {
	n := table.Len()
	if len(table.Value) != n {
		return nil, fmt.Errorf("response table has %d angles but %d values", n, len(table.Value))
	}
	if n < 2 {
		return nil, fmt.Errorf("response table has %d samples, need at least 2", n)
	}
	for i := 1; i < n; i++ {
		if table.AngleRad[i] <= table.AngleRad[i-1] {
			return nil, fmt.Errorf("response table angles not strictly increasing at index %d", i)
		}
	}
	c := &SplineCurve{min: table.AngleRad[0], max: table.AngleRad[n-1]}
	if err := c.pred.Fit(table.AngleRad, table.Value); err != nil {
		return nil, fmt.Errorf("fit response spline: %w", err)
	}
	return c, nil
}

// Eval returns the interpolated response, or NaN when the angle falls outside
// the tabulated domain.
func (c *SplineCurve) Eval(angleRad float64) float64 {
	if angleRad < c.min || angleRad > c.max {
		return math.NaN()
	}
	return c.pred.Predict(angleRad)
}

// CurveSet carries the six response curves one scene needs: backscatter for
// the four echo sources and the one-way transmission through the snow-air
// interface.
type CurveSet struct {
	SnowSurface      Curve // sigma0 of the air-snow interface
	SnowVolume       Curve // volume scattering strength inside the snowpack
	IceSurface       Curve // sigma0 of the snow-ice interface
	Lead             Curve // sigma0 of open water in leads and the ocean
	MeltPond         Curve // sigma0 of melt ponds
	SnowTransmission Curve // one-way power transmission into the snowpack
}

func (cs CurveSet) validate() error {
	missing := ""
	switch {
	case cs.SnowSurface == nil:
		missing = "snow surface"
	case cs.SnowVolume == nil:
		missing = "snow volume"
	case cs.IceSurface == nil:
		missing = "ice surface"
	case cs.Lead == nil:
		missing = "lead"
	case cs.MeltPond == nil:
		missing = "melt pond"
	case cs.SnowTransmission == nil:
		missing = "snow transmission"
	}
	if missing != "" {
		return fmt.Errorf("%w: %s curve is nil", ErrIncompleteCurveSet, missing)
	}
	return nil
}
