package core

import (
	"math"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// EarthRadiusM is the mean Earth radius used for the effective-curvature
// correction applied to ice-surface geometry (metres).
const EarthRadiusM = 6371.0e3

// Vec3 is a vector in the track-relative frame: x along-track, y across-track,
// z up, all metres. The radar sits at (0, 0, altitude).
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product v x other.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Unit returns v scaled to unit length, or the zero vector when v is zero.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// radarViewNormal builds the unit normal a facet would need to face the radar
// head-on, given the facet's boresight-relative along- and across-track
// angles. Incidence is measured against this synthetic direction rather than
// the raw antenna-to-facet line, so antenna mispointing shifts the incidence
// angles the response curves see.
func radarViewNormal(alongRad, acrossRad float64) Vec3 {
	v := Vec3{
		X: -math.Sin(alongRad),
		Y: -math.Sin(acrossRad),
		Z: math.Cos(alongRad) * math.Cos(acrossRad),
	}
	return v.Unit()
}

// incidenceAngle returns the angle between the facet normal and the radar
// view direction, clipped to [0, pi/2]. Facets tilted past grazing still
// contribute, at grazing incidence, instead of being discarded.
func incidenceAngle(normal Vec3, alongRad, acrossRad float64) float64 {
	c := normal.Dot(radarViewNormal(alongRad, acrossRad))
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	th := math.Acos(c)
	if th > math.Pi/2 {
		th = math.Pi / 2
	}
	return th
}

// facetTable holds the per-facet quantities that do not depend on the beam
// index: ranges, delays, antenna gain, and incidence angles. Snow and ice
// meshes are facet-aligned, so index f addresses the same surface patch in
// both.
type facetTable struct {
	count int

	areaM2 []float64
	types  []model.SurfaceType

	// Ice-mesh geometry. Ranges and angles use an effective vertical that
	// folds Earth curvature into the facet height; the snow mesh sits a
	// snow depth above it and is treated as locally flat.
	rangeM     []float64 // curvature-corrected slant range to the ice centroid
	delayS     []float64 // two-way delay offset relative to the nominal window
	gainTwoWay []float64 // antenna pattern, transmit and receive combined

	lookRad    []float64 // along-track look angle steering the synthetic beams
	incIceRad  []float64 // incidence at the ice facet
	incSnowRad []float64 // incidence at the snow facet
}

// buildFacetTable derives the beam-invariant geometry for every facet pair.
// Every synthetic beam observes the same facets from the same platform
// position, so these arrays are computed once and shared read-only across the
// beam workers.
func buildFacetTable(cfg model.RadarConfig, ice, snow *FacetMesh) *facetTable {
	n := ice.FacetCount()
	t := &facetTable{
		count:      n,
		areaM2:     ice.AreaM2,
		types:      ice.Types,
		rangeM:     make([]float64, n),
		delayS:     make([]float64, n),
		gainTwoWay: make([]float64, n),
		lookRad:    make([]float64, n),
		incIceRad:  make([]float64, n),
		incSnowRad: make([]float64, n),
	}

	h := cfg.AltitudeM
	sinRoll := math.Sin(cfg.RollRad)

	for f := 0; f < n; f++ {
		cx, cy, cz := ice.CentroidX[f], ice.CentroidY[f], ice.CentroidZ[f]

		// Effective vertical separation, with the surface dropping away
		// from the tangent plane as rho^2 / (2 Re).
		rho2 := cx*cx + cy*cy
		dz := h - cz + rho2/(2*EarthRadiusM)
		rng := math.Sqrt(rho2 + dz*dz)

		along := math.Atan2(cx, dz) - cfg.PitchRad
		across := math.Atan2(cy, dz) - cfg.RollRad

		t.rangeM[f] = rng
		// Roll shortens the effective path on the +y side. Delays are
		// referenced to the nominal nadir two-way time.
		t.delayS[f] = 2 * (rng - cy*sinRoll - h) / speedOfLightMps
		t.gainTwoWay[f] = antennaGainTwoWay(cfg, along, across)
		t.incIceRad[f] = incidenceAngle(ice.normal(f), along, across)

		// Beam steering is referenced to the velocity vector, not the
		// antenna boresight, and ignores the curvature correction.
		t.lookRad[f] = math.Atan2(cx, h-cz)

		sx, sy, sz := snow.CentroidX[f], snow.CentroidY[f], snow.CentroidZ[f]
		sdz := h - sz
		sAlong := math.Atan2(sx, sdz) - cfg.PitchRad
		sAcross := math.Atan2(sy, sdz) - cfg.RollRad
		t.incSnowRad[f] = incidenceAngle(snow.normal(f), sAlong, sAcross)
	}
	return t
}
