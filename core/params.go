package core

import (
	"math"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// speedOfLightMps is the vacuum speed of light in metres per second.
const speedOfLightMps = 299792458.0

// DerivedParams collects the burst-level quantities computed once from the
// radar configuration before any beam work starts.
type DerivedParams struct {
	FrequencyHz  float64 // carrier frequency
	WavenumberRm float64 // 2 pi / wavelength, radians per metre

	PulseSpacingM float64 // along-track distance flown between pulses

	// Footprint scales. The Doppler footprint is the along-track extent a
	// single synthetic beam resolves; the pulse-limited footprint is the
	// classic curvature-corrected pulse-limited diameter.
	DopplerFootprintM      float64
	PulseLimitedFootprintM float64

	// BeamSeparationRad is the angular spacing between adjacent synthetic
	// beams; BeamOffsetsRad holds the symmetric look-angle offset of every
	// beam, ascending, centred on zero.
	BeamSeparationRad float64
	BeamOffsetsRad    []float64
}

// DeriveParams computes the derived burst parameters. Inputs are assumed
// physically valid; Simulator.Simulate validates scenarios before calling.
func DeriveParams(cfg model.RadarConfig) DerivedParams {
	p := DerivedParams{
		FrequencyHz:   speedOfLightMps / cfg.WavelengthM,
		WavenumberRm:  2 * math.Pi / cfg.WavelengthM,
		PulseSpacingM: cfg.VelocityMps / cfg.PRFHz,
	}

	// Synthetic aperture spanned by one burst of BeamCount pulses.
	aperture := float64(cfg.BeamCount) * p.PulseSpacingM
	p.DopplerFootprintM = cfg.WavelengthM * cfg.AltitudeM / (2 * aperture)
	p.BeamSeparationRad = cfg.WavelengthM / (2 * aperture)

	// Pulse-limited diameter, shrunk by the effective-radius factor that
	// accounts for Earth curvature under the footprint.
	alpha := 1 / (1 + cfg.AltitudeM/EarthRadiusM)
	p.PulseLimitedFootprintM = 2 * math.Sqrt(speedOfLightMps*cfg.AltitudeM*alpha/cfg.BandwidthHz)

	p.BeamOffsetsRad = make([]float64, cfg.BeamCount)
	mid := float64(cfg.BeamCount-1) / 2
	for i := range p.BeamOffsetsRad {
		p.BeamOffsetsRad[i] = (float64(i) - mid) * p.BeamSeparationRad
	}
	return p
}
