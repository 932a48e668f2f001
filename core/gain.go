package core

import (
	"math"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// antennaGainTwoWay evaluates the combined transmit-receive Gaussian antenna
// pattern at boresight-relative angles. The configured beamwidths are the
// one-way 1/e half-widths of the pattern.
func antennaGainTwoWay(cfg model.RadarConfig, alongRad, acrossRad float64) float64 {
	al := alongRad / cfg.BeamwidthAlongRad
	ac := acrossRad / cfg.BeamwidthAcrossRad
	return cfg.BoresightGain * cfg.BoresightGain * math.Exp(-2*(al*al+ac*ac))
}

// beamPattern evaluates the synthetic-aperture array factor of a burst: a
// uniform linear array of BeamCount pulse phase centres spaced one inter-pulse
// distance apart.
type beamPattern struct {
	phaseCoeff float64 // 2 pi x pulse spacing / wavelength
	count      float64
}

func newBeamPattern(cfg model.RadarConfig) beamPattern {
	return beamPattern{
		phaseCoeff: 2 * math.Pi * cfg.VelocityMps / (cfg.PRFHz * cfg.WavelengthM),
		count:      float64(cfg.BeamCount),
	}
}

// gain returns the normalised array-factor power for a beam steered to
// offsetRad observing a facet at lookRad. The 0/0 at exact beam alignment
// resolves to the analytic limit 1; a single-pulse burst has no synthetic
// directivity and returns 1 everywhere.
func (p beamPattern) gain(lookRad, offsetRad float64) float64 {
	x := p.phaseCoeff * math.Sin(lookRad-offsetRad)
	s := math.Sin(x)
	if s == 0 {
		return 1
	}
	r := math.Sin(p.count*x) / (p.count * s)
	return r * r
}
