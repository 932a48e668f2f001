package model

// Mode selects how the instrument forms looks on the surface.
type Mode string

const (
	// ModeSAR forms BeamCount synthetic Doppler beams per burst and stacks them.
	ModeSAR Mode = "sar"
	// ModePulseLimited models a conventional single-look altimeter. Callers
	// supply BeamCount = 1 in this mode.
	ModePulseLimited Mode = "pulse-limited"
)

// Valid reports whether m is a recognised operating mode.
func (m Mode) Valid() bool {
	return m == ModeSAR || m == ModePulseLimited
}

// BeamWindow identifies the amplitude taper applied across the beam stack
// before multi-looking.
type BeamWindow string

const (
	WindowRectangular BeamWindow = "rectangular"
	WindowHann        BeamWindow = "hann"
	WindowHamming     BeamWindow = "hamming"
	WindowBlackman    BeamWindow = "blackman"
)

// Valid reports whether w names a supported taper.
func (w BeamWindow) Valid() bool {
	switch w {
	case WindowRectangular, WindowHann, WindowHamming, WindowBlackman:
		return true
	}
	return false
}

// RadarConfig carries the instrument, platform, and snowpack scalars for one
// simulated burst. Angles are radians and powers are linear (not dB).
type RadarConfig struct {
	WavelengthM float64 // carrier wavelength
	BandwidthHz float64 // range chirp bandwidth
	TxPowerW    float64 // peak transmit power

	AltitudeM   float64 // platform height above the reference surface
	VelocityMps float64 // along-track platform speed
	PRFHz       float64 // pulse repetition frequency
	PitchRad    float64 // antenna mispointing, along-track positive forward
	RollRad     float64 // antenna mispointing, across-track

	BoresightGain      float64 // one-way antenna gain at boresight, linear
	BeamwidthAlongRad  float64 // along-track pattern width parameter
	BeamwidthAcrossRad float64 // across-track pattern width parameter

	BeamCount int // synthetic beams per burst; 1 in pulse-limited mode

	SnowDepthM        float64 // uniform snow load on ice facets; 0 disables snow terms
	SnowSpeedMps      float64 // wave propagation speed inside the snowpack
	SnowExtinctionNpM float64 // one-way snow extinction coefficient, nepers per metre

	Mode   Mode
	Window BeamWindow // empty selects WindowRectangular
}
