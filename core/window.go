package core

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/window"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// beamWeights returns the amplitude taper applied across the beam stack
// before multi-looking, one weight per beam. An empty selector means no
// taper. A single-beam stack always weighs 1 regardless of selector, since
// the cosine windows are undefined on one sample.
func beamWeights(w model.BeamWindow, beams int) ([]float64, error) {
	if beams == 1 {
		return []float64{1}, nil
	}
	switch w {
	case model.WindowRectangular, "":
		return window.NewValues(window.Rectangular, beams), nil
	case model.WindowHann:
		return window.NewValues(window.Hann, beams), nil
	case model.WindowHamming:
		return window.NewValues(window.Hamming, beams), nil
	case model.WindowBlackman:
		return window.NewValues(window.Blackman, beams), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWindow, w)
}
