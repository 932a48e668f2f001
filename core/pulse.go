package core

import "math"

// sinc is the normalised sinc function sin(pi u)/(pi u), with sinc(0) = 1.
func sinc(u float64) float64 {
	if u == 0 {
		return 1
	}
	pu := math.Pi * u
	return math.Sin(pu) / pu
}

// pulseEnvelope is the compressed-pulse power envelope at a delay from the
// point-target peak: sinc squared of bandwidth times delay.
func pulseEnvelope(bandwidthHz, delayS float64) float64 {
	s := sinc(bandwidthHz * delayS)
	return s * s
}

// fillEnvelope samples the envelope of a facet with two-way delay offset
// delayS onto the receive window grid: dst[k] = envelope(grid[k] - delayS).
func fillEnvelope(dst, grid []float64, bandwidthHz, delayS float64) {
	for k, t := range grid {
		dst[k] = pulseEnvelope(bandwidthHz, t-delayS)
	}
}

// resampleLinear interpolates a series sampled at src onto the dst grid,
// writing the result to out. Values beyond the src range hold the nearest
// endpoint. Both grids must be ascending; runs allocation-free so the beam
// workers can call it per facet.
func resampleLinear(out, series, src, dst []float64) {
	j := 0
	last := len(src) - 1
	for k, t := range dst {
		switch {
		case t <= src[0]:
			out[k] = series[0]
		case t >= src[last]:
			out[k] = series[last]
		default:
			for src[j+1] < t {
				j++
			}
			w := (t - src[j]) / (src[j+1] - src[j])
			out[k] = series[j] + w*(series[j+1]-series[j])
		}
	}
}
