package core

import (
	"math"
	"testing"
)

func TestSinc(t *testing.T) {
	if got := sinc(0); got != 1 {
		t.Fatalf("sinc(0) = %v, want exactly 1", got)
	}
	// Zeros at the integers.
	for _, u := range []float64{1, 2, -3} {
		if got := sinc(u); math.Abs(got) > 1e-15 {
			t.Errorf("sinc(%v) = %v, want about 0", u, got)
		}
	}
	if got := sinc(0.5); !within(got, 2/math.Pi, 1e-15) {
		t.Errorf("sinc(0.5) = %v, want 2/pi", got)
	}
	if sinc(0.3) != sinc(-0.3) {
		t.Errorf("sinc not even")
	}
}

func TestPulseEnvelope(t *testing.T) {
	const bw = 320e6

	if got := pulseEnvelope(bw, 0); got != 1 {
		t.Fatalf("envelope peak = %v, want exactly 1", got)
	}
	// First zero at one inverse bandwidth.
	if got := pulseEnvelope(bw, 1/bw); got > 1e-15 {
		t.Errorf("envelope at 1/B = %v, want 0", got)
	}
	// Envelope is a power quantity.
	for _, d := range []float64{0.3 / bw, 1.7 / bw, -0.6 / bw} {
		if got := pulseEnvelope(bw, d); got < 0 || got > 1 {
			t.Errorf("envelope(%v) = %v, want within [0, 1]", d, got)
		}
	}
}

func TestFillEnvelope(t *testing.T) {
	const bw = 320e6
	grid := linspace(-10/bw, 10/bw, 81)
	dst := make([]float64, len(grid))

	delay := grid[55]
	fillEnvelope(dst, grid, bw, delay)

	if dst[55] != 1 {
		t.Fatalf("envelope at its own delay = %v, want 1", dst[55])
	}
	for k := range grid {
		if want := pulseEnvelope(bw, grid[k]-delay); dst[k] != want {
			t.Fatalf("dst[%d] = %v, want %v", k, dst[k], want)
		}
	}
}

func TestResampleLinear_ExactOnLinearSeries(t *testing.T) {
	src := []float64{0, 1, 2, 3, 4}
	series := make([]float64, len(src))
	for i, x := range src {
		series[i] = 2*x + 1
	}
	dst := []float64{0.25, 1, 1.5, 2.75, 3.9}
	out := make([]float64, len(dst))

	resampleLinear(out, series, src, dst)

	for k, x := range dst {
		if want := 2*x + 1; !within(out[k], want, 1e-12) {
			t.Errorf("out[%d] = %v, want %v", k, out[k], want)
		}
	}
}

func TestResampleLinear_HoldsEndpoints(t *testing.T) {
	src := []float64{0, 1, 2}
	series := []float64{5, 7, 11}
	dst := []float64{-3, -0.0001, 2.0001, 9}
	out := make([]float64, len(dst))

	resampleLinear(out, series, src, dst)

	if out[0] != 5 || out[1] != 5 {
		t.Errorf("below-range samples = %v %v, want first value 5", out[0], out[1])
	}
	if out[2] != 11 || out[3] != 11 {
		t.Errorf("above-range samples = %v %v, want last value 11", out[2], out[3])
	}
}

func TestResampleLinear_IdentityGrid(t *testing.T) {
	src := linspace(0, 1, 17)
	series := make([]float64, len(src))
	for i := range series {
		series[i] = math.Sin(6 * src[i])
	}
	out := make([]float64, len(src))

	resampleLinear(out, series, src, src)

	for k := range src {
		if !within(out[k], series[k], 1e-15) {
			t.Fatalf("out[%d] = %v, want %v", k, out[k], series[k])
		}
	}
}
