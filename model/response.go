package model

// ResponseTable tabulates an angle-dependent surface response, for example a
// backscatter coefficient or an interface transmission factor, sampled on an
// increasing grid of incidence angles in radians.
type ResponseTable struct {
	AngleRad []float64
	Value    []float64
}

// Len returns the number of tabulated samples.
func (t ResponseTable) Len() int { return len(t.AngleRad) }
