package interp

import "math"

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// Linear interpolates between x0 and x1 at t in [0,1].
func Linear(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// SampleAt reads samples at a fractional position using Hermite
// interpolation with clamped edges. Positions outside the slice clamp to
// the nearest sample.
func SampleAt(samples []float64, pos float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if pos <= 0 {
		return samples[0]
	}
	if pos >= float64(n-1) {
		return samples[n-1]
	}

	i := int(math.Floor(pos))
	frac := pos - float64(i)

	x0 := samples[i]
	x1 := samples[i+1]
	xm1 := x0
	if i > 0 {
		xm1 = samples[i-1]
	}
	x2 := x1
	if i+2 < n {
		x2 = samples[i+2]
	}

	return Hermite4(frac, xm1, x0, x1, x2)
}
