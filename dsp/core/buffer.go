package core

import "math"

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}

// Mean returns the arithmetic mean of buf, or 0 for an empty slice.
func Mean(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range buf {
		sum += v
	}
	return sum / float64(len(buf))
}

// MaxAbsDeviation returns the largest |v - ref| over buf, or 0 for an empty slice.
func MaxAbsDeviation(buf []float64, ref float64) float64 {
	maxDev := 0.0
	for _, v := range buf {
		dev := math.Abs(v - ref)
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev
}

// RMS returns the root mean square of buf, or 0 for an empty slice.
func RMS(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}
