package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// HzToMidi converts a frequency in Hz to a (fractional) MIDI note number.
// Returns NaN for non-positive frequencies.
func HzToMidi(hz float64) float64 {
	if hz <= 0 {
		return math.NaN()
	}

	return 69 + 12*math.Log2(hz/440)
}

// MidiToHz converts a (fractional) MIDI note number to a frequency in Hz.
func MidiToHz(midi float64) float64 {
	return 440 * math.Pow(2, (midi-69)/12)
}

// SemitoneDelta returns the Hz distance between hz and the pitch one
// semitone above it. Returns NaN for non-positive frequencies.
func SemitoneDelta(hz float64) float64 {
	if hz <= 0 {
		return math.NaN()
	}

	return MidiToHz(HzToMidi(hz)+1) - hz
}

// CentsToRatio converts a pitch interval in cents to a frequency ratio.
func CentsToRatio(cents float64) float64 {
	return math.Pow(2, cents/1200)
}

// RatioToCents converts a frequency ratio to a pitch interval in cents.
// Returns NaN for non-positive ratios.
func RatioToCents(ratio float64) float64 {
	if ratio <= 0 {
		return math.NaN()
	}

	return 1200 * math.Log2(ratio)
}
