package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// StepContour concatenates constant pitch segments, one per (value, length) pair.
func StepContour(pairs ...[2]float64) []float64 {
	out := make([]float64, 0)
	for _, p := range pairs {
		for i := 0; i < int(p[1]); i++ {
			out = append(out, p[0])
		}
	}
	return out
}

// VibratoContour generates a pitch contour wobbling around centerHz with
// the given peak extent in cents at rateHz, sampled at contourRate.
func VibratoContour(centerHz, extentCents, rateHz, contourRate float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		t := float64(i) / contourRate
		cents := extentCents * math.Sin(2*math.Pi*rateHz*t)
		out[i] = centerHz * math.Pow(2, cents/1200)
	}
	return out
}
