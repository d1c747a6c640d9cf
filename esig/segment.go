package esig

import (
	"math"

	"github.com/cwbudde/algo-esig/dsp/core"
	"github.com/cwbudde/algo-esig/dsp/window"
)

// Vibrato in singing voice typically oscillates around 5 Hz; the
// smoothing bandwidth is tuned so that rate is attenuated.
const averageVibratoRate = 5.0

// SegmentEvents splits a pitch contour into events: maximal ranges whose
// pitch stays within a vibrato-tolerant band around the range average.
//
// A growing candidate range is terminated when the next frame is
// unvoiced (0), when any raw frame deviates from the candidate average
// by more than maxVibratoExtent cents of a semitone, or when the
// Gaussian-smoothed candidate deviates by more than that bound scaled by
// maxVibratoInaccuracy. The raw check tolerates fast bounded wobble
// (genuine vibrato) while the smoothed check still catches sustained
// pitch jumps. Candidates shorter than minEventLength seconds are
// discarded, so the result may leave gaps.
func SegmentEvents(pitch []float64, contourRate, maxVibratoExtent, maxVibratoInaccuracy, minEventLength float64) []Event {
	var events []Event

	minFrames := minEventLength * contourRate
	commit := func(start, end int) {
		if float64(end-start) > minFrames {
			events = append(events, Event{Start: start, End: end})
		}
	}

	sigma := contourRate / (2 * averageVibratoRate)

	start := 0
	for i, current := range pitch {
		if current == 0 {
			commit(start, i)
			start = i + 1
			continue
		}

		candidate := pitch[start : i+1]
		avg := core.Mean(candidate)
		maxDeviation := core.SemitoneDelta(avg) * maxVibratoExtent / 100

		smoothed := gaussianSmooth(candidate, sigma)

		switch {
		case core.MaxAbsDeviation(candidate, avg) > maxDeviation,
			core.MaxAbsDeviation(smoothed, avg) > maxDeviation*maxVibratoInaccuracy:
			// The offending frame starts the next candidate.
			commit(start, i)
			start = i
		case i == len(pitch)-1:
			commit(start, i+1)
		}
	}

	return events
}

// gaussianSmooth filters x with a unit-sum Gaussian kernel of the given
// standard deviation (in frames), truncated at 4 sigma, with reflected
// boundary handling.
func gaussianSmooth(x []float64, sigma float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}

	radius := int(4*sigma + 0.5)
	kernel, err := window.GaussianKernel(sigma, radius)
	if err != nil || len(kernel) == 1 {
		copy(out, x)
		return out
	}

	for i := range x {
		sum := 0.0
		for k, w := range kernel {
			sum += w * x[reflectIndex(i+k-radius, len(x))]
		}
		out[i] = sum
	}
	return out
}

// reflectIndex maps an out-of-range index into [0, n) by reflecting at
// the edges without repeating the boundary sample's mirror twin
// (scipy-style "reflect": d c b a | a b c d | d c b a).
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}

	period := 2 * n
	i = ((i % period) + period) % period
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// MeanPitch returns the average contour value over an event's range,
// ignoring frames outside the contour.
func MeanPitch(pitch []float64, ev Event) float64 {
	lo := int(math.Max(0, float64(ev.Start)))
	hi := ev.End
	if hi > len(pitch) {
		hi = len(pitch)
	}
	if lo >= hi {
		return 0
	}
	return core.Mean(pitch[lo:hi])
}
