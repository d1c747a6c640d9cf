package tdpsola

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-esig/dsp/core"
	"github.com/cwbudde/algo-esig/dsp/interp"
	"github.com/cwbudde/algo-esig/dsp/window"
)

const (
	// Fallback period for unvoiced stretches, as a fundamental in Hz.
	defaultUnvoicedF0 = 100.0

	minUsableF0 = 20.0
	maxUsableF0 = 2000.0

	// Grains span two periods of the shorter of source and target
	// period, Hann-windowed.
	grainPeriods = 2

	// Pitch marks may deviate from the predicted period grid by this
	// fraction of a period when snapping to a waveform crest.
	markSearchRadius = 0.25

	normalizationFloor = 1e-9
)

// Processor rebuilds a signal's local periodicity at a target pitch
// contour while preserving duration.
type Processor struct {
	sampleRate float64
}

// Option configures a Processor.
type Option func(*Processor)

// New constructs a processor for the given audio sample rate.
func New(sampleRate float64, opts ...Option) (*Processor, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tdpsola: sample rate must be positive and finite: %f", sampleRate)
	}

	p := &Processor{sampleRate: sampleRate}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// SampleRate returns the audio sample rate the processor was built for.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// Modify resynthesizes samples so that regions whose source pitch is
// srcPitch follow tgtPitch instead. Both contours are sampled at
// contourRate frames per second and must have equal length; zeros mark
// unvoiced regions and pass through with unchanged periodicity.
func (p *Processor) Modify(samples []float64, srcPitch, tgtPitch []float64, contourRate float64) ([]float64, error) {
	if len(srcPitch) != len(tgtPitch) {
		return nil, fmt.Errorf("tdpsola: contour lengths differ: %d vs %d", len(srcPitch), len(tgtPitch))
	}
	if contourRate <= 0 {
		return nil, fmt.Errorf("tdpsola: contour rate must be > 0: %f", contourRate)
	}
	if len(samples) == 0 {
		return []float64{}, nil
	}
	if len(srcPitch) == 0 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out, nil
	}

	n := len(samples)
	marks := p.markEpochs(samples, srcPitch, contourRate)

	out := make([]float64, n)
	wsum := make([]float64, n)

	// Synthesis positions advance by the local mark spacing scaled to
	// the target period. Each grain is cut around the mark nearest the
	// current position, keeping every grain at the same carrier phase.
	pos := marks[0]
	for pos < float64(n) {
		srcPeriod := p.periodAt(srcPitch, contourRate, pos)
		tgtPeriod := p.periodAt(tgtPitch, contourRate, pos)

		j := nearestMarkIndex(marks, pos)
		half := grainPeriods * math.Min(srcPeriod, tgtPeriod) / 2
		p.addGrain(out, wsum, samples, marks[j], half, pos)

		spacing := srcPeriod
		if j+1 < len(marks) {
			spacing = marks[j+1] - marks[j]
		}
		step := spacing * tgtPeriod / srcPeriod
		if step < 1 {
			step = 1
		}
		pos += step
	}

	for i := range out {
		if wsum[i] > normalizationFloor {
			out[i] /= wsum[i]
		}
	}

	return out, nil
}

// markEpochs lays analysis pitch marks across the signal. Each mark is
// predicted one source period past the previous one, then snapped to the
// strongest waveform crest within markSearchRadius of a period. Unvoiced
// stretches advance at the fallback period.
func (p *Processor) markEpochs(samples []float64, srcPitch []float64, contourRate float64) []float64 {
	n := len(samples)
	marks := make([]float64, 0, n/64+2)

	period := p.periodAt(srcPitch, contourRate, 0)
	pos := crestNear(samples, period/2, period/2)
	for pos < float64(n) {
		marks = append(marks, pos)

		period = p.periodAt(srcPitch, contourRate, pos)
		predicted := pos + period
		radius := period * markSearchRadius

		// Snap only when the full search window is inside the signal;
		// a clamped window would pick a boundary sample, not a crest.
		refined := predicted
		if predicted+radius <= float64(n-1) {
			refined = crestNear(samples, predicted, radius)
			if refined <= pos+period/2 {
				refined = predicted
			}
		}
		pos = refined
	}
	return marks
}

// crestNear returns the position of the largest sample value within
// [center-radius, center+radius], refined parabolically to a fractional
// offset. The search window clamps to the signal bounds; an empty window
// returns center unchanged.
func crestNear(samples []float64, center, radius float64) float64 {
	lo := int(math.Ceil(center - radius))
	hi := int(math.Floor(center + radius))
	if lo < 0 {
		lo = 0
	}
	if hi > len(samples)-1 {
		hi = len(samples) - 1
	}
	if lo > hi {
		return center
	}

	best := lo
	for i := lo + 1; i <= hi; i++ {
		if samples[i] > samples[best] {
			best = i
		}
	}
	if best <= 0 || best >= len(samples)-1 {
		return float64(best)
	}

	ym1 := samples[best-1]
	y0 := samples[best]
	y1 := samples[best+1]
	denom := ym1 - 2*y0 + y1
	if denom == 0 {
		return float64(best)
	}
	delta := core.Clamp(0.5*(ym1-y1)/denom, -0.5, 0.5)
	return float64(best) + delta
}

// periodAt returns the pitch period in samples at sample position pos,
// reading the nearest contour frame. Unvoiced frames use the fallback
// period so epoch spacing stays bounded.
func (p *Processor) periodAt(contour []float64, contourRate, pos float64) float64 {
	idx := int(math.Round(pos / p.sampleRate * contourRate))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(contour) {
		idx = len(contour) - 1
	}

	f0 := contour[idx]
	if f0 <= 0 {
		f0 = defaultUnvoicedF0
	}
	if f0 < minUsableF0 {
		f0 = minUsableF0
	}
	if f0 > maxUsableF0 {
		f0 = maxUsableF0
	}
	return p.sampleRate / f0
}

// addGrain overlap-adds a Hann-windowed grain spanning 2*half samples,
// read around center, into out at pos.
func (p *Processor) addGrain(out, wsum, samples []float64, center, half, pos float64) {
	length := int(math.Round(2 * half))
	if length < 4 {
		length = 4
	}

	coeffs, err := window.Hann(length)
	if err != nil {
		return
	}

	grain := make([]float64, length)
	for k := range grain {
		offset := float64(k) - float64(length-1)/2
		grain[k] = interp.SampleAt(samples, center+offset)
	}
	if err := window.ApplyCoefficientsInPlace(grain, coeffs); err != nil {
		return
	}

	for k, v := range grain {
		offset := float64(k) - float64(length-1)/2
		dst := int(math.Round(pos + offset))
		if dst < 0 || dst >= len(out) {
			continue
		}
		out[dst] += v
		wsum[dst] += coeffs[k]
	}
}

// nearestMarkIndex returns the index of the mark closest to pos.
// marks must be sorted and non-empty.
func nearestMarkIndex(marks []float64, pos float64) int {
	i := sort.SearchFloat64s(marks, pos)
	if i == 0 {
		return 0
	}
	if i >= len(marks) {
		return len(marks) - 1
	}
	if pos-marks[i-1] <= marks[i]-pos {
		return i - 1
	}
	return i
}
