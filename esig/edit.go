package esig

import (
	"fmt"

	"github.com/cwbudde/algo-esig/dsp/signal"
	"github.com/cwbudde/algo-esig/dsp/tdpsola"
)

// Modifier resynthesizes samples so their pitch follows a target contour
// instead of the source contour. Output length may differ from input.
type Modifier interface {
	Modify(samples []float64, srcPitch, tgtPitch []float64, contourRate float64) ([]float64, error)
}

var _ Modifier = (*tdpsola.Processor)(nil)

// Edit is one immutable transformation in an Esig's edit log. The set of
// implementations is closed: Cache logic depends only on NeedsPitch and
// apply, so new edit kinds (time-stretch, gain) slot in without touching
// replay semantics.
type Edit interface {
	// Bounds returns the edit's half-open target range in contour frames.
	Bounds() (start, end int)
	// NeedsPitch reports whether applying the edit requires a pitch
	// contour freshly estimated from the pre-edit signal.
	NeedsPitch() bool

	apply(buf *signal.Buffer, pitch []float64, contourRate float64) error
}

// PitchChange multiplies the pitch contour over [start, end) by a
// constant factor and resynthesizes the signal to match.
type PitchChange struct {
	start       int
	end         int
	shiftFactor float64
	algorithm   string
}

var _ Edit = (*PitchChange)(nil)

// NewPitchChange validates and constructs a pitch-shift edit.
// The range is in contour frames, half-open, with 0 <= start <= end;
// shiftFactor must be positive (1.0 is a no-op); algorithm must be
// "tdpsola".
func NewPitchChange(start, end int, shiftFactor float64, algorithm string) (*PitchChange, error) {
	if start < 0 || start > end {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}
	if shiftFactor <= 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidShift, shiftFactor)
	}
	if algorithm != AlgorithmTDPSOLA {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, algorithm)
	}

	return &PitchChange{
		start:       start,
		end:         end,
		shiftFactor: shiftFactor,
		algorithm:   algorithm,
	}, nil
}

// Bounds returns the edited contour range.
func (pc *PitchChange) Bounds() (int, int) { return pc.start, pc.end }

// NeedsPitch always reports true: the shift is defined relative to the
// contour of the signal as it stands immediately before this edit.
func (pc *PitchChange) NeedsPitch() bool { return true }

// ShiftFactor returns the multiplicative pitch factor.
func (pc *PitchChange) ShiftFactor() float64 { return pc.shiftFactor }

// Algorithm returns the modification algorithm name.
func (pc *PitchChange) Algorithm() string { return pc.algorithm }

func (pc *PitchChange) apply(buf *signal.Buffer, pitch []float64, contourRate float64) error {
	mod, err := newModifier(pc.algorithm, buf.SampleRate)
	if err != nil {
		return err
	}

	return pc.applyWith(mod, buf, pitch, contourRate)
}

// applyWith shifts the target contour and hands source and target to the
// modification routine, replacing the buffer's samples on success.
func (pc *PitchChange) applyWith(mod Modifier, buf *signal.Buffer, pitch []float64, contourRate float64) error {
	target := append([]float64(nil), pitch...)
	for i := pc.start; i < pc.end && i < len(target); i++ {
		target[i] *= pc.shiftFactor
	}

	if buf.Channels == 1 {
		out, err := mod.Modify(buf.Data, pitch, target, contourRate)
		if err != nil {
			return fmt.Errorf("esig: pitch change: %w", err)
		}
		buf.Data = out
		return nil
	}

	chans := make([][]float64, buf.Channels)
	for c := range chans {
		out, err := mod.Modify(buf.Channel(c), pitch, target, contourRate)
		if err != nil {
			return fmt.Errorf("esig: pitch change channel %d: %w", c, err)
		}
		chans[c] = out
	}

	merged, err := signal.FromChannels(chans, buf.SampleRate)
	if err != nil {
		return fmt.Errorf("esig: pitch change: %w", err)
	}
	merged.Label = buf.Label
	*buf = merged
	return nil
}

func newModifier(algorithm string, sampleRate float64) (Modifier, error) {
	switch algorithm {
	case AlgorithmTDPSOLA:
		return tdpsola.New(sampleRate)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, algorithm)
	}
}
