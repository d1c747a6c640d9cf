package tdpsola

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-esig/dsp/core"
	"github.com/cwbudde/algo-esig/dsp/pitchtrack"
	"github.com/cwbudde/algo-esig/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
	if _, err := New(math.NaN()); err == nil {
		t.Fatalf("expected error for NaN sample rate")
	}
}

func TestModifyContourMismatch(t *testing.T) {
	p, err := New(44100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Modify(make([]float64, 100), []float64{220}, []float64{220, 220}, 100); err == nil {
		t.Fatalf("expected error for mismatched contours")
	}
}

func TestModifyEmptyInput(t *testing.T) {
	p, err := New(44100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := p.Modify(nil, []float64{220}, []float64{440}, 100)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("len = %d, want 0", len(out))
	}
}

func TestModifyEmptyContourCopies(t *testing.T) {
	p, err := New(44100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in := []float64{1, 2, 3}
	out, err := p.Modify(in, nil, nil, 100)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	out[0] = 9
	if in[0] != 1 {
		t.Fatalf("Modify must not alias its input")
	}
}

func TestModifyPreservesLength(t *testing.T) {
	const sr = 44100
	p, err := New(sr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in := testutil.DeterministicSine(220, sr, 0.8, sr/2)
	contour := testutil.DC(220, 50)
	out, err := p.Modify(in, contour, testutil.DC(440, 50), 100)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
}

func TestModifyIdentityShift(t *testing.T) {
	const sr = 44100
	p, err := New(sr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in := testutil.DeterministicSine(220, sr, 0.8, sr/2)
	contour := testutil.DC(220, 50)
	out, err := p.Modify(in, contour, contour, 100)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}

	// Compare away from the edges where grain coverage is partial.
	lo, hi := 2000, len(in)-2000
	diff := make([]float64, hi-lo)
	for i := range diff {
		diff[i] = out[lo+i] - in[lo+i]
	}
	if core.RMS(diff) > 0.05*core.RMS(in[lo:hi]) {
		t.Fatalf("identity shift error too large: rms %v", core.RMS(diff))
	}
}

func TestModifyDoublesPitch(t *testing.T) {
	const sr = 44100
	p, err := New(sr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in := testutil.DeterministicSine(220, sr, 0.8, sr)
	src := testutil.DC(220, 100)
	tgt := testutil.DC(440, 100)
	out, err := p.Modify(in, src, tgt, 100)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}

	tr, err := pitchtrack.New(sr)
	if err != nil {
		t.Fatalf("pitchtrack.New: %v", err)
	}
	contour, _, err := tr.Track(out)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}

	voicedNear := 0
	total := 0
	for i := 10; i < len(contour)-10; i++ {
		total++
		if math.Abs(contour[i]-440) < 15 {
			voicedNear++
		}
	}
	if total == 0 || voicedNear*4 < total*3 {
		t.Fatalf("only %d of %d interior frames near 440 Hz", voicedNear, total)
	}
}

func TestMarkEpochsSnapToCrests(t *testing.T) {
	const sr = 44100
	p, err := New(sr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in := testutil.DeterministicSine(220, sr, 0.8, sr/2)
	marks := p.markEpochs(in, testutil.DC(220, 50), 100)
	if len(marks) < 100 {
		t.Fatalf("too few marks: %d", len(marks))
	}

	period := sr / 220.0
	for i, m := range marks {
		idx := int(math.Round(m))
		if idx < 0 || idx >= len(in) {
			t.Fatalf("mark %d = %v out of range", i, m)
		}
		// Every mark must sit on a crest of the 0.8-amplitude carrier.
		if in[idx] < 0.75 {
			t.Fatalf("mark %d at %v has value %v, want a crest near 0.8", i, m, in[idx])
		}
		if i > 0 {
			spacing := m - marks[i-1]
			if math.Abs(spacing-period) > 2 {
				t.Fatalf("mark spacing %v at %d, want ~%v", spacing, i, period)
			}
		}
	}
}

func TestNearestMarkIndex(t *testing.T) {
	marks := []float64{0, 10, 20}
	if got := nearestMarkIndex(marks, 4); got != 0 {
		t.Fatalf("nearestMarkIndex(4) = %d, want 0", got)
	}
	if got := nearestMarkIndex(marks, 6); got != 1 {
		t.Fatalf("nearestMarkIndex(6) = %d, want 1", got)
	}
	if got := nearestMarkIndex(marks, 100); got != 2 {
		t.Fatalf("nearestMarkIndex(100) = %d, want 2", got)
	}
}
